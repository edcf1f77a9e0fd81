package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "pretty", cfg.LogFormat)
	assert.True(t, cfg.EnableDiskCache)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("ADMIN_TOKEN", "sesame")
	t.Setenv("FRONTEND_ORIGINS", "https://app.example")
	t.Setenv("ENABLE_DISK_CACHE", "false")
	t.Setenv("DISK_CACHE_PATH", "/var/cache/artlens.json")
	t.Setenv("STARTUP_RETRY_MAX_ATTEMPTS", "7")
	t.Setenv("STORE_RETRY_INITIAL_DELAY", "0.5")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	app := cfg.ToAppConfig()
	assert.Equal(t, 9090, app.Port())
	assert.Equal(t, LogFormatJSON, app.LogFormat())
	assert.Equal(t, "sesame", app.AdminToken())
	assert.Equal(t, []string{"https://app.example"}, app.FrontendOrigins())
	assert.False(t, app.DiskCache().Enabled())
	assert.Equal(t, "/var/cache/artlens.json", app.DiskCache().Path())
	assert.Equal(t, 7, app.StartupRetry().MaxAttempts())
	assert.Equal(t, 500*time.Millisecond, app.StoreRetry().InitialDelay())
}

func TestLoadFromEnvWithPrefix(t *testing.T) {
	t.Setenv("ARTLENS_PORT", "7070")

	cfg, err := LoadFromEnvWithPrefix("ARTLENS")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
}

func TestToAppConfig_ZeroRetryEnvKeepsDefaults(t *testing.T) {
	app := EnvConfig{}.ToAppConfig()

	assert.Equal(t, DefaultStoreMaxAttempts, app.StoreRetry().MaxAttempts())
	assert.Equal(t, DefaultStartupInitialDelay, app.StartupRetry().InitialDelay())
}

func TestParseLogFormat(t *testing.T) {
	assert.Equal(t, LogFormatJSON, ParseLogFormat("json"))
	assert.Equal(t, LogFormatJSON, ParseLogFormat("JSON"))
	assert.Equal(t, LogFormatPretty, ParseLogFormat("pretty"))
	assert.Equal(t, LogFormatPretty, ParseLogFormat("anything-else"))
}

package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewAppConfig_Defaults(t *testing.T) {
	cfg := NewAppConfig()

	assert.Equal(t, DefaultHost, cfg.Host())
	assert.Equal(t, DefaultPort, cfg.Port())
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel())
	assert.Equal(t, LogFormatPretty, cfg.LogFormat())
	assert.Empty(t, cfg.AdminToken())
	assert.True(t, strings.HasPrefix(cfg.DBURL(), "sqlite:///"))
	assert.True(t, cfg.DiskCache().Enabled())
	assert.Equal(t, DefaultFrontendOrigins, cfg.FrontendOrigins())
}

func TestWithDataDir_MovesDefaultDBURL(t *testing.T) {
	cfg := NewAppConfigWithOptions(WithDataDir("/srv/artlens"))

	assert.Equal(t, "/srv/artlens", cfg.DataDir())
	assert.Equal(t, "sqlite:///"+filepath.Join("/srv/artlens", DefaultDatabaseFileName), cfg.DBURL())
}

func TestWithDataDir_PreservesExplicitDBURL(t *testing.T) {
	cfg := NewAppConfigWithOptions(
		WithDBURL("postgres://user:pass@db:5432/artlens"),
		WithDataDir("/srv/artlens"),
	)

	assert.Equal(t, "postgres://user:pass@db:5432/artlens", cfg.DBURL())
}

func TestFrontendOrigins_ReturnsCopy(t *testing.T) {
	cfg := NewAppConfigWithOptions(WithFrontendOrigins([]string{"https://example.com"}))

	got := cfg.FrontendOrigins()
	got[0] = "https://mutated.example"
	assert.Equal(t, []string{"https://example.com"}, cfg.FrontendOrigins())
}

func TestRetryConfig_Clamping(t *testing.T) {
	r := NewRetryConfig(0, -1, 0.5, 0)
	assert.Equal(t, 1, r.MaxAttempts())
	assert.Equal(t, 1.0, r.BackoffFactor())

	r = r.WithMaxAttempts(-3)
	assert.Equal(t, 1, r.MaxAttempts())
}

func TestRetryConfig_Schedules(t *testing.T) {
	store := NewStoreRetryConfig()
	assert.Equal(t, 3, store.MaxAttempts())
	assert.Equal(t, time.Second, store.InitialDelay())

	startup := NewStartupRetryConfig()
	assert.Equal(t, 5, startup.MaxAttempts())
	assert.Equal(t, 1500*time.Millisecond, startup.InitialDelay())
	assert.Equal(t, 15*time.Second, startup.MaxDelay())
}

func TestParseOrigins(t *testing.T) {
	assert.Equal(t,
		[]string{"https://a.example", "https://b.example"},
		ParseOrigins(" https://a.example , https://b.example ,"),
	)
	assert.Equal(t, DefaultFrontendOrigins, ParseOrigins(""))
	assert.Equal(t, DefaultFrontendOrigins, ParseOrigins("   "))
}

func TestMaskedDBURL(t *testing.T) {
	sqlite := NewAppConfigWithOptions(WithDBURL("sqlite:///tmp/test.db"))
	assert.Equal(t, "sqlite:///tmp/test.db", sqlite.maskedDBURL())

	pg := NewAppConfigWithOptions(WithDBURL("postgres://user:secret@db/artlens"))
	assert.Equal(t, "postgres://***@***", pg.maskedDBURL())
}

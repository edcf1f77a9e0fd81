package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: DATA_DIR
	// Default: ~/.artlens
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite:///{data_dir}/artlens.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// AdminToken is the credential required by mutating endpoints. When
	// unset, admin endpoints reject every request.
	// Env: ADMIN_TOKEN
	AdminToken string `envconfig:"ADMIN_TOKEN"`

	// FrontendOrigins is a comma-separated list of allowed CORS origins.
	// Env: FRONTEND_ORIGINS (default: local dev origins)
	FrontendOrigins string `envconfig:"FRONTEND_ORIGINS"`

	// EnableDiskCache controls the warm cache file.
	// Env: ENABLE_DISK_CACHE (default: true)
	EnableDiskCache bool `envconfig:"ENABLE_DISK_CACHE" default:"true"`

	// DiskCachePath is the warm cache file path.
	// Env: DISK_CACHE_PATH
	// Default: {tmp}/artlens_cache.json
	DiskCachePath string `envconfig:"DISK_CACHE_PATH"`

	// StoreRetry configures the per-statement retry schedule.
	StoreRetry RetryEnv `envconfig:"STORE_RETRY"`

	// StartupRetry configures the startup-refresh retry schedule.
	StartupRetry RetryEnv `envconfig:"STARTUP_RETRY"`
}

// RetryEnv holds environment configuration for a backoff schedule. Zero
// values mean "use the built-in default for this schedule".
type RetryEnv struct {
	// MaxAttempts is the attempt limit.
	// Env: *_MAX_ATTEMPTS
	MaxAttempts int `envconfig:"MAX_ATTEMPTS"`

	// InitialDelay is the first backoff delay in seconds.
	// Env: *_INITIAL_DELAY
	InitialDelay float64 `envconfig:"INITIAL_DELAY"`
}

// LoadFromEnv loads configuration from environment variables without a
// prefix, matching the original deployment's variable names.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// LoadFromEnvWithPrefix loads configuration with a custom prefix. For
// example, prefix "ARTLENS" would require ARTLENS_DATA_DIR instead of
// DATA_DIR.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.Host != "" {
		cfg = cfg.Apply(WithHost(e.Host))
	}
	if e.Port != 0 {
		cfg = cfg.Apply(WithPort(e.Port))
	}
	if e.DataDir != "" {
		cfg = cfg.Apply(WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = cfg.Apply(WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = cfg.Apply(WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = cfg.Apply(WithLogFormat(ParseLogFormat(e.LogFormat)))
	}
	if e.AdminToken != "" {
		cfg = cfg.Apply(WithAdminToken(e.AdminToken))
	}

	cfg = cfg.Apply(WithFrontendOrigins(ParseOrigins(e.FrontendOrigins)))

	diskCache := NewDiskCacheConfig().
		WithEnabled(e.EnableDiskCache).
		WithPath(e.DiskCachePath)
	cfg = cfg.Apply(WithDiskCacheConfig(diskCache))

	cfg = cfg.Apply(WithStoreRetryConfig(e.StoreRetry.applyTo(NewStoreRetryConfig())))
	cfg = cfg.Apply(WithStartupRetryConfig(e.StartupRetry.applyTo(NewStartupRetryConfig())))

	return cfg
}

func (r RetryEnv) applyTo(base RetryConfig) RetryConfig {
	if r.MaxAttempts > 0 {
		base = base.WithMaxAttempts(r.MaxAttempts)
	}
	if r.InitialDelay > 0 {
		base = base.WithInitialDelay(time.Duration(r.InitialDelay * float64(time.Second)))
	}
	return base
}

// ParseLogFormat parses a log format string, defaulting to pretty.
func ParseLogFormat(s string) LogFormat {
	switch s {
	case "json", "JSON":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}

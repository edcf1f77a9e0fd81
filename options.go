package artlens

import (
	"log/slog"

	"github.com/artlens/artlens/internal/config"
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	app    config.AppConfig
	logger *slog.Logger
}

// newClientConfig creates a clientConfig with defaults from internal/config.
// This ensures all defaults come from the single source of truth.
func newClientConfig() *clientConfig {
	return &clientConfig{
		app: config.NewAppConfig(),
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithConfig replaces the whole application configuration, typically one
// loaded from the environment.
func WithConfig(cfg config.AppConfig) Option {
	return func(c *clientConfig) {
		c.app = cfg
	}
}

// WithSQLite configures SQLite as the durable store, using the given file path.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithDBURL("sqlite:///" + path))
	}
}

// WithPostgres configures PostgreSQL as the durable store.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithDBURL(dsn))
	}
}

// WithDataDir sets the data directory for the database file and warm cache.
func WithDataDir(dir string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithDataDir(dir))
	}
}

// WithAdminToken sets the token required by mutating endpoints.
func WithAdminToken(token string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithAdminToken(token))
	}
}

// WithFrontendOrigins sets the allowed CORS origins.
func WithFrontendOrigins(origins ...string) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithFrontendOrigins(origins))
	}
}

// WithDiskCache configures the warm cache file.
func WithDiskCache(cfg config.DiskCacheConfig) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithDiskCacheConfig(cfg))
	}
}

// WithStoreRetry sets the retry schedule for durable store statements.
func WithStoreRetry(cfg config.RetryConfig) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithStoreRetryConfig(cfg))
	}
}

// WithStartupRetry sets the retry schedule for the startup refresh.
func WithStartupRetry(cfg config.RetryConfig) Option {
	return func(c *clientConfig) {
		c.app = c.app.Apply(config.WithStartupRetryConfig(cfg))
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

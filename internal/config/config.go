// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultHost                = "0.0.0.0"
	DefaultPort                = 8080
	DefaultLogLevel            = "INFO"
	DefaultMatchTopK           = 1
	MaxMatchTopK               = 50
	DefaultMatchThreshold      = 0.0
	DefaultCacheFileName       = "artlens_cache.json"
	DefaultDatabaseFileName    = "artlens.db"
	DefaultStoreMaxAttempts    = 3
	DefaultStoreInitialDelay   = time.Second
	DefaultStartupMaxAttempts  = 5
	DefaultStartupInitialDelay = 1500 * time.Millisecond
	DefaultBackoffFactor       = 2.0
	DefaultStoreMaxDelay       = 10 * time.Second
	DefaultStartupMaxDelay     = 15 * time.Second
)

// DefaultFrontendOrigins are the CORS origins allowed when FRONTEND_ORIGINS
// is unset, covering common local dev servers.
var DefaultFrontendOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"http://localhost:3000",
	"http://127.0.0.1:3000",
}

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// RetryConfig describes an exponential backoff schedule.
type RetryConfig struct {
	maxAttempts   int
	initialDelay  time.Duration
	backoffFactor float64
	maxDelay      time.Duration
}

// NewRetryConfig creates a RetryConfig, clamping nonsensical values.
func NewRetryConfig(maxAttempts int, initialDelay time.Duration, backoffFactor float64, maxDelay time.Duration) RetryConfig {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if backoffFactor < 1 {
		backoffFactor = 1
	}
	return RetryConfig{
		maxAttempts:   maxAttempts,
		initialDelay:  initialDelay,
		backoffFactor: backoffFactor,
		maxDelay:      maxDelay,
	}
}

// NewStoreRetryConfig returns the default per-statement schedule.
func NewStoreRetryConfig() RetryConfig {
	return NewRetryConfig(DefaultStoreMaxAttempts, DefaultStoreInitialDelay, DefaultBackoffFactor, DefaultStoreMaxDelay)
}

// NewStartupRetryConfig returns the default startup-refresh schedule.
func NewStartupRetryConfig() RetryConfig {
	return NewRetryConfig(DefaultStartupMaxAttempts, DefaultStartupInitialDelay, DefaultBackoffFactor, DefaultStartupMaxDelay)
}

// MaxAttempts returns the attempt limit.
func (r RetryConfig) MaxAttempts() int { return r.maxAttempts }

// InitialDelay returns the delay before the second attempt.
func (r RetryConfig) InitialDelay() time.Duration { return r.initialDelay }

// BackoffFactor returns the delay multiplier.
func (r RetryConfig) BackoffFactor() float64 { return r.backoffFactor }

// MaxDelay returns the backoff cap.
func (r RetryConfig) MaxDelay() time.Duration { return r.maxDelay }

// WithMaxAttempts returns a copy with the attempt limit replaced.
func (r RetryConfig) WithMaxAttempts(n int) RetryConfig {
	if n >= 1 {
		r.maxAttempts = n
	}
	return r
}

// WithInitialDelay returns a copy with the initial delay replaced.
func (r RetryConfig) WithInitialDelay(d time.Duration) RetryConfig {
	if d >= 0 {
		r.initialDelay = d
	}
	return r
}

// DiskCacheConfig configures the warm cache file.
type DiskCacheConfig struct {
	enabled bool
	path    string
}

// NewDiskCacheConfig creates a DiskCacheConfig with defaults: enabled,
// writing to the system temp directory.
func NewDiskCacheConfig() DiskCacheConfig {
	return DiskCacheConfig{
		enabled: true,
		path:    filepath.Join(os.TempDir(), DefaultCacheFileName),
	}
}

// Enabled returns whether the warm cache is enabled.
func (d DiskCacheConfig) Enabled() bool { return d.enabled }

// Path returns the warm cache file path.
func (d DiskCacheConfig) Path() string { return d.path }

// WithEnabled returns a copy with the enabled state replaced.
func (d DiskCacheConfig) WithEnabled(enabled bool) DiskCacheConfig {
	d.enabled = enabled
	return d
}

// WithPath returns a copy with the cache path replaced.
func (d DiskCacheConfig) WithPath(path string) DiskCacheConfig {
	if path != "" {
		d.path = path
	}
	return d
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	host            string
	port            int
	dataDir         string
	dbURL           string
	logLevel        string
	logFormat       LogFormat
	adminToken      string
	frontendOrigins []string
	diskCache       DiskCacheConfig
	storeRetry      RetryConfig
	startupRetry    RetryConfig
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".artlens"
	}
	return filepath.Join(home, ".artlens")
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	dataDir := DefaultDataDir()
	origins := make([]string, len(DefaultFrontendOrigins))
	copy(origins, DefaultFrontendOrigins)
	return AppConfig{
		host:            DefaultHost,
		port:            DefaultPort,
		dataDir:         dataDir,
		dbURL:           "sqlite:///" + filepath.Join(dataDir, DefaultDatabaseFileName),
		logLevel:        DefaultLogLevel,
		logFormat:       LogFormatPretty,
		frontendOrigins: origins,
		diskCache:       NewDiskCacheConfig(),
		storeRetry:      NewStoreRetryConfig(),
		startupRetry:    NewStartupRetryConfig(),
	}
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// AdminToken returns the admin credential required by mutating endpoints.
// An empty token means admin endpoints reject every request.
func (c AppConfig) AdminToken() string { return c.adminToken }

// FrontendOrigins returns the allowed CORS origins.
func (c AppConfig) FrontendOrigins() []string {
	origins := make([]string, len(c.frontendOrigins))
	copy(origins, c.frontendOrigins)
	return origins
}

// DiskCache returns the warm cache config.
func (c AppConfig) DiskCache() DiskCacheConfig { return c.diskCache }

// StoreRetry returns the per-statement retry schedule.
func (c AppConfig) StoreRetry() RetryConfig { return c.storeRetry }

// StartupRetry returns the startup-refresh retry schedule.
func (c AppConfig) StartupRetry() RetryConfig { return c.startupRetry }

// EnsureDataDir creates the data directory if it doesn't exist.
func (c AppConfig) EnsureDataDir() error {
	if err := os.MkdirAll(c.dataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	return nil
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDataDir sets the data directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) {
		c.dataDir = dir
		// Keep the default DB URL pointing into the data dir
		if c.dbURL == "" || strings.Contains(c.dbURL, DefaultDatabaseFileName) {
			c.dbURL = "sqlite:///" + filepath.Join(dir, DefaultDatabaseFileName)
		}
	}
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithAdminToken sets the admin credential.
func WithAdminToken(token string) AppConfigOption {
	return func(c *AppConfig) { c.adminToken = token }
}

// WithFrontendOrigins sets the allowed CORS origins.
func WithFrontendOrigins(origins []string) AppConfigOption {
	return func(c *AppConfig) {
		c.frontendOrigins = make([]string, len(origins))
		copy(c.frontendOrigins, origins)
	}
}

// WithDiskCacheConfig sets the warm cache config.
func WithDiskCacheConfig(d DiskCacheConfig) AppConfigOption {
	return func(c *AppConfig) { c.diskCache = d }
}

// WithStoreRetryConfig sets the per-statement retry schedule.
func WithStoreRetryConfig(r RetryConfig) AppConfigOption {
	return func(c *AppConfig) { c.storeRetry = r }
}

// WithStartupRetryConfig sets the startup-refresh retry schedule.
func WithStartupRetryConfig(r RetryConfig) AppConfigOption {
	return func(c *AppConfig) { c.startupRetry = r }
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
// The admin token is shown only as a configured/unconfigured flag.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("addr", c.Addr()),
		slog.String("data_dir", c.dataDir),
		slog.String("log_level", c.logLevel),
		slog.String("db_url", c.maskedDBURL()),
		slog.Bool("admin_token_configured", c.adminToken != ""),
		slog.Int("frontend_origins", len(c.frontendOrigins)),
		slog.Bool("disk_cache_enabled", c.diskCache.Enabled()),
		slog.String("disk_cache_path", c.diskCache.Path()),
	}
}

func (c AppConfig) maskedDBURL() string {
	if c.dbURL == "" {
		return "(default)"
	}
	if strings.HasPrefix(c.dbURL, "sqlite:") {
		return c.dbURL
	}
	return "postgres://***@***"
}

// ParseOrigins parses a comma-separated origin list, trimming whitespace and
// dropping empty entries. An empty input yields the default dev origins.
func ParseOrigins(s string) []string {
	if strings.TrimSpace(s) == "" {
		origins := make([]string, len(DefaultFrontendOrigins))
		copy(origins, DefaultFrontendOrigins)
		return origins
	}
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

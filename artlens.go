// Package artlens provides a cache-coherent similarity matching engine for
// artwork image embeddings.
//
// The catalog of artworks and their visual descriptors lives in a durable
// SQL store; every read that matters for latency is served from an immutable
// in-process snapshot that writers replace atomically. A warm cache file
// lets the process come back up without touching the store at all.
//
// Basic usage:
//
//	client, err := artlens.New(
//	    artlens.WithSQLite(".artlens/artlens.db"),
//	    artlens.WithAdminToken(os.Getenv("ADMIN_TOKEN")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	if err := client.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	matches, err := client.Matcher.Match(embedding, service.WithTopK(3))
package artlens

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/artlens/artlens/application/service"
	"github.com/artlens/artlens/domain/catalog"
	"github.com/artlens/artlens/infrastructure/cache"
	"github.com/artlens/artlens/infrastructure/persistence"
	"github.com/artlens/artlens/internal/config"
	"github.com/artlens/artlens/internal/database"
	"github.com/artlens/artlens/internal/log"
)

// ErrClientClosed is returned by Close when the client is already closed.
var ErrClientClosed = errors.New("client already closed")

// Client is the main entry point for the artlens library.
//
// Access the write path and snapshot lifecycle via Catalog, and the read
// path via Matcher:
//
//	client.Catalog.Upsert(ctx, artwork, descriptors)
//	client.Matcher.Match(embedding, service.WithTopK(3))
type Client struct {
	// Public resource fields (direct service access)
	Catalog *service.Catalog
	Matcher service.Matcher

	db     database.Database
	holder *catalog.Holder
	warm   *cache.WarmCache
	cfg    config.AppConfig
	logger *slog.Logger
	closed atomic.Bool
}

// New creates a new Client with the given options. The snapshot is empty
// until Start populates it.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = log.Configure(cfg.app).Slog()
	}

	if err := cfg.app.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("prepare data dir: %w", err)
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, cfg.app.DBURL())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := persistence.AutoMigrate(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
	}

	if err := persistence.ValidateSchema(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("validate schema: %w", err), errClose)
	}

	storeRetry := retryPolicy(cfg.app.StoreRetry())
	artworkStore := persistence.NewArtworkStore(db, storeRetry)
	descriptorStore := persistence.NewDescriptorStore(db, storeRetry)
	settingStore := persistence.NewSettingStore(db, storeRetry)

	diskCache := cfg.app.DiskCache()
	warm := cache.NewWarmCache(diskCache.Path(), diskCache.Enabled(), logger)

	holder := catalog.NewHolder()

	client := &Client{
		db:     db,
		holder: holder,
		warm:   warm,
		cfg:    cfg.app,
		logger: logger,
	}

	client.Catalog = service.NewCatalog(
		artworkStore,
		descriptorStore,
		settingStore,
		warm,
		holder,
		retryPolicy(cfg.app.StartupRetry()),
		logger,
	)
	client.Matcher = service.NewMatcher(holder, logger)

	return client, nil
}

// Start populates the snapshot from the warm cache or the durable store.
// The client serves an empty snapshot until this returns.
func (c *Client) Start(ctx context.Context) error {
	return c.Catalog.Start(ctx)
}

// Close releases the database connection.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	c.logger.Info("artlens client closed")
	return nil
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Config returns the resolved application configuration.
func (c *Client) Config() config.AppConfig {
	return c.cfg
}

// Driver returns the durable store driver name, for health reporting.
func (c *Client) Driver() string {
	if c.db.IsPostgres() {
		return "postgres"
	}
	return "sqlite"
}

// retryPolicy converts a configured retry schedule into a database policy.
func retryPolicy(rc config.RetryConfig) database.RetryPolicy {
	return database.NewRetryPolicy(rc.MaxAttempts(), rc.InitialDelay(), rc.BackoffFactor(), rc.MaxDelay())
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/artlens/artlens"
	"github.com/artlens/artlens/infrastructure/api"
	"github.com/artlens/artlens/internal/config"
	"github.com/artlens/artlens/internal/log"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                         Server host to bind to (default: 0.0.0.0)
  PORT                         Server port to listen on (default: 8000)
  DATA_DIR                     Data directory (default: ~/.artlens)
  DB_URL                       Database URL (default: sqlite:///{data_dir}/artlens.db)
  LOG_LEVEL                    Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                   Log format: pretty, json (default: pretty)
  ADMIN_TOKEN                  Token required by mutating endpoints (unset closes them)
  FRONTEND_ORIGINS             Comma-separated CORS origins

  ENABLE_DISK_CACHE            Persist the snapshot to a warm cache file (default: true)
  DISK_CACHE_PATH              Warm cache file path

  STORE_RETRY_MAX_ATTEMPTS     Retry attempts per store statement (default: 3)
  STORE_RETRY_INITIAL_DELAY    First store retry delay in seconds (default: 1)
  STARTUP_RETRY_MAX_ATTEMPTS   Retry attempts for the startup refresh (default: 5)
  STARTUP_RETRY_INITIAL_DELAY  First startup retry delay in seconds (default: 1.5)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8000)")

	return cmd
}

func runServe(envFile, host string, port int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	// Flags take precedence over env vars.
	cfg = applyServeOverrides(cfg, host, port)

	logger := log.NewLogger(cfg)
	logger.SetDefault()
	slogger := logger.Slog()

	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	slogger.LogAttrs(context.Background(), slog.LevelInfo, "starting artlens", attrs...)

	client, err := artlens.New(
		artlens.WithConfig(cfg),
		artlens.WithLogger(slogger),
	)
	if err != nil {
		return fmt.Errorf("create artlens client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close artlens client", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Populate the snapshot before accepting traffic. A dead store is fine,
	// the server comes up empty and /health_db reports the failure.
	if err := client.Start(ctx); err != nil {
		return fmt.Errorf("populate snapshot: %w", err)
	}

	apiServer := api.NewAPIServer(client)

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var g errgroup.Group
	g.Go(func() error {
		// Unblock the shutdown goroutine if the listener dies on its own.
		defer stop()
		if err := apiServer.ListenAndServe(cfg.Addr()); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-sigCtx.Done()
		slogger.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		return apiServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}

	return cfg.Apply(opts...)
}

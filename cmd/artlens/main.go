// Package main is the entry point for the artlens CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artlens/artlens/internal/config"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artlens",
		Short: "ArtLens similarity matching server",
		Long:  `ArtLens serves an artwork catalog and matches camera-frame embeddings against it, answering every query from an in-process snapshot of the descriptor corpus.`,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

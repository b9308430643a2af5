// Package main implements the exitcheck command: schema migrations, a
// scripted run of the exit checker core with its HTTP adapter, and the
// statistics summary.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/phrazzld/exitcheck/internal/config"
	"github.com/phrazzld/exitcheck/internal/platform/logger"
	"github.com/spf13/cobra"
)

var (
	configFile string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "exitcheck",
	Short: "Leave-home checklist: geofence exits, checklists, streaks and patterns",
	Long: `exitcheck runs the exit checker core. A geofence around home triggers a
checklist prompt on every exit; answers are recorded, perfect exits build a
daily streak, and the forgetting history is analyzed for patterns.

Configuration is read from config.yaml (or --config) and EXITCHECK_*
environment variables. An empty database URL keeps everything in memory.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./config.yaml if present)")
}

// setup loads the configuration and installs the logger. Logs go to
// stderr so command output on stdout stays machine-readable.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.SetupWithWriter(cfg.Log, os.Stderr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return cfg, log, nil
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/exitcheck/internal/platform/postgres"
	"github.com/spf13/cobra"
)

var migrateTimeout time.Duration

func init() {
	migrateCmd.Flags().DurationVar(&migrateTimeout, "timeout", 5*time.Minute, "migration timeout")
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|reset|status|version]",
	Short:     "Apply the embedded database migrations",
	Long:      `Run a goose migration command against the configured database. Defaults to up.`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateReset, postgres.MigrateStatus, postgres.MigrateVersion},
	RunE:      runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return errors.New("migrate needs database.url (EXITCHECK_DATABASE_URL)")
	}

	command := postgres.MigrateUp
	if len(args) == 1 {
		command = args[0]
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	return postgres.Migrate(ctx, db, command, log)
}

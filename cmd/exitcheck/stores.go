package main

import (
	"context"
	"log/slog"

	"github.com/phrazzld/exitcheck/internal/app"
	"github.com/phrazzld/exitcheck/internal/config"
	"github.com/phrazzld/exitcheck/internal/platform/memory"
	"github.com/phrazzld/exitcheck/internal/platform/postgres"
)

// openStores returns postgres-backed stores when a database URL is set and
// in-memory ones otherwise. The returned func releases them.
func openStores(ctx context.Context, cfg *config.Config, log *slog.Logger) (app.Stores, func(), error) {
	if cfg.Database.URL == "" {
		log.Info("no database configured, using in-memory stores")
		return app.MemoryStores(memory.New()), func() {}, nil
	}

	db, err := postgres.Open(ctx, cfg.Database, log)
	if err != nil {
		return app.Stores{}, nil, err
	}
	stores := app.Stores{
		Homes:   postgres.NewPostgresHomeLocationStore(db, log),
		Items:   postgres.NewPostgresChecklistItemStore(db, log),
		Events:  postgres.NewPostgresExitEventStore(db, log),
		Streaks: postgres.NewPostgresStreakStore(db, log),
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", slog.String("error", err.Error()))
		}
	}
	return stores, closeDB, nil
}

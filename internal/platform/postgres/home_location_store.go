package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/platform/logger"
	"github.com/phrazzld/exitcheck/internal/store"
)

const homeLocationEntity = "home_location"

// PostgresHomeLocationStore implements store.HomeLocationStore.
type PostgresHomeLocationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresHomeLocationStore creates a new PostgreSQL implementation of the
// HomeLocationStore interface.
func NewPostgresHomeLocationStore(db store.DBTX, logger *slog.Logger) *PostgresHomeLocationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresHomeLocationStore{
		db:     db,
		logger: logger.With(slog.String("component", "home_location_store")),
	}
}

var _ store.HomeLocationStore = (*PostgresHomeLocationStore)(nil)

// Get implements store.HomeLocationStore.Get.
func (s *PostgresHomeLocationStore) Get(ctx context.Context) (*domain.HomeLocation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var h domain.HomeLocation
	err := s.db.QueryRowContext(ctx, `
		SELECT id, latitude, longitude, radius, name, created_at, updated_at
		FROM home_locations
		ORDER BY updated_at DESC
		LIMIT 1
	`).Scan(&h.ID, &h.Latitude, &h.Longitude, &h.Radius, &h.Name, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrHomeLocationNotFound
		}
		log.Error("failed to get home location", slog.String("error", err.Error()))
		return nil, mapEntityError(err, homeLocationEntity, "get", store.ErrHomeLocationNotFound, nil)
	}

	return &h, nil
}

// Save implements store.HomeLocationStore.Save. Other rows are removed in the
// same statement so at most one home location exists.
func (s *PostgresHomeLocationStore) Save(ctx context.Context, home *domain.HomeLocation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := home.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		WITH removed AS (
			DELETE FROM home_locations WHERE id <> $1
		)
		INSERT INTO home_locations (id, latitude, longitude, radius, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			radius = EXCLUDED.radius,
			name = EXCLUDED.name,
			updated_at = EXCLUDED.updated_at
	`, home.ID, home.Latitude, home.Longitude, home.Radius, home.Name, home.CreatedAt, home.UpdatedAt)
	if err != nil {
		log.Error("failed to save home location",
			slog.String("error", err.Error()),
			slog.String("home_id", home.ID.String()))
		return mapEntityError(err, homeLocationEntity, "save", nil, nil)
	}

	log.Debug("home location saved", slog.String("home_id", home.ID.String()))
	return nil
}

// Delete implements store.HomeLocationStore.Delete.
func (s *PostgresHomeLocationStore) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM home_locations`); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete home location",
			slog.String("error", err.Error()))
		return mapEntityError(err, homeLocationEntity, "delete", nil, nil)
	}
	return nil
}

package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/platform/logger"
	"github.com/phrazzld/exitcheck/internal/store"
)

const exitEventEntity = "exit_event"

// PostgresExitEventStore implements store.ExitEventStore. Forgotten item
// titles are stored as a JSONB array.
type PostgresExitEventStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresExitEventStore creates a new PostgreSQL implementation of the
// ExitEventStore interface.
func NewPostgresExitEventStore(db store.DBTX, logger *slog.Logger) *PostgresExitEventStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresExitEventStore{
		db:     db,
		logger: logger.With(slog.String("component", "exit_event_store")),
	}
}

var _ store.ExitEventStore = (*PostgresExitEventStore)(nil)

// Create implements store.ExitEventStore.Create.
func (s *PostgresExitEventStore) Create(ctx context.Context, event *domain.ExitEvent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := event.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	forgotten, err := json.Marshal(nonNil(event.ForgottenItems))
	if err != nil {
		return fmt.Errorf("%w: forgotten items: %v", store.ErrInvalidEntity, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO exit_events
			(id, occurred_at, was_complete, dismissed_early, forgotten_items, day_of_week, hour_of_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, event.ID, event.Timestamp, event.WasComplete, event.DismissedEarly,
		string(forgotten), int(event.DayOfWeek), event.HourOfDay)
	if err != nil {
		log.Error("failed to create exit event",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()))
		return mapEntityError(err, exitEventEntity, "create", nil, store.ErrExitEventExists)
	}

	log.Debug("exit event created",
		slog.String("event_id", event.ID.String()),
		slog.Bool("was_complete", event.WasComplete),
		slog.Bool("dismissed_early", event.DismissedEarly))
	return nil
}

// List implements store.ExitEventStore.List.
func (s *PostgresExitEventStore) List(ctx context.Context, order store.SortOrder, limit int) ([]*domain.ExitEvent, error) {
	query := `
		SELECT id, occurred_at, was_complete, dismissed_early, forgotten_items, day_of_week, hour_of_day
		FROM exit_events`
	if order == store.Descending {
		query += ` ORDER BY occurred_at DESC, id`
	} else {
		query += ` ORDER BY occurred_at ASC, id`
	}
	args := make([]any, 0, 1)
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list exit events",
			slog.String("error", err.Error()))
		return nil, mapEntityError(err, exitEventEntity, "list", nil, nil)
	}
	defer func() { _ = rows.Close() }()

	events := make([]*domain.ExitEvent, 0)
	for rows.Next() {
		var (
			e         domain.ExitEvent
			forgotten []byte
			day       int
			occurred  time.Time
		)
		if err := rows.Scan(&e.ID, &occurred, &e.WasComplete, &e.DismissedEarly,
			&forgotten, &day, &e.HourOfDay); err != nil {
			return nil, mapEntityError(err, exitEventEntity, "list", nil, nil)
		}
		if err := json.Unmarshal(forgotten, &e.ForgottenItems); err != nil {
			return nil, store.NewStoreError(exitEventEntity, "list", "invalid forgotten items", err)
		}
		e.Timestamp = occurred
		e.DayOfWeek = time.Weekday(day)
		e.ForgottenItems = nonNil(e.ForgottenItems)
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapEntityError(err, exitEventEntity, "list", nil, nil)
	}

	return events, nil
}

// Count implements store.ExitEventStore.Count.
func (s *PostgresExitEventStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exit_events`).Scan(&n); err != nil {
		return 0, mapEntityError(err, exitEventEntity, "count", nil, nil)
	}
	return n, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

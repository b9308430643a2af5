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

const streakEntity = "streak_state"

// PostgresStreakStore implements store.StreakStore on a single-row table.
type PostgresStreakStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStreakStore creates a new PostgreSQL implementation of the
// StreakStore interface.
func NewPostgresStreakStore(db store.DBTX, logger *slog.Logger) *PostgresStreakStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStreakStore{
		db:     db,
		logger: logger.With(slog.String("component", "streak_store")),
	}
}

var _ store.StreakStore = (*PostgresStreakStore)(nil)

// Get implements store.StreakStore.Get.
func (s *PostgresStreakStore) Get(ctx context.Context) (*domain.StreakState, error) {
	var (
		state domain.StreakState
		last  sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT current_streak, last_perfect_exit_at, total_perfect_exits, updated_at
		FROM streak_state WHERE id = 1
	`).Scan(&state.CurrentStreak, &last, &state.TotalPerfectExits, &state.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewStreakState(), nil
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get streak state",
			slog.String("error", err.Error()))
		return nil, mapEntityError(err, streakEntity, "get", nil, nil)
	}
	if last.Valid {
		t := last.Time
		state.LastPerfectExitAt = &t
	}
	return &state, nil
}

// Save implements store.StreakStore.Save.
func (s *PostgresStreakStore) Save(ctx context.Context, state *domain.StreakState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO streak_state (id, current_streak, last_perfect_exit_at, total_perfect_exits, updated_at)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			current_streak = EXCLUDED.current_streak,
			last_perfect_exit_at = EXCLUDED.last_perfect_exit_at,
			total_perfect_exits = EXCLUDED.total_perfect_exits,
			updated_at = EXCLUDED.updated_at
	`, state.CurrentStreak, nullTime(state.LastPerfectExitAt), state.TotalPerfectExits, state.UpdatedAt)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to save streak state",
			slog.String("error", err.Error()))
		return mapEntityError(err, streakEntity, "save", nil, nil)
	}
	return nil
}

// Reset implements store.StreakStore.Reset.
func (s *PostgresStreakStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM streak_state`); err != nil {
		return mapEntityError(err, streakEntity, "reset", nil, nil)
	}
	return nil
}

package store

import (
	"context"

	"github.com/phrazzld/exitcheck/internal/domain"
)

// StreakStore persists the process-wide streak state.
type StreakStore interface {
	// Get returns the stored state, or a fresh zero state if none was saved.
	Get(ctx context.Context) (*domain.StreakState, error)

	// Save replaces the stored state.
	// Returns ErrInvalidEntity if the state fails validation.
	Save(ctx context.Context, state *domain.StreakState) error

	// Reset clears the state back to zero.
	Reset(ctx context.Context) error
}

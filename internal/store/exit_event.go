package store

import (
	"context"

	"github.com/phrazzld/exitcheck/internal/domain"
)

// SortOrder is the timestamp order of a listing.
type SortOrder int

// Sort orders
const (
	Ascending SortOrder = iota
	Descending
)

// ExitEventStore is the append-only exit log.
type ExitEventStore interface {
	// Create appends an event. It is immediately visible to List and Count.
	// Returns ErrInvalidEntity if the event fails validation and
	// ErrExitEventExists if the ID was already recorded.
	Create(ctx context.Context, event *domain.ExitEvent) error

	// List returns events by timestamp in the given order. A positive limit
	// caps the result.
	List(ctx context.Context, order SortOrder, limit int) ([]*domain.ExitEvent, error)

	// Count returns the number of recorded events.
	Count(ctx context.Context) (int, error)
}

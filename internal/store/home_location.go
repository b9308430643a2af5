package store

import (
	"context"

	"github.com/phrazzld/exitcheck/internal/domain"
)

// HomeLocationStore persists the single home zone.
type HomeLocationStore interface {
	// Get returns the stored home location.
	// Returns ErrHomeLocationNotFound if none is set.
	Get(ctx context.Context) (*domain.HomeLocation, error)

	// Save stores home as the only home location, replacing any other.
	// Returns ErrInvalidEntity if home fails validation.
	Save(ctx context.Context, home *domain.HomeLocation) error

	// Delete removes the home location. Deleting when none is set is not an error.
	Delete(ctx context.Context) error
}

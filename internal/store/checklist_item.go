package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/exitcheck/internal/domain"
)

// ChecklistItemFilter narrows a List call.
type ChecklistItemFilter struct {
	// ActiveOnly excludes inactive items.
	ActiveOnly bool
	// ForgottenOnly keeps items with a positive ForgottenCount.
	ForgottenOnly bool
	// OrderByForgotten sorts by ForgottenCount descending instead of Order.
	OrderByForgotten bool
	// Limit caps the result when positive.
	Limit int
}

// ChecklistItemStore defines the interface for checklist item persistence.
type ChecklistItemStore interface {
	// Create saves a new item.
	// Returns ErrInvalidEntity if the item fails validation.
	Create(ctx context.Context, item *domain.ChecklistItem) error

	// GetByID retrieves an item by its unique ID.
	// Returns ErrChecklistItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ChecklistItem, error)

	// Update overwrites every mutable field of an existing item.
	// Returns ErrChecklistItemNotFound if the item does not exist.
	Update(ctx context.Context, item *domain.ChecklistItem) error

	// Delete removes an item.
	// Returns ErrChecklistItemNotFound if the item does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns items matching filter, ordered by Order then CreatedAt
	// unless the filter asks otherwise.
	List(ctx context.Context, filter ChecklistItemFilter) ([]*domain.ChecklistItem, error)

	// Reorder assigns Order = index to each ID in ids, atomically.
	// Returns ErrChecklistItemNotFound if any ID does not exist.
	Reorder(ctx context.Context, ids []uuid.UUID) error
}

package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/store"
)

// MockChecklistItemStore implements store.ChecklistItemStore. Calls without
// a function field fall through to Delegate.
type MockChecklistItemStore struct {
	ListFn   func(ctx context.Context, filter store.ChecklistItemFilter) ([]*domain.ChecklistItem, error)
	UpdateFn func(ctx context.Context, item *domain.ChecklistItem) error

	Delegate store.ChecklistItemStore

	mu          sync.Mutex
	UpdateCalls []uuid.UUID
}

var _ store.ChecklistItemStore = (*MockChecklistItemStore)(nil)

// Create implements store.ChecklistItemStore.
func (m *MockChecklistItemStore) Create(ctx context.Context, item *domain.ChecklistItem) error {
	return m.Delegate.Create(ctx, item)
}

// GetByID implements store.ChecklistItemStore.
func (m *MockChecklistItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChecklistItem, error) {
	return m.Delegate.GetByID(ctx, id)
}

// Update implements store.ChecklistItemStore.
func (m *MockChecklistItemStore) Update(ctx context.Context, item *domain.ChecklistItem) error {
	m.mu.Lock()
	m.UpdateCalls = append(m.UpdateCalls, item.ID)
	m.mu.Unlock()

	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, item)
	}
	return m.Delegate.Update(ctx, item)
}

// Delete implements store.ChecklistItemStore.
func (m *MockChecklistItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Delegate.Delete(ctx, id)
}

// List implements store.ChecklistItemStore.
func (m *MockChecklistItemStore) List(ctx context.Context, filter store.ChecklistItemFilter) ([]*domain.ChecklistItem, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return m.Delegate.List(ctx, filter)
}

// Reorder implements store.ChecklistItemStore.
func (m *MockChecklistItemStore) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return m.Delegate.Reorder(ctx, ids)
}

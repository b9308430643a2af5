package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/store"
)

// MockExitEventStore implements store.ExitEventStore. Calls without a
// function field fall through to Delegate when set.
type MockExitEventStore struct {
	CreateFn func(ctx context.Context, event *domain.ExitEvent) error
	ListFn   func(ctx context.Context, order store.SortOrder, limit int) ([]*domain.ExitEvent, error)
	CountFn  func(ctx context.Context) (int, error)

	Delegate store.ExitEventStore

	mu          sync.Mutex
	CreateCalls int
}

var _ store.ExitEventStore = (*MockExitEventStore)(nil)

// Create implements store.ExitEventStore.
func (m *MockExitEventStore) Create(ctx context.Context, event *domain.ExitEvent) error {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()

	if m.CreateFn != nil {
		return m.CreateFn(ctx, event)
	}
	if m.Delegate != nil {
		return m.Delegate.Create(ctx, event)
	}
	return nil
}

// List implements store.ExitEventStore.
func (m *MockExitEventStore) List(ctx context.Context, order store.SortOrder, limit int) ([]*domain.ExitEvent, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, order, limit)
	}
	if m.Delegate != nil {
		return m.Delegate.List(ctx, order, limit)
	}
	return []*domain.ExitEvent{}, nil
}

// Count implements store.ExitEventStore.
func (m *MockExitEventStore) Count(ctx context.Context) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	if m.Delegate != nil {
		return m.Delegate.Count(ctx)
	}
	return 0, nil
}

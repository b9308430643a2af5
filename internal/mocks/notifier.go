package mocks

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/phrazzld/exitcheck/internal/service/exit_session"
)

// MockNotifier implements exit_session.Notifier for testing.
type MockNotifier struct {
	ScheduleExitPromptFn func(ctx context.Context) error

	mu    sync.Mutex
	calls int
}

var _ exit_session.Notifier = (*MockNotifier)(nil)

// ScheduleExitPrompt implements exit_session.Notifier.
func (m *MockNotifier) ScheduleExitPrompt(ctx context.Context) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.ScheduleExitPromptFn != nil {
		return m.ScheduleExitPromptFn(ctx)
	}
	return nil
}

// Calls returns the number of prompts scheduled.
func (m *MockNotifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockForeground implements exit_session.Foreground with a settable flag.
type MockForeground struct {
	foreground atomic.Bool
}

var _ exit_session.Foreground = (*MockForeground)(nil)

// NewMockForeground creates a MockForeground in the given state.
func NewMockForeground(foreground bool) *MockForeground {
	m := &MockForeground{}
	m.foreground.Store(foreground)
	return m
}

// IsForeground implements exit_session.Foreground.
func (m *MockForeground) IsForeground() bool {
	return m.foreground.Load()
}

// Set changes the reported state.
func (m *MockForeground) Set(foreground bool) {
	m.foreground.Store(foreground)
}

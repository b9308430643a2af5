package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/exitcheck/internal/events"
)

// MockEventHandler implements events.EventHandler and records every event.
type MockEventHandler struct {
	// HandleEventFn, when set, decides the returned error.
	HandleEventFn func(ctx context.Context, event *events.Event) error

	mu     sync.Mutex
	events []*events.Event
}

var _ events.EventHandler = (*MockEventHandler)(nil)

// HandleEvent implements events.EventHandler.
func (m *MockEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	fn := m.HandleEventFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, event)
	}
	return nil
}

// Events returns the recorded events.
func (m *MockEventHandler) Events() []*events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*events.Event(nil), m.events...)
}

// OfType returns the recorded events of the given type.
func (m *MockEventHandler) OfType(eventType string) []*events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*events.Event, 0)
	for _, e := range m.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Reset forgets the recorded events.
func (m *MockEventHandler) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/exitcheck/internal/platform/logger"
)

// InMemoryEventEmitter is the in-process event bus. Events are delivered
// synchronously on the emitting goroutine, in registration order, so a
// handler runs inside the loop job that emitted the event.
type InMemoryEventEmitter struct {
	mu       sync.RWMutex
	handlers []EventHandler
	logger   *slog.Logger
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)

// NewInMemoryEventEmitter creates an empty bus.
func NewInMemoryEventEmitter(log *slog.Logger) *InMemoryEventEmitter {
	if log == nil {
		log = slog.Default()
	}
	return &InMemoryEventEmitter{
		handlers: make([]EventHandler, 0),
		logger:   log.With(slog.String("component", "event_bus")),
	}
}

// RegisterHandler subscribes handler to every event. Use ForTypes to
// narrow what it sees.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	e.handlers = append(e.handlers, handler)
	count := len(e.handlers)
	e.mu.Unlock()

	e.logger.Debug("event handler registered", slog.Int("handler_count", count))
}

// EmitEvent delivers event to every handler. A failing handler does not
// stop delivery to the rest; the first error is returned.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *Event) error {
	e.mu.RLock()
	handlers := append([]EventHandler(nil), e.handlers...)
	e.mu.RUnlock()

	log := logger.FromContextOrDefault(ctx, e.logger).With(
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type))
	log.Debug("emitting event", slog.Int("handler_count", len(handlers)))

	var firstErr error
	for i, handler := range handlers {
		err := handler.HandleEvent(ctx, event)
		if err == nil {
			continue
		}
		log.Error("event handler failed",
			slog.Int("handler_index", i),
			slog.String("error", err.Error()))
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// HandlerCount returns the number of registered handlers.
func (e *InMemoryEventEmitter) HandlerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.handlers)
}

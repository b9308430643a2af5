package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/platform/logger"
	"github.com/phrazzld/exitcheck/internal/store"
)

// ExitEventRecorder appends one ExitEvent per departure and exposes the
// history.
type ExitEventRecorder interface {
	// Record builds an event from outcome, stamped with now, and persists it.
	// A persistence failure is returned, never retried.
	Record(ctx context.Context, outcome domain.ExitOutcome, now time.Time) (*domain.ExitEvent, error)

	// List returns events most recent first. A positive limit caps the result.
	List(ctx context.Context, limit int) ([]*domain.ExitEvent, error)

	// Count returns the number of recorded events.
	Count(ctx context.Context) (int, error)
}

var _ ExitEventRecorder = (*exitEventRecorderImpl)(nil)

type exitEventRecorderImpl struct {
	events store.ExitEventStore
	logger *slog.Logger
}

// NewExitEventRecorder creates an ExitEventRecorder over events.
func NewExitEventRecorder(events store.ExitEventStore, logger *slog.Logger) ExitEventRecorder {
	if events == nil {
		panic("events store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &exitEventRecorderImpl{
		events: events,
		logger: logger.With(slog.String("component", "exit_event_recorder")),
	}
}

func (r *exitEventRecorderImpl) Record(
	ctx context.Context,
	outcome domain.ExitOutcome,
	now time.Time,
) (*domain.ExitEvent, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	event, err := domain.NewExitEvent(outcome, now)
	if err != nil {
		log.Warn("invalid exit outcome", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := r.events.Create(ctx, event); err != nil {
		log.Error("failed to record exit event",
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("exit_event", "record", err)
	}

	log.Info("exit event recorded",
		slog.String("event_id", event.ID.String()),
		slog.Bool("was_complete", event.WasComplete),
		slog.Bool("dismissed_early", event.DismissedEarly),
		slog.Int("forgotten", len(event.ForgottenItems)))
	return event, nil
}

func (r *exitEventRecorderImpl) List(ctx context.Context, limit int) ([]*domain.ExitEvent, error) {
	events, err := r.events.List(ctx, store.Descending, limit)
	if err != nil {
		return nil, NewServiceError("exit_event", "list", err)
	}
	return events, nil
}

func (r *exitEventRecorderImpl) Count(ctx context.Context) (int, error) {
	n, err := r.events.Count(ctx)
	if err != nil {
		return 0, NewServiceError("exit_event", "count", err)
	}
	return n, nil
}

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/domain/streak"
	"github.com/phrazzld/exitcheck/internal/platform/logger"
	"github.com/phrazzld/exitcheck/internal/store"
)

// StreakTracker maintains the persisted perfect-exit streak.
type StreakTracker interface {
	// RecordPerfectExit advances the streak for a perfect exit at now and
	// returns the saved state.
	RecordPerfectExit(ctx context.Context, now time.Time) (*domain.StreakState, error)

	// Current returns the stored state.
	Current(ctx context.Context) (*domain.StreakState, error)

	// Milestone returns the message for the current streak, or "".
	Milestone(ctx context.Context) (string, error)

	// Reset clears the streak and the perfect-exit total.
	Reset(ctx context.Context) error
}

var _ StreakTracker = (*streakTrackerImpl)(nil)

type streakTrackerImpl struct {
	streaks store.StreakStore
	calc    *streak.Calculator
	logger  *slog.Logger
}

// NewStreakTracker creates a StreakTracker. The calculator decides which
// calendar days count as consecutive.
func NewStreakTracker(streaks store.StreakStore, calc *streak.Calculator, logger *slog.Logger) StreakTracker {
	if streaks == nil {
		panic("streaks store cannot be nil")
	}
	if calc == nil {
		panic("calc cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &streakTrackerImpl{
		streaks: streaks,
		calc:    calc,
		logger:  logger.With(slog.String("component", "streak_tracker")),
	}
}

func (t *streakTrackerImpl) RecordPerfectExit(ctx context.Context, now time.Time) (*domain.StreakState, error) {
	log := logger.FromContextOrDefault(ctx, t.logger)

	state, err := t.streaks.Get(ctx)
	if err != nil {
		return nil, NewServiceError("streak", "record_perfect_exit", err)
	}

	next, err := t.calc.RecordPerfectExit(state, now)
	if err != nil {
		return nil, NewServiceError("streak", "record_perfect_exit", err)
	}

	if err := t.streaks.Save(ctx, next); err != nil {
		log.Error("failed to save streak", slog.String("error", err.Error()))
		return nil, NewServiceError("streak", "record_perfect_exit", err)
	}

	log.Info("streak updated",
		slog.Int("previous_streak", state.CurrentStreak),
		slog.Int("current_streak", next.CurrentStreak),
		slog.Int("total_perfect_exits", next.TotalPerfectExits))
	return next, nil
}

func (t *streakTrackerImpl) Current(ctx context.Context) (*domain.StreakState, error) {
	state, err := t.streaks.Get(ctx)
	if err != nil {
		return nil, NewServiceError("streak", "current", err)
	}
	return state, nil
}

func (t *streakTrackerImpl) Milestone(ctx context.Context) (string, error) {
	state, err := t.Current(ctx)
	if err != nil {
		return "", err
	}
	return streak.MilestoneMessage(state.CurrentStreak), nil
}

func (t *streakTrackerImpl) Reset(ctx context.Context) error {
	if err := t.streaks.Reset(ctx); err != nil {
		return NewServiceError("streak", "reset", err)
	}
	logger.FromContextOrDefault(ctx, t.logger).Info("streak reset")
	return nil
}

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/domain/pattern"
	"github.com/phrazzld/exitcheck/internal/domain/streak"
	"github.com/phrazzld/exitcheck/internal/platform/logger"
	"github.com/phrazzld/exitcheck/internal/store"
)

// Summary section sizes.
const (
	SummarySuggestions = 3
	SummaryForgotten   = 5
	SummaryRecent      = 10
)

// ForgottenItem is one row of the most-forgotten list.
type ForgottenItem struct {
	Title           string     `json:"title"`
	Emoji           string     `json:"emoji"`
	ForgottenCount  int        `json:"forgotten_count"`
	LastForgottenAt *time.Time `json:"last_forgotten_at,omitempty"`
}

// Summary is the statistics view.
type Summary struct {
	TotalExits        int                          `json:"total_exits"`
	PerfectExits      int                          `json:"perfect_exits"`
	RushedExits       int                          `json:"rushed_exits"`
	SuccessRate       float64                      `json:"success_rate"`
	CurrentStreak     int                          `json:"current_streak"`
	TotalPerfectExits int                          `json:"total_perfect_exits"`
	Milestone         string                       `json:"milestone,omitempty"`
	Patterns          []domain.ExitPatternAnalysis `json:"patterns"`
	Suggestions       []domain.Suggestion          `json:"suggestions"`
	MostForgotten     []ForgottenItem              `json:"most_forgotten"`
	Recent            []*domain.ExitEvent          `json:"recent"`
}

// StatsService computes the statistics view on demand.
type StatsService interface {
	Summary(ctx context.Context) (*Summary, error)
}

var _ StatsService = (*statsServiceImpl)(nil)

type statsServiceImpl struct {
	events   store.ExitEventStore
	items    store.ChecklistItemStore
	streaks  store.StreakStore
	analyzer *pattern.Analyzer
	settings SettingsProvider
	logger   *slog.Logger
}

// StatsOption configures a StatsService.
type StatsOption func(*statsServiceImpl)

// WithStatsSettings makes the summary honor ShowStreakMessages. Without it
// the milestone is always included.
func WithStatsSettings(settings SettingsProvider) StatsOption {
	return func(s *statsServiceImpl) { s.settings = settings }
}

// NewStatsService creates a StatsService.
func NewStatsService(
	events store.ExitEventStore,
	items store.ChecklistItemStore,
	streaks store.StreakStore,
	analyzer *pattern.Analyzer,
	logger *slog.Logger,
	opts ...StatsOption,
) StatsService {
	if events == nil {
		panic("events store cannot be nil")
	}
	if items == nil {
		panic("items store cannot be nil")
	}
	if streaks == nil {
		panic("streaks store cannot be nil")
	}
	if analyzer == nil {
		analyzer = pattern.NewAnalyzer(pattern.NewDefaultParams())
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &statsServiceImpl{
		events:   events,
		items:    items,
		streaks:  streaks,
		analyzer: analyzer,
		logger:   logger.With(slog.String("component", "stats_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary counts outcomes over the whole history, runs the pattern analysis
// against the current items and collects the most forgotten and most recent
// entries. Success rate is the percentage of perfect exits.
func (s *statsServiceImpl) Summary(ctx context.Context) (*Summary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	history, err := s.events.List(ctx, store.Descending, 0)
	if err != nil {
		return nil, NewServiceError("stats", "summary", err)
	}

	items, err := s.items.List(ctx, store.ChecklistItemFilter{})
	if err != nil {
		return nil, NewServiceError("stats", "summary", err)
	}

	forgotten, err := s.items.List(ctx, store.ChecklistItemFilter{
		ForgottenOnly:    true,
		OrderByForgotten: true,
		Limit:            SummaryForgotten,
	})
	if err != nil {
		return nil, NewServiceError("stats", "summary", err)
	}

	state, err := s.streaks.Get(ctx)
	if err != nil {
		return nil, NewServiceError("stats", "summary", err)
	}

	sum := &Summary{
		TotalExits:        len(history),
		CurrentStreak:     state.CurrentStreak,
		TotalPerfectExits: state.TotalPerfectExits,
		MostForgotten:     make([]ForgottenItem, 0, len(forgotten)),
	}
	if s.settings == nil || s.settings.Settings().ShowStreakMessages {
		sum.Milestone = streak.MilestoneMessage(state.CurrentStreak)
	}
	for _, e := range history {
		if e.IsPerfect() {
			sum.PerfectExits++
		}
		if e.DismissedEarly {
			sum.RushedExits++
		}
	}
	if sum.TotalExits > 0 {
		sum.SuccessRate = float64(sum.PerfectExits) / float64(sum.TotalExits) * 100
	}

	// Analysis runs oldest first so tie-breaks follow history order.
	chronological := make([]*domain.ExitEvent, len(history))
	for i, e := range history {
		chronological[len(history)-1-i] = e
	}
	sum.Patterns = s.analyzer.Analyze(chronological, items)
	sum.Suggestions = pattern.Suggestions(sum.Patterns, SummarySuggestions)

	for _, item := range forgotten {
		sum.MostForgotten = append(sum.MostForgotten, ForgottenItem{
			Title:           item.Title,
			Emoji:           item.Emoji,
			ForgottenCount:  item.ForgottenCount,
			LastForgottenAt: item.LastForgottenAt,
		})
	}

	if len(history) > SummaryRecent {
		sum.Recent = history[:SummaryRecent]
	} else {
		sum.Recent = history
	}

	log.Debug("computed stats summary",
		slog.Int("total_exits", sum.TotalExits),
		slog.Int("patterns", len(sum.Patterns)))
	return sum, nil
}

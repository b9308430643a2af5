package exit_session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/domain/streak"
	"github.com/phrazzld/exitcheck/internal/events"
	"github.com/phrazzld/exitcheck/internal/platform/logger"
	"github.com/phrazzld/exitcheck/internal/service"
	"github.com/phrazzld/exitcheck/internal/store"
)

// Common error types for the Orchestrator
var (
	// ErrNoOpenSession indicates that there is no session to act on.
	ErrNoOpenSession = errors.New("no open exit session")

	// ErrRecordFailed indicates that the closing ExitEvent could not be
	// persisted. The session is gone; nothing was recorded.
	ErrRecordFailed = errors.New("failed to record exit event")
)

// Notifier delivers the exit prompt when the app is not in the foreground.
type Notifier interface {
	ScheduleExitPrompt(ctx context.Context) error
}

// Foreground reports whether the checklist UI is currently visible.
type Foreground interface {
	IsForeground() bool
}

// ForegroundFunc adapts a function to Foreground.
type ForegroundFunc func() bool

// IsForeground calls f.
func (f ForegroundFunc) IsForeground() bool { return f() }

// CloseResult describes a closed session.
type CloseResult struct {
	Event *domain.ExitEvent `json:"event"`
	// Streak is the current streak after the close.
	Streak int `json:"streak"`
	// Milestone is set after a perfect exit when streak messages are on.
	Milestone string `json:"milestone,omitempty"`
	// SuccessMessage is set after a perfect exit.
	SuccessMessage string `json:"success_message,omitempty"`
	// AskForFeedback asks the UI to show the periodic feedback prompt.
	AskForFeedback bool `json:"ask_for_feedback"`
}

// Dependencies are the collaborators of an Orchestrator.
type Dependencies struct {
	Items      store.ChecklistItemStore
	Recorder   service.ExitEventRecorder
	Streaks    service.StreakTracker
	Settings   service.SettingsProvider
	Notifier   Notifier
	Foreground Foreground
	Emitter    events.EventEmitter
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithRand sets the source of success messages.
func WithRand(r *rand.Rand) Option {
	return func(o *Orchestrator) { o.rand = r }
}

// Orchestrator runs the exit session lifecycle. It holds at most one open
// session and is owned by the coordination loop.
type Orchestrator struct {
	deps    Dependencies
	logger  *slog.Logger
	now     func() time.Time
	rand    *rand.Rand
	session *Session
}

var _ events.EventHandler = (*Orchestrator)(nil)

// NewOrchestrator creates an Orchestrator. Every dependency is required.
func NewOrchestrator(deps Dependencies, logger *slog.Logger, opts ...Option) *Orchestrator {
	switch {
	case deps.Items == nil:
		panic("items store cannot be nil")
	case deps.Recorder == nil:
		panic("recorder cannot be nil")
	case deps.Streaks == nil:
		panic("streak tracker cannot be nil")
	case deps.Settings == nil:
		panic("settings provider cannot be nil")
	case deps.Notifier == nil:
		panic("notifier cannot be nil")
	case deps.Foreground == nil:
		panic("foreground cannot be nil")
	case deps.Emitter == nil:
		panic("emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	o := &Orchestrator{
		deps:   deps,
		logger: logger.With(slog.String("component", "exit_session")),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// HandleEvent opens a session for exit.detected and ignores other events.
func (o *Orchestrator) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeExitDetected {
		return nil
	}
	_, err := o.Begin(ctx, TriggerExit)
	return err
}

// Current returns a copy of the open session.
func (o *Orchestrator) Current() (*Session, bool) {
	if o.session == nil {
		return nil, false
	}
	return o.session.Clone(), true
}

// TriggerTest opens a session on demand.
func (o *Orchestrator) TriggerTest(ctx context.Context) (*Session, error) {
	return o.Begin(ctx, TriggerTest)
}

// Begin opens a session over the active items. An already open session is
// kept and returned. The session is presented through session.opened when
// the UI is in the foreground and through the notifier otherwise; a failed
// prompt leaves the session open.
func (o *Orchestrator) Begin(ctx context.Context, trigger Trigger) (*Session, error) {
	log := logger.FromContextOrDefault(ctx, o.logger)

	if o.session != nil {
		log.Info("exit session already open",
			slog.String("session_id", o.session.ID.String()),
			slog.String("trigger", string(trigger)))
		return o.session.Clone(), nil
	}

	items, err := o.deps.Items.List(ctx, store.ChecklistItemFilter{ActiveOnly: true})
	if err != nil {
		log.Error("failed to load checklist items", slog.String("error", err.Error()))
		return nil, fmt.Errorf("loading checklist items: %w", err)
	}

	settings := o.deps.Settings.Settings()
	o.session = NewSession(items, trigger, settings.AutoCheckPhone, o.now())
	s := o.session

	log.Info("exit session opened",
		slog.String("session_id", s.ID.String()),
		slog.String("trigger", string(trigger)),
		slog.Int("items", len(items)))

	if o.deps.Foreground.IsForeground() {
		o.emit(ctx, events.TypeSessionOpened, sessionOpenedPayload(s))
		return s.Clone(), nil
	}

	if err := o.deps.Notifier.ScheduleExitPrompt(ctx); err != nil {
		log.Error("failed to schedule exit prompt",
			slog.String("session_id", s.ID.String()),
			slog.String("error", err.Error()))
	}
	return s.Clone(), nil
}

// Toggle flips an item of the open session and returns its new state.
func (o *Orchestrator) Toggle(ctx context.Context, itemID uuid.UUID) (bool, error) {
	if o.session == nil {
		return false, ErrNoOpenSession
	}
	return o.session.Toggle(itemID)
}

// SetChecked sets an item of the open session.
func (o *Orchestrator) SetChecked(ctx context.Context, itemID uuid.UUID, checked bool) error {
	if o.session == nil {
		return ErrNoOpenSession
	}
	return o.session.SetChecked(itemID, checked)
}

// Complete closes the session through the all-good path. It is a perfect
// exit only when every item is checked; otherwise the unchecked titles are
// recorded without touching forgotten counts or the streak.
func (o *Orchestrator) Complete(ctx context.Context) (*CloseResult, error) {
	return o.close(ctx, false)
}

// Rushed closes the session as dismissed early. Each unchecked item has its
// forgotten count incremented. The streak is untouched.
func (o *Orchestrator) Rushed(ctx context.Context) (*CloseResult, error) {
	return o.close(ctx, true)
}

// Dismiss discards the open session without recording anything.
func (o *Orchestrator) Dismiss(ctx context.Context) error {
	if o.session == nil {
		return ErrNoOpenSession
	}
	logger.FromContextOrDefault(ctx, o.logger).Info("exit session dismissed",
		slog.String("session_id", o.session.ID.String()))
	o.session = nil
	return nil
}

func (o *Orchestrator) close(ctx context.Context, rushed bool) (*CloseResult, error) {
	log := logger.FromContextOrDefault(ctx, o.logger)

	s := o.session
	if s == nil {
		return nil, ErrNoOpenSession
	}
	// Detached before any write: a second close sees no session.
	o.session = nil

	now := o.now()
	unchecked := s.UncheckedTitles()

	var outcome domain.ExitOutcome
	switch {
	case rushed:
		outcome = domain.RushedOutcome(unchecked)
	case s.AllChecked():
		outcome = domain.PerfectOutcome()
	default:
		outcome = domain.IncompleteOutcome(unchecked)
	}

	event, err := o.deps.Recorder.Record(ctx, outcome, now)
	if err != nil {
		log.Error("failed to record exit event",
			slog.String("session_id", s.ID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrRecordFailed, err)
	}

	result := &CloseResult{Event: event}
	settings := o.deps.Settings.Settings()

	if event.IsPerfect() {
		state, err := o.deps.Streaks.RecordPerfectExit(ctx, now)
		if err != nil {
			log.Error("failed to update streak", slog.String("error", err.Error()))
		} else {
			result.Streak = state.CurrentStreak
		}
		result.SuccessMessage = streak.SuccessMessage(o.rand)
		if settings.ShowStreakMessages {
			result.Milestone = streak.MilestoneMessage(result.Streak)
		}
	} else {
		if rushed {
			o.markForgotten(ctx, s.UncheckedIDs(), now)
		}
		if state, err := o.deps.Streaks.Current(ctx); err != nil {
			log.Warn("failed to read streak", slog.String("error", err.Error()))
		} else {
			result.Streak = state.CurrentStreak
		}
	}

	if total, err := o.deps.Recorder.Count(ctx); err != nil {
		log.Warn("failed to count exit events", slog.String("error", err.Error()))
	} else {
		result.AskForFeedback = settings.ShouldAskForFeedback(total)
	}

	log.Info("exit session closed",
		slog.String("session_id", s.ID.String()),
		slog.String("event_id", event.ID.String()),
		slog.Bool("was_complete", event.WasComplete),
		slog.Bool("dismissed_early", event.DismissedEarly),
		slog.Int("forgotten", len(event.ForgottenItems)))

	o.emit(ctx, events.TypeSessionClosed, events.SessionClosedPayload{
		SessionID:      s.ID,
		ExitEventID:    event.ID,
		WasComplete:    event.WasComplete,
		DismissedEarly: event.DismissedEarly,
		ForgottenItems: event.ForgottenItems,
		CurrentStreak:  result.Streak,
	})
	return result, nil
}

// markForgotten increments the forgotten count of each item. Failures are
// logged and the remaining items are still updated.
func (o *Orchestrator) markForgotten(ctx context.Context, ids []uuid.UUID, now time.Time) {
	log := logger.FromContextOrDefault(ctx, o.logger)
	for _, id := range ids {
		item, err := o.deps.Items.GetByID(ctx, id)
		if err != nil {
			log.Warn("failed to load forgotten item",
				slog.String("item_id", id.String()),
				slog.String("error", err.Error()))
			continue
		}
		item.MarkForgotten(now)
		if err := o.deps.Items.Update(ctx, item); err != nil {
			log.Warn("failed to update forgotten count",
				slog.String("item_id", id.String()),
				slog.String("error", err.Error()))
		}
	}
}

func (o *Orchestrator) emit(ctx context.Context, eventType string, payload interface{}) {
	if err := events.Emit(ctx, o.deps.Emitter, eventType, payload); err != nil {
		logger.FromContextOrDefault(ctx, o.logger).Error("failed to publish event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
	}
}

func sessionOpenedPayload(s *Session) events.SessionOpenedPayload {
	items := make([]events.SessionItem, 0, len(s.entries))
	for _, e := range s.entries {
		items = append(items, events.SessionItem{
			ItemID:  e.ItemID,
			Title:   e.Title,
			Emoji:   e.Emoji,
			Checked: e.Checked,
		})
	}
	return events.SessionOpenedPayload{
		SessionID: s.ID,
		OpenedAt:  s.OpenedAt,
		Trigger:   string(s.Trigger),
		Items:     items,
	}
}

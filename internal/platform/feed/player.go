package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/exitcheck/internal/location"
)

// SignalSink applies a signal and returns once it has been handled.
type SignalSink func(ctx context.Context, sig location.Signal) error

// Actions are the user-side steps of a script.
type Actions interface {
	SetHome(ctx context.Context, latitude, longitude, radius float64, name string) error
	AddItem(ctx context.Context, title string) error
	TriggerTest(ctx context.Context) error
	Check(ctx context.Context, title string) error
	Complete(ctx context.Context) error
	Rush(ctx context.Context) error
	Dismiss(ctx context.Context) error
}

// Player walks a script against a Service.
type Player struct {
	service *Service
	sink    SignalSink
	actions Actions
	logger  *slog.Logger
	sleep   func(ctx context.Context, d time.Duration) error
	now     func() time.Time
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithSleep replaces the pause used by wait steps.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) PlayerOption {
	return func(p *Player) { p.sleep = sleep }
}

// WithClock sets the time stamped on location fixes.
func WithClock(now func() time.Time) PlayerOption {
	return func(p *Player) { p.now = now }
}

// NewPlayer creates a Player. Signals go to sink; user steps go to actions.
func NewPlayer(service *Service, sink SignalSink, actions Actions, logger *slog.Logger, opts ...PlayerOption) *Player {
	if service == nil {
		panic("service cannot be nil")
	}
	if sink == nil {
		panic("sink cannot be nil")
	}
	if actions == nil {
		panic("actions cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Player{
		service: service,
		sink:    sink,
		actions: actions,
		logger:  logger.With(slog.String("component", "feed_player")),
		sleep:   sleepContext,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play runs steps in order and stops at the first failing one.
func (p *Player) Play(ctx context.Context, steps []Step) error {
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.logger.Debug("feed step", slog.Int("line", step.Line), slog.String("op", string(step.Op)))
		if err := p.apply(ctx, step); err != nil {
			return fmt.Errorf("line %d (%s): %w", step.Line, step.Op, err)
		}
	}
	return nil
}

func (p *Player) apply(ctx context.Context, step Step) error {
	switch step.Op {
	case OpAuthorize:
		p.service.setAuthorization(step.Authorization)
		return p.sink(ctx, location.Signal{
			Kind:          location.SignalAuthorizationChanged,
			Authorization: step.Authorization,
		})

	case OpLocation:
		fix := location.Coordinate{
			Latitude:  step.Latitude,
			Longitude: step.Longitude,
			Accuracy:  step.Accuracy,
			Timestamp: p.now(),
		}
		p.service.setLocation(fix)
		return p.sink(ctx, location.Signal{Kind: location.SignalLocationUpdated, Location: &fix})

	case OpExit, OpEnter:
		kind := location.SignalRegionExited
		if step.Op == OpEnter {
			kind = location.SignalRegionEntered
		}
		return p.sink(ctx, location.Signal{
			Kind:             kind,
			RegionIdentifier: p.region(step.Text),
			At:               step.At,
		})

	case OpFail:
		reason := step.Text
		if reason == "" {
			reason = "scripted monitoring failure"
		}
		return p.sink(ctx, location.Signal{
			Kind:             location.SignalMonitoringFailed,
			RegionIdentifier: p.service.MonitoredRegion(),
			Err:              errors.New(reason),
		})

	case OpWait:
		return p.sleep(ctx, step.Delay)

	case OpHome:
		return p.actions.SetHome(ctx, step.Latitude, step.Longitude, step.Radius, step.Text)
	case OpItem:
		return p.actions.AddItem(ctx, step.Text)
	case OpTest:
		return p.actions.TriggerTest(ctx)
	case OpCheck:
		return p.actions.Check(ctx, step.Text)
	case OpComplete:
		return p.actions.Complete(ctx)
	case OpRush:
		return p.actions.Rush(ctx)
	case OpDismiss:
		return p.actions.Dismiss(ctx)
	default:
		return fmt.Errorf("%w: unknown step %q", ErrSyntax, step.Op)
	}
}

func (p *Player) region(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return p.service.MonitoredRegion()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

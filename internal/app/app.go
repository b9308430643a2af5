package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/exitcheck/internal/config"
	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/domain/pattern"
	"github.com/phrazzld/exitcheck/internal/domain/streak"
	"github.com/phrazzld/exitcheck/internal/events"
	"github.com/phrazzld/exitcheck/internal/location"
	"github.com/phrazzld/exitcheck/internal/loop"
	"github.com/phrazzld/exitcheck/internal/metrics"
	"github.com/phrazzld/exitcheck/internal/platform/logger"
	"github.com/phrazzld/exitcheck/internal/platform/memory"
	"github.com/phrazzld/exitcheck/internal/service"
	"github.com/phrazzld/exitcheck/internal/service/exit_session"
	"github.com/phrazzld/exitcheck/internal/store"
	"github.com/prometheus/client_golang/prometheus"
)

// Stores groups the repositories the core persists to.
type Stores struct {
	Homes   store.HomeLocationStore
	Items   store.ChecklistItemStore
	Events  store.ExitEventStore
	Streaks store.StreakStore
}

// MemoryStores returns Stores backed by one in-memory store.
func MemoryStores(m *memory.Store) Stores {
	return Stores{
		Homes:   m.HomeLocations(),
		Items:   m.ChecklistItems(),
		Events:  m.ExitEvents(),
		Streaks: m.Streaks(),
	}
}

// Dependencies are the platform adapters the App runs on.
type Dependencies struct {
	Stores     Stores
	Location   location.Service
	Notifier   exit_session.Notifier
	Foreground exit_session.Foreground
	// Registerer receives the metrics. Nil skips metrics.
	Registerer prometheus.Registerer
}

// App is the assembled exit checker core.
type App struct {
	loop     *loop.Loop
	pump     *Pump
	bus      *events.InMemoryEventEmitter
	gate     *location.PermissionGate
	monitor  *location.Monitor
	orch     *exit_session.Orchestrator
	home     service.HomeService
	items    service.ChecklistService
	recorder service.ExitEventRecorder
	streaks  service.StreakTracker
	stats    service.StatsService
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// New assembles the core from cfg and deps.
func New(cfg *config.Config, deps Dependencies, logger *slog.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if deps.Location == nil {
		return nil, errors.New("location service cannot be nil")
	}
	if deps.Notifier == nil {
		deps.Notifier = noopNotifier{}
	}
	if deps.Foreground == nil {
		deps.Foreground = exit_session.ForegroundFunc(func() bool { return true })
	}
	if logger == nil {
		logger = slog.Default()
	}

	calendar, err := cfg.Analytics.Location()
	if err != nil {
		return nil, fmt.Errorf("resolving calendar location: %w", err)
	}

	a := &App{logger: logger.With(slog.String("component", "app"))}

	a.bus = events.NewInMemoryEventEmitter(logger)
	if deps.Registerer != nil {
		a.metrics = metrics.New(deps.Registerer, logger)
		a.bus.RegisterHandler(a.metrics)
	}

	a.loop = loop.New(loop.Config{QueueSize: cfg.Monitor.QueueSize}, logger)

	a.gate = location.NewPermissionGate(deps.Location, a.bus, logger)
	a.monitor = location.NewMonitor(deps.Location, a.gate, a.bus, logger,
		location.WithDuplicateExitWindow(cfg.Monitor.DuplicateExitWindow))

	a.recorder = service.NewExitEventRecorder(deps.Stores.Events, logger)
	a.streaks = service.NewStreakTracker(deps.Stores.Streaks, streak.NewCalculator(calendar), logger)
	a.items = service.NewChecklistService(deps.Stores.Items, logger)
	a.home = service.NewHomeService(deps.Stores.Homes, a.monitor, cfg.Home, logger)
	a.stats = service.NewStatsService(deps.Stores.Events, deps.Stores.Items, deps.Stores.Streaks,
		pattern.NewAnalyzer(pattern.Params{Weekdays: cfg.Analytics.WeekdaySet()}), logger,
		service.WithStatsSettings(service.SettingsFromConfig(cfg.Checklist)))

	a.orch = exit_session.NewOrchestrator(exit_session.Dependencies{
		Items:      deps.Stores.Items,
		Recorder:   a.recorder,
		Streaks:    a.streaks,
		Settings:   service.SettingsFromConfig(cfg.Checklist),
		Notifier:   deps.Notifier,
		Foreground: deps.Foreground,
		Emitter:    a.bus,
	}, logger, exit_session.WithClock(func() time.Time { return time.Now().In(calendar) }))
	a.bus.RegisterHandler(events.ForTypes(a.orch, events.TypeExitDetected))

	a.pump = NewPump(deps.Location.Signals(), a.loop, a.handleSignal, logger)
	return a, nil
}

// Bus returns the event bus so adapters can observe the core.
func (a *App) Bus() *events.InMemoryEventEmitter {
	return a.bus
}

// Metrics returns the metrics, or nil when none were registered.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}

// Start runs the loop and the signal pump, then arms the geofence when a
// home is set and Always authorization is already granted.
func (a *App) Start(ctx context.Context) error {
	a.loop.Start()
	a.pump.Start(ctx)

	if a.metrics != nil {
		if state, err := a.streaks.Current(ctx); err == nil {
			a.metrics.SetStreak(state.CurrentStreak)
		}
	}

	return a.loop.Do(ctx, "start", func(ctx context.Context) error {
		a.autoArm(ctx)
		return nil
	})
}

// Stop ends the pump and drains the loop.
func (a *App) Stop() {
	a.pump.Stop()
	a.loop.Stop()
	a.logger.Info("app stopped")
}

// HandleSignal applies a platform signal on the loop and waits for it. It
// is the synchronous counterpart of the signal pump, used by scripted feeds.
func (a *App) HandleSignal(ctx context.Context, sig location.Signal) error {
	return a.loop.Do(ctx, "signal:"+sig.Kind.String(), func(ctx context.Context) error {
		return a.handleSignal(ctx, sig)
	})
}

// handleSignal runs on the loop.
func (a *App) handleSignal(ctx context.Context, sig location.Signal) error {
	if err := a.monitor.HandleSignal(ctx, sig); err != nil {
		return err
	}
	if sig.Kind == location.SignalAuthorizationChanged {
		a.autoArm(ctx)
	}
	return nil
}

// autoArm arms the geofence when Always is granted, a home is set and the
// monitor is not already armed. Runs on the loop.
func (a *App) autoArm(ctx context.Context) {
	log := logger.FromContextOrDefault(ctx, a.logger)
	if !a.gate.HasAlwaysAuthorization() || a.monitor.State() == location.StateArmed {
		return
	}
	err := a.home.StartMonitoring(ctx)
	switch {
	case errors.Is(err, service.ErrNoHomeLocation):
		log.Debug("no home location to arm")
	case err != nil:
		log.Warn("automatic arming failed", slog.String("error", err.Error()))
	default:
		log.Info("geofence armed automatically")
	}
}

// RequestWhenInUseAuthorization asks for foreground location access.
func (a *App) RequestWhenInUseAuthorization(ctx context.Context) error {
	return a.loop.Do(ctx, "request_when_in_use", func(ctx context.Context) error {
		a.gate.RequestWhenInUse(ctx)
		return nil
	})
}

// RequestAlwaysAuthorization asks for background location access.
func (a *App) RequestAlwaysAuthorization(ctx context.Context) error {
	return a.loop.Do(ctx, "request_always", func(ctx context.Context) error {
		a.gate.RequestAlways(ctx)
		return nil
	})
}

// RequestCurrentLocation asks the platform for a fix.
func (a *App) RequestCurrentLocation(ctx context.Context) error {
	return a.loop.Do(ctx, "request_location", func(ctx context.Context) error {
		a.monitor.RequestCurrentLocation(ctx)
		return nil
	})
}

// StartMonitoring arms the geofence for the stored home.
func (a *App) StartMonitoring(ctx context.Context) error {
	return a.loop.Do(ctx, "start_monitoring", a.home.StartMonitoring)
}

// StopMonitoring disarms the geofence.
func (a *App) StopMonitoring(ctx context.Context) error {
	return a.loop.Do(ctx, "stop_monitoring", func(ctx context.Context) error {
		a.home.StopMonitoring(ctx)
		return nil
	})
}

// MonitorStatus returns the monitor snapshot together with the current
// authorization.
func (a *App) MonitorStatus(ctx context.Context) (location.Status, location.AuthorizationStatus, error) {
	var (
		st   location.Status
		auth location.AuthorizationStatus
	)
	err := a.loop.Do(ctx, "monitor_status", func(ctx context.Context) error {
		st = a.monitor.Status()
		auth = a.gate.Status()
		return nil
	})
	return st, auth, err
}

// CurrentSession returns the open session, if any.
func (a *App) CurrentSession(ctx context.Context) (*exit_session.Session, bool, error) {
	var (
		s  *exit_session.Session
		ok bool
	)
	err := a.loop.Do(ctx, "current_session", func(ctx context.Context) error {
		s, ok = a.orch.Current()
		return nil
	})
	return s, ok, err
}

// TriggerTestSession opens a session on demand.
func (a *App) TriggerTestSession(ctx context.Context) (*exit_session.Session, error) {
	var s *exit_session.Session
	err := a.loop.Do(ctx, "trigger_test", func(ctx context.Context) error {
		var err error
		s, err = a.orch.TriggerTest(ctx)
		return err
	})
	return s, err
}

// ToggleItem flips an item of the open session.
func (a *App) ToggleItem(ctx context.Context, id uuid.UUID) (bool, error) {
	var checked bool
	err := a.loop.Do(ctx, "toggle_item", func(ctx context.Context) error {
		var err error
		checked, err = a.orch.Toggle(ctx, id)
		return err
	})
	return checked, err
}

// CompleteSession closes the open session through the all-good path.
func (a *App) CompleteSession(ctx context.Context) (*exit_session.CloseResult, error) {
	return a.closeSession(ctx, "complete_session", a.orch.Complete)
}

// RushSession closes the open session as dismissed early.
func (a *App) RushSession(ctx context.Context) (*exit_session.CloseResult, error) {
	return a.closeSession(ctx, "rush_session", a.orch.Rushed)
}

// DismissSession discards the open session.
func (a *App) DismissSession(ctx context.Context) error {
	return a.loop.Do(ctx, "dismiss_session", a.orch.Dismiss)
}

func (a *App) closeSession(
	ctx context.Context,
	name string,
	fn func(context.Context) (*exit_session.CloseResult, error),
) (*exit_session.CloseResult, error) {
	var res *exit_session.CloseResult
	err := a.loop.Do(ctx, name, func(ctx context.Context) error {
		var err error
		res, err = fn(ctx)
		return err
	})
	return res, err
}

// Home returns the home zone.
func (a *App) Home(ctx context.Context) (*domain.HomeLocation, error) {
	return a.homeOp(ctx, "get_home", a.home.Get)
}

// SetHome stores the home zone and arms it when possible.
func (a *App) SetHome(ctx context.Context, latitude, longitude, radius float64, name string) (*domain.HomeLocation, error) {
	return a.homeOp(ctx, "set_home", func(ctx context.Context) (*domain.HomeLocation, error) {
		home, err := a.home.SetHome(ctx, latitude, longitude, radius, name)
		if err != nil {
			return nil, err
		}
		a.autoArm(ctx)
		return home, nil
	})
}

// UpdateHomeRadius changes the home radius.
func (a *App) UpdateHomeRadius(ctx context.Context, radius float64) (*domain.HomeLocation, error) {
	return a.homeOp(ctx, "update_radius", func(ctx context.Context) (*domain.HomeLocation, error) {
		return a.home.UpdateRadius(ctx, radius)
	})
}

// UseCurrentLocationAsHome centers the home zone on the last fix.
func (a *App) UseCurrentLocationAsHome(ctx context.Context) (*domain.HomeLocation, error) {
	return a.homeOp(ctx, "use_current_location", func(ctx context.Context) (*domain.HomeLocation, error) {
		home, err := a.home.UseCurrentLocation(ctx)
		if err != nil {
			return nil, err
		}
		a.autoArm(ctx)
		return home, nil
	})
}

// ClearHome stops monitoring and removes the home zone.
func (a *App) ClearHome(ctx context.Context) error {
	return a.loop.Do(ctx, "clear_home", a.home.Clear)
}

func (a *App) homeOp(
	ctx context.Context,
	name string,
	fn func(context.Context) (*domain.HomeLocation, error),
) (*domain.HomeLocation, error) {
	var home *domain.HomeLocation
	err := a.loop.Do(ctx, name, func(ctx context.Context) error {
		var err error
		home, err = fn(ctx)
		return err
	})
	return home, err
}

// CreateItem adds a checklist item.
func (a *App) CreateItem(ctx context.Context, title, emoji string, category *string) (*domain.ChecklistItem, error) {
	var item *domain.ChecklistItem
	err := a.loop.Do(ctx, "create_item", func(ctx context.Context) error {
		var err error
		item, err = a.items.Create(ctx, title, emoji, category)
		return err
	})
	return item, err
}

// UpdateItem edits a checklist item.
func (a *App) UpdateItem(ctx context.Context, id uuid.UUID, upd service.ChecklistItemUpdate) (*domain.ChecklistItem, error) {
	var item *domain.ChecklistItem
	err := a.loop.Do(ctx, "update_item", func(ctx context.Context) error {
		var err error
		item, err = a.items.Update(ctx, id, upd)
		return err
	})
	return item, err
}

// DeleteItem removes a checklist item.
func (a *App) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return a.loop.Do(ctx, "delete_item", func(ctx context.Context) error {
		return a.items.Delete(ctx, id)
	})
}

// ReorderItems sets the display order.
func (a *App) ReorderItems(ctx context.Context, ids []uuid.UUID) error {
	return a.loop.Do(ctx, "reorder_items", func(ctx context.Context) error {
		return a.items.Reorder(ctx, ids)
	})
}

// ListItems returns every checklist item in display order.
func (a *App) ListItems(ctx context.Context) ([]*domain.ChecklistItem, error) {
	return a.items.ListAll(ctx)
}

// Stats computes the statistics summary. It only reads the stores and
// does not go through the loop.
func (a *App) Stats(ctx context.Context) (*service.Summary, error) {
	return a.stats.Summary(ctx)
}

// ResetStreak clears the streak.
func (a *App) ResetStreak(ctx context.Context) error {
	return a.loop.Do(ctx, "reset_streak", func(ctx context.Context) error {
		if err := a.streaks.Reset(ctx); err != nil {
			return err
		}
		if a.metrics != nil {
			a.metrics.SetStreak(0)
		}
		return nil
	})
}

type noopNotifier struct{}

func (noopNotifier) ScheduleExitPrompt(context.Context) error { return nil }

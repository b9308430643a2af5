package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/events"
	"github.com/phrazzld/exitcheck/internal/platform/logger"
)

// DefaultDuplicateExitWindow is how long a repeated exit for the same region
// is treated as a duplicate delivery.
const DefaultDuplicateExitWindow = 60 * time.Second

// State is the geofence monitor state.
type State int

// Monitor states
const (
	StateIdle State = iota
	StateArmed
	StateUnavailable
	StateError
)

// String returns the state name used in logs and events.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateUnavailable:
		return "unavailable"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Status is a snapshot of the monitor.
type Status struct {
	State State
	// Reason explains Unavailable and Error states.
	Reason error
	// Region is the armed region, nil unless State is Armed.
	Region *domain.Region
	// LastExitAt is the time of the last accepted exit.
	LastExitAt *time.Time
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithDuplicateExitWindow sets the duplicate exit window. Zero disables
// deduplication.
func WithDuplicateExitWindow(d time.Duration) MonitorOption {
	return func(m *Monitor) { m.dupWindow = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MonitorOption {
	return func(m *Monitor) { m.now = now }
}

// Monitor owns the single monitored home region.
type Monitor struct {
	service   Service
	gate      *PermissionGate
	emitter   events.EventEmitter
	logger    *slog.Logger
	now       func() time.Time
	dupWindow time.Duration

	state        State
	reason       error
	region       *domain.Region
	lastExitAt   *time.Time
	lastLocation *Coordinate
}

// NewMonitor creates an idle monitor.
func NewMonitor(
	service Service,
	gate *PermissionGate,
	emitter events.EventEmitter,
	logger *slog.Logger,
	opts ...MonitorOption,
) *Monitor {
	if service == nil {
		panic("service cannot be nil")
	}
	if gate == nil {
		panic("gate cannot be nil")
	}
	if emitter == nil {
		panic("emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Monitor{
		service:   service,
		gate:      gate,
		emitter:   emitter,
		logger:    logger.With(slog.String("component", "geofence_monitor")),
		now:       time.Now,
		dupWindow: DefaultDuplicateExitWindow,
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Status returns a snapshot of the monitor.
func (m *Monitor) Status() Status {
	st := Status{State: m.state, Reason: m.reason}
	if m.region != nil {
		r := *m.region
		st.Region = &r
	}
	if m.lastExitAt != nil {
		at := *m.lastExitAt
		st.LastExitAt = &at
	}
	return st
}

// State returns the current state.
func (m *Monitor) State() State {
	return m.state
}

// Gate returns the permission gate the monitor consults.
func (m *Monitor) Gate() *PermissionGate {
	return m.gate
}

// LastLocation returns the most recent fix, or nil.
func (m *Monitor) LastLocation() *Coordinate {
	if m.lastLocation == nil {
		return nil
	}
	c := *m.lastLocation
	return &c
}

// RequestCurrentLocation asks the platform for a fix. It arrives later as a
// SignalLocationUpdated.
func (m *Monitor) RequestCurrentLocation(ctx context.Context) {
	logger.FromContextOrDefault(ctx, m.logger).Debug("requesting current location")
	m.service.RequestLocation()
}

// StartMonitoring arms the exit-only region of home. Any previously armed
// region is stopped first, unless it is the same registration, in which case
// the call does nothing. Without Always authorization or region monitoring
// support the monitor becomes Unavailable; a platform failure puts it in
// Error. The returned error is the state reason.
func (m *Monitor) StartMonitoring(ctx context.Context, home *domain.HomeLocation) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	if home == nil {
		return ErrNilHome
	}
	region := home.Region()

	if m.state == StateArmed && m.region != nil && m.region.SameGeometry(region) {
		log.Debug("region already armed", slog.String("region", region.Identifier))
		return nil
	}

	m.stopRegion(ctx)

	if !m.gate.HasAlwaysAuthorization() {
		log.Warn("cannot arm region without always authorization",
			slog.String("authorization", m.gate.Status().String()))
		m.transition(ctx, StateUnavailable, ErrAuthorizationInsufficient)
		return ErrAuthorizationInsufficient
	}

	if !m.service.IsMonitoringAvailable() {
		log.Warn("region monitoring not available")
		m.transition(ctx, StateUnavailable, ErrMonitoringUnavailable)
		return ErrMonitoringUnavailable
	}

	if err := m.service.StartMonitoring(region); err != nil {
		reason := fmt.Errorf("%w: %v", ErrMonitoringFailed, err)
		log.Error("failed to start region monitoring",
			slog.String("region", region.Identifier),
			slog.String("error", err.Error()))
		m.transition(ctx, StateError, reason)
		return reason
	}

	m.region = &region
	m.lastExitAt = nil
	log.Info("region armed",
		slog.String("region", region.Identifier),
		slog.Float64("radius", region.Radius))
	m.transition(ctx, StateArmed, nil)
	return nil
}

// StopMonitoring unregisters the region and returns to Idle. It is safe in
// any state.
func (m *Monitor) StopMonitoring(ctx context.Context) {
	m.stopRegion(ctx)
	m.transition(ctx, StateIdle, nil)
}

// HandleSignal applies a platform signal. It returns an error only when an
// accepted exit could not be published.
func (m *Monitor) HandleSignal(ctx context.Context, sig Signal) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	switch sig.Kind {
	case SignalAuthorizationChanged:
		m.gate.HandleAuthorizationChanged(ctx, sig.Authorization)
		if m.state == StateArmed && !m.gate.HasAlwaysAuthorization() {
			m.stopRegion(ctx)
			m.transition(ctx, StateUnavailable, ErrAuthorizationInsufficient)
		}
		return nil

	case SignalRegionExited:
		return m.handleExit(ctx, sig)

	case SignalRegionEntered:
		log.Debug("ignoring region entry", slog.String("region", sig.RegionIdentifier))
		return nil

	case SignalMonitoringFailed:
		if m.state != StateArmed || !m.isArmedRegion(sig.RegionIdentifier, true) {
			log.Debug("ignoring monitoring failure for inactive region",
				slog.String("region", sig.RegionIdentifier))
			return nil
		}
		cause := sig.Err
		if cause == nil {
			cause = errors.New("unknown platform error")
		}
		log.Error("region monitoring failed",
			slog.String("region", m.region.Identifier),
			slog.String("error", cause.Error()))
		// The platform dropped the registration; only a new StartMonitoring re-arms.
		m.region = nil
		m.transition(ctx, StateError, fmt.Errorf("%w: %v", ErrMonitoringFailed, cause))
		return nil

	case SignalLocationUpdated:
		if sig.Location != nil {
			c := *sig.Location
			m.lastLocation = &c
		}
		return nil

	default:
		log.Warn("ignoring unknown signal", slog.Int("kind", int(sig.Kind)))
		return nil
	}
}

func (m *Monitor) handleExit(ctx context.Context, sig Signal) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	if m.state != StateArmed || !m.isArmedRegion(sig.RegionIdentifier, false) {
		log.Debug("ignoring exit",
			slog.String("region", sig.RegionIdentifier),
			slog.String("state", m.state.String()))
		return nil
	}

	at := sig.At
	if at.IsZero() {
		at = m.now()
	}

	if m.lastExitAt != nil && m.dupWindow > 0 {
		since := at.Sub(*m.lastExitAt)
		if since >= 0 && since < m.dupWindow {
			log.Info("dropping duplicate exit",
				slog.String("region", sig.RegionIdentifier),
				slog.Duration("since_last", since))
			return nil
		}
	}

	m.lastExitAt = &at
	log.Info("exit detected", slog.String("region", sig.RegionIdentifier))

	payload := events.ExitDetectedPayload{RegionIdentifier: sig.RegionIdentifier, DetectedAt: at}
	if err := events.Emit(ctx, m.emitter, events.TypeExitDetected, payload); err != nil {
		log.Error("failed to publish exit", slog.String("error", err.Error()))
		return fmt.Errorf("publishing exit: %w", err)
	}
	return nil
}

// isArmedRegion reports whether id names the armed region. An empty id
// matches when allowEmpty is set.
func (m *Monitor) isArmedRegion(id string, allowEmpty bool) bool {
	if m.region == nil {
		return false
	}
	if id == "" {
		return allowEmpty
	}
	return id == m.region.Identifier
}

func (m *Monitor) stopRegion(ctx context.Context) {
	if m.region == nil {
		return
	}
	logger.FromContextOrDefault(ctx, m.logger).Info("stopping region",
		slog.String("region", m.region.Identifier))
	m.service.StopMonitoring(*m.region)
	m.region = nil
}

func (m *Monitor) transition(ctx context.Context, to State, reason error) {
	from := m.state
	sameReason := (m.reason == nil && reason == nil) ||
		(m.reason != nil && reason != nil && m.reason.Error() == reason.Error())
	m.state = to
	m.reason = reason
	if from == to && sameReason {
		return
	}

	payload := events.MonitorStateChangedPayload{From: from.String(), To: to.String()}
	if reason != nil {
		payload.Reason = reason.Error()
	}
	if err := events.Emit(ctx, m.emitter, events.TypeMonitorStateChanged, payload); err != nil {
		logger.FromContextOrDefault(ctx, m.logger).Error("failed to publish monitor state",
			slog.String("error", err.Error()))
	}
}

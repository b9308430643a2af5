// Package metrics exposes Prometheus metrics derived from the event bus.
package metrics

import (
	"context"
	"log/slog"

	"github.com/phrazzld/exitcheck/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "exitcheck"

// Session close outcomes used as label values.
const (
	OutcomePerfect    = "perfect"
	OutcomeRushed     = "rushed"
	OutcomeIncomplete = "incomplete"
)

// monitorStates are the label values of the monitor state gauge.
var monitorStates = []string{"idle", "armed", "unavailable", "error"}

// Metrics holds the exit checker's Prometheus collectors. It is registered
// on the event bus and is safe for concurrent use.
type Metrics struct {
	ExitsDetectedTotal      prometheus.Counter
	SessionsOpenedTotal     *prometheus.CounterVec
	SessionsClosedTotal     *prometheus.CounterVec
	ForgottenItemsTotal     prometheus.Counter
	CurrentStreak           prometheus.Gauge
	MonitorState            *prometheus.GaugeVec
	AuthorizationChanges    *prometheus.CounterVec
	EventDecodeFailureTotal prometheus.Counter

	logger *slog.Logger
}

var _ events.EventHandler = (*Metrics)(nil)

// New creates the collectors and registers them on reg.
//
// Metrics:
//   - exitcheck_exits_detected_total - Count of accepted geofence exits
//   - exitcheck_sessions_opened_total{trigger} - Count of sessions presented in the foreground
//   - exitcheck_sessions_closed_total{outcome} - Count of closed sessions
//   - exitcheck_forgotten_items_total - Count of items left behind on rushed exits
//   - exitcheck_current_streak - Current perfect-exit streak
//   - exitcheck_monitor_state{state} - 1 for the current monitor state
//   - exitcheck_authorization_changes_total{to} - Count of authorization changes
func New(reg prometheus.Registerer, logger *slog.Logger) *Metrics {
	if logger == nil {
		logger = slog.Default()
	}
	f := promauto.With(reg)

	m := &Metrics{
		ExitsDetectedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exits_detected_total",
			Help:      "Total number of accepted geofence exits",
		}),
		SessionsOpenedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_opened_total",
			Help:      "Total number of exit sessions presented in the foreground",
		}, []string{"trigger"}),
		SessionsClosedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_closed_total",
			Help:      "Total number of closed exit sessions by outcome",
		}, []string{"outcome"}),
		ForgottenItemsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forgotten_items_total",
			Help:      "Total number of items left behind on rushed exits",
		}),
		CurrentStreak: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "current_streak",
			Help:      "Current perfect-exit streak in days",
		}),
		MonitorState: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "monitor_state",
			Help:      "Geofence monitor state (1 for the current state)",
		}, []string{"state"}),
		AuthorizationChanges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authorization_changes_total",
			Help:      "Total number of location authorization changes by new status",
		}, []string{"to"}),
		EventDecodeFailureTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_decode_failures_total",
			Help:      "Total number of bus events whose payload could not be decoded",
		}),
		logger: logger.With(slog.String("component", "metrics")),
	}
	m.setMonitorState("idle")
	return m
}

// HandleEvent updates the collectors from a bus event. Decode failures are
// counted and logged, never returned, so metrics cannot fail a publisher.
func (m *Metrics) HandleEvent(ctx context.Context, event *events.Event) error {
	if err := m.observe(event); err != nil {
		m.EventDecodeFailureTotal.Inc()
		m.logger.Warn("failed to decode event for metrics",
			slog.String("event_type", event.Type),
			slog.String("error", err.Error()))
	}
	return nil
}

func (m *Metrics) observe(event *events.Event) error {
	switch event.Type {
	case events.TypeExitDetected:
		m.ExitsDetectedTotal.Inc()

	case events.TypeSessionOpened:
		var p events.SessionOpenedPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return err
		}
		m.SessionsOpenedTotal.WithLabelValues(p.Trigger).Inc()

	case events.TypeSessionClosed:
		var p events.SessionClosedPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return err
		}
		m.SessionsClosedTotal.WithLabelValues(Outcome(p.WasComplete, p.DismissedEarly)).Inc()
		if p.DismissedEarly {
			m.ForgottenItemsTotal.Add(float64(len(p.ForgottenItems)))
		}
		m.CurrentStreak.Set(float64(p.CurrentStreak))

	case events.TypeMonitorStateChanged:
		var p events.MonitorStateChangedPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return err
		}
		m.setMonitorState(p.To)

	case events.TypeAuthorizationChanged:
		var p events.AuthorizationChangedPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return err
		}
		m.AuthorizationChanges.WithLabelValues(p.To).Inc()

	}
	return nil
}

// SetStreak seeds the streak gauge, e.g. from the stored state at startup.
func (m *Metrics) SetStreak(streak int) {
	m.CurrentStreak.Set(float64(streak))
}

func (m *Metrics) setMonitorState(state string) {
	for _, s := range monitorStates {
		v := 0.0
		if s == state {
			v = 1
		}
		m.MonitorState.WithLabelValues(s).Set(v)
	}
}

// Outcome names a session close for the outcome label.
func Outcome(wasComplete, dismissedEarly bool) string {
	switch {
	case dismissedEarly:
		return OutcomeRushed
	case wasComplete:
		return OutcomePerfect
	default:
		return OutcomeIncomplete
	}
}

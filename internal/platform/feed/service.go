package feed

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/location"
)

// signalBuffer bounds the asynchronous signals queued by Service.
const signalBuffer = 16

// Service is a location.Service driven by a script instead of a device.
// With auto-grant on, authorization requests are answered immediately on
// the signal channel, as a user tapping "Allow" would.
type Service struct {
	mu            sync.Mutex
	authorization location.AuthorizationStatus
	available     bool
	autoGrant     bool
	monitored     map[string]domain.Region
	last          *location.Coordinate
	signals       chan location.Signal
	closed        bool
	logger        *slog.Logger
}

var _ location.Service = (*Service)(nil)

// NewService creates a scripted service with the given starting
// authorization.
func NewService(initial location.AuthorizationStatus, autoGrant bool, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		authorization: initial,
		available:     true,
		autoGrant:     autoGrant,
		monitored:     make(map[string]domain.Region),
		signals:       make(chan location.Signal, signalBuffer),
		logger:        logger.With(slog.String("component", "feed_location")),
	}
}

// AuthorizationStatus implements location.Service.
func (s *Service) AuthorizationStatus() location.AuthorizationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authorization
}

// RequestWhenInUseAuthorization implements location.Service.
func (s *Service) RequestWhenInUseAuthorization() {
	s.request(location.AuthorizedWhenInUse)
}

// RequestAlwaysAuthorization implements location.Service.
func (s *Service) RequestAlwaysAuthorization() {
	s.request(location.AuthorizedAlways)
}

func (s *Service) request(grant location.AuthorizationStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Info("authorization requested", slog.String("status", grant.String()))
	if !s.autoGrant || s.authorization == location.AuthorizedAlways {
		return
	}
	s.authorization = grant
	s.sendLocked(location.Signal{Kind: location.SignalAuthorizationChanged, Authorization: grant})
}

// RequestLocation implements location.Service. The last scripted fix, if
// any, is delivered again.
func (s *Service) RequestLocation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		s.logger.Debug("location requested before any scripted fix")
		return
	}
	fix := *s.last
	fix.Timestamp = time.Now()
	s.sendLocked(location.Signal{Kind: location.SignalLocationUpdated, Location: &fix})
}

// IsMonitoringAvailable implements location.Service.
func (s *Service) IsMonitoringAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available
}

// SetMonitoringAvailable toggles device support for region monitoring.
func (s *Service) SetMonitoringAvailable(available bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.available = available
}

// StartMonitoring implements location.Service.
func (s *Service) StartMonitoring(region domain.Region) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monitored[region.Identifier] = region
	s.logger.Info("region registered",
		slog.String("region", region.Identifier),
		slog.Float64("radius", region.Radius))
	return nil
}

// StopMonitoring implements location.Service.
func (s *Service) StopMonitoring(region domain.Region) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.monitored, region.Identifier)
	s.logger.Info("region unregistered", slog.String("region", region.Identifier))
}

// Signals implements location.Service.
func (s *Service) Signals() <-chan location.Signal {
	return s.signals
}

// Close closes the signal channel. Later asynchronous signals are dropped.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.signals)
	}
}

// MonitoredRegion returns the identifier of the monitored region, the
// lowest one when several are registered, or "" when none is.
func (s *Service) MonitoredRegion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.monitored))
	for id := range s.monitored {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return ""
	}
	sort.Strings(ids)
	return ids[0]
}

func (s *Service) setAuthorization(status location.AuthorizationStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authorization = status
}

func (s *Service) setLocation(fix location.Coordinate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &fix
}

// sendLocked queues sig without blocking. Caller holds mu.
func (s *Service) sendLocked(sig location.Signal) {
	if s.closed {
		return
	}
	select {
	case s.signals <- sig:
	default:
		s.logger.Warn("signal buffer full, dropping signal", slog.String("kind", sig.Kind.String()))
	}
}

package mocks

import (
	"sync"

	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/location"
)

// MockLocationService implements location.Service for testing.
type MockLocationService struct {
	// Function fields for customizable behavior
	StartMonitoringFn func(region domain.Region) error

	// Authorization is returned by AuthorizationStatus.
	Authorization location.AuthorizationStatus
	// MonitoringAvailable is returned by IsMonitoringAvailable.
	MonitoringAvailable bool

	mu                sync.Mutex
	signals           chan location.Signal
	started           []domain.Region
	stopped           []domain.Region
	whenInUseRequests int
	alwaysRequests    int
	locationRequests  int
	monitored         map[string]domain.Region
}

var _ location.Service = (*MockLocationService)(nil)

// NewMockLocationService creates a mock with monitoring available and the
// given authorization.
func NewMockLocationService(status location.AuthorizationStatus) *MockLocationService {
	return &MockLocationService{
		Authorization:       status,
		MonitoringAvailable: true,
		signals:             make(chan location.Signal, 16),
		monitored:           make(map[string]domain.Region),
	}
}

// AuthorizationStatus implements location.Service.
func (m *MockLocationService) AuthorizationStatus() location.AuthorizationStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Authorization
}

// RequestWhenInUseAuthorization implements location.Service.
func (m *MockLocationService) RequestWhenInUseAuthorization() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.whenInUseRequests++
}

// RequestAlwaysAuthorization implements location.Service.
func (m *MockLocationService) RequestAlwaysAuthorization() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alwaysRequests++
}

// RequestLocation implements location.Service.
func (m *MockLocationService) RequestLocation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locationRequests++
}

// IsMonitoringAvailable implements location.Service.
func (m *MockLocationService) IsMonitoringAvailable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.MonitoringAvailable
}

// StartMonitoring implements location.Service.
func (m *MockLocationService) StartMonitoring(region domain.Region) error {
	m.mu.Lock()
	m.started = append(m.started, region)
	fn := m.StartMonitoringFn
	m.mu.Unlock()

	if fn != nil {
		if err := fn(region); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.monitored[region.Identifier] = region
	m.mu.Unlock()
	return nil
}

// StopMonitoring implements location.Service.
func (m *MockLocationService) StopMonitoring(region domain.Region) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = append(m.stopped, region)
	delete(m.monitored, region.Identifier)
}

// Signals implements location.Service.
func (m *MockLocationService) Signals() <-chan location.Signal {
	return m.signals
}

// Send delivers sig on the signal channel.
func (m *MockLocationService) Send(sig location.Signal) {
	m.signals <- sig
}

// Close closes the signal channel.
func (m *MockLocationService) Close() {
	close(m.signals)
}

// MonitoredRegions returns the regions currently registered.
func (m *MockLocationService) MonitoredRegions() []domain.Region {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Region, 0, len(m.monitored))
	for _, r := range m.monitored {
		out = append(out, r)
	}
	return out
}

// StartCalls returns the regions passed to StartMonitoring.
func (m *MockLocationService) StartCalls() []domain.Region {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Region(nil), m.started...)
}

// StopCalls returns the regions passed to StopMonitoring.
func (m *MockLocationService) StopCalls() []domain.Region {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Region(nil), m.stopped...)
}

// RequestCounts returns the number of when-in-use, always and location
// requests made.
func (m *MockLocationService) RequestCounts() (whenInUse, always, loc int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.whenInUseRequests, m.alwaysRequests, m.locationRequests
}

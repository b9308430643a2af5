package location

import (
	"time"

	"github.com/phrazzld/exitcheck/internal/domain"
)

// AuthorizationStatus is the location access granted by the user.
type AuthorizationStatus int

// Authorization states
const (
	NotDetermined AuthorizationStatus = iota
	Restricted
	Denied
	AuthorizedAlways
	AuthorizedWhenInUse
)

// String returns the status name used in logs and events.
func (s AuthorizationStatus) String() string {
	switch s {
	case NotDetermined:
		return "not_determined"
	case Restricted:
		return "restricted"
	case Denied:
		return "denied"
	case AuthorizedAlways:
		return "always"
	case AuthorizedWhenInUse:
		return "when_in_use"
	default:
		return "unknown"
	}
}

// ParseAuthorizationStatus is the inverse of AuthorizationStatus.String.
func ParseAuthorizationStatus(s string) (AuthorizationStatus, bool) {
	for st := NotDetermined; st <= AuthorizedWhenInUse; st++ {
		if st.String() == s {
			return st, true
		}
	}
	return NotDetermined, false
}

// SignalKind tags a Signal.
type SignalKind int

// Signal kinds
const (
	SignalAuthorizationChanged SignalKind = iota
	SignalRegionEntered
	SignalRegionExited
	SignalMonitoringFailed
	SignalLocationUpdated
)

// String returns the kind name used in logs.
func (k SignalKind) String() string {
	switch k {
	case SignalAuthorizationChanged:
		return "authorization_changed"
	case SignalRegionEntered:
		return "region_entered"
	case SignalRegionExited:
		return "region_exited"
	case SignalMonitoringFailed:
		return "monitoring_failed"
	case SignalLocationUpdated:
		return "location_updated"
	default:
		return "unknown"
	}
}

// Coordinate is a position fix reported by the platform.
type Coordinate struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// Signal is one asynchronous notification from the platform. Which fields
// are set depends on Kind.
type Signal struct {
	Kind SignalKind

	// Authorization is set for SignalAuthorizationChanged.
	Authorization AuthorizationStatus

	// RegionIdentifier is set for region transitions and may be set for
	// SignalMonitoringFailed.
	RegionIdentifier string

	// Err is the platform reason of SignalMonitoringFailed.
	Err error

	// Location is set for SignalLocationUpdated.
	Location *Coordinate

	// At is when the platform observed the signal. Zero means "now".
	At time.Time
}

// Service is the location platform capability.
type Service interface {
	// AuthorizationStatus returns the current authorization.
	AuthorizationStatus() AuthorizationStatus

	// RequestWhenInUseAuthorization prompts the user. The outcome arrives
	// later as a SignalAuthorizationChanged.
	RequestWhenInUseAuthorization()

	// RequestAlwaysAuthorization prompts the user for background access.
	// The outcome arrives later as a SignalAuthorizationChanged.
	RequestAlwaysAuthorization()

	// RequestLocation asks for a single fix, delivered as SignalLocationUpdated.
	RequestLocation()

	// IsMonitoringAvailable reports whether circular region monitoring is
	// supported on this device.
	IsMonitoringAvailable() bool

	// StartMonitoring registers region. Registering an identifier that is
	// already monitored replaces it.
	StartMonitoring(region domain.Region) error

	// StopMonitoring unregisters region.
	StopMonitoring(region domain.Region)

	// Signals delivers platform notifications. It is read by a single
	// consumer and closed when the service shuts down.
	Signals() <-chan Signal
}

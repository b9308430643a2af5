package location

import "errors"

var (
	// ErrAuthorizationInsufficient means monitoring was requested without
	// Always authorization. The user can fix it by granting permission.
	ErrAuthorizationInsufficient = errors.New("always authorization required for geofencing")

	// ErrMonitoringUnavailable means the device cannot monitor regions.
	ErrMonitoringUnavailable = errors.New("region monitoring not available on this device")

	// ErrMonitoringFailed means the platform rejected or dropped the region.
	// The monitor must be re-armed explicitly.
	ErrMonitoringFailed = errors.New("region monitoring failed")

	// ErrNilHome is returned when StartMonitoring is called without a home.
	ErrNilHome = errors.New("home location cannot be nil")
)

// Package location turns location-platform signals into exit detections.
//
// Service is the capability boundary to the platform (authorization prompts,
// circular region monitoring and position fixes). PermissionGate tracks the
// authorization state and Monitor owns the single home region, converting
// region transitions into exactly one exit.detected event per departure.
// Neither type is safe for concurrent use; both are owned by the
// coordination loop.
package location

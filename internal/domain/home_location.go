package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Geofence radius bounds in meters.
const (
	MinRadius     = 50.0
	MaxRadius     = 500.0
	DefaultRadius = 100.0
)

const (
	// regionPrefix is prepended to the home ID to build the region identifier.
	regionPrefix    = "home_geofence_"
	defaultHomeName = "Home"
)

// HomeLocation validation errors
var (
	ErrHomeIDEmpty      = errors.New("home location ID cannot be empty")
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")
	ErrInvalidRadius    = errors.New("radius must be between 50 and 500 meters")
	ErrHomeNameEmpty    = errors.New("home location name cannot be empty")
)

// HomeLocation is the single home zone whose exit triggers the checklist.
type HomeLocation struct {
	ID        uuid.UUID `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Radius    float64   `json:"radius"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClampRadius limits radius to [MinRadius, MaxRadius].
func ClampRadius(radius float64) float64 {
	return max(MinRadius, min(radius, MaxRadius))
}

// NewHomeLocation creates a HomeLocation centered on the given coordinate.
// The radius is clamped into the allowed range and an empty name falls back
// to "Home". Returns an error if the coordinate is out of range.
func NewHomeLocation(latitude, longitude, radius float64, name string, now time.Time) (*HomeLocation, error) {
	if name == "" {
		name = defaultHomeName
	}

	home := &HomeLocation{
		ID:        uuid.New(),
		Latitude:  latitude,
		Longitude: longitude,
		Radius:    ClampRadius(radius),
		Name:      name,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}

	if err := home.Validate(); err != nil {
		return nil, err
	}

	return home, nil
}

// Validate checks if the HomeLocation has valid data.
func (h *HomeLocation) Validate() error {
	if h.ID == uuid.Nil {
		return ErrHomeIDEmpty
	}
	if err := validateCoordinate(h.Latitude, h.Longitude); err != nil {
		return err
	}
	if h.Radius < MinRadius || h.Radius > MaxRadius {
		return ErrInvalidRadius
	}
	if h.Name == "" {
		return ErrHomeNameEmpty
	}
	return nil
}

// UpdateRadius sets the radius, clamped to [MinRadius, MaxRadius].
func (h *HomeLocation) UpdateRadius(radius float64, now time.Time) {
	h.Radius = ClampRadius(radius)
	h.UpdatedAt = now.UTC()
}

// UpdateCoordinate moves the zone center. The location is left unchanged if
// the coordinate is out of range.
func (h *HomeLocation) UpdateCoordinate(latitude, longitude float64, now time.Time) error {
	if err := validateCoordinate(latitude, longitude); err != nil {
		return err
	}
	h.Latitude = latitude
	h.Longitude = longitude
	h.UpdatedAt = now.UTC()
	return nil
}

// RegionIdentifier derives the geofence identifier from the home ID, so
// re-registering after a geometry change replaces rather than duplicates.
func (h *HomeLocation) RegionIdentifier() string {
	return regionPrefix + h.ID.String()
}

// Region returns the exit-only geofence for this home.
func (h *HomeLocation) Region() Region {
	return Region{
		Identifier:    h.RegionIdentifier(),
		Latitude:      h.Latitude,
		Longitude:     h.Longitude,
		Radius:        h.Radius,
		NotifyOnEntry: false,
		NotifyOnExit:  true,
	}
}

func validateCoordinate(latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 {
		return fmt.Errorf("%w: %v", ErrInvalidLatitude, latitude)
	}
	if longitude < -180 || longitude > 180 {
		return fmt.Errorf("%w: %v", ErrInvalidLongitude, longitude)
	}
	return nil
}

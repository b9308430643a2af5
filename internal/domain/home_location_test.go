package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewHomeLocation(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	home, err := NewHomeLocation(52.52, 13.405, 100, "", now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if home.ID == uuid.Nil {
		t.Error("Expected non-nil ID")
	}
	if home.Name != "Home" {
		t.Errorf("Expected default name Home, got %q", home.Name)
	}
	if home.Radius != 100 {
		t.Errorf("Expected radius 100, got %v", home.Radius)
	}
	if !home.CreatedAt.Equal(now) || !home.UpdatedAt.Equal(now) {
		t.Errorf("Expected timestamps %v, got %v / %v", now, home.CreatedAt, home.UpdatedAt)
	}

	if _, err := NewHomeLocation(91, 0, 100, "Flat", now); !errors.Is(err, ErrInvalidLatitude) {
		t.Errorf("Expected error %v, got %v", ErrInvalidLatitude, err)
	}
	if _, err := NewHomeLocation(0, -181, 100, "Flat", now); !errors.Is(err, ErrInvalidLongitude) {
		t.Errorf("Expected error %v, got %v", ErrInvalidLongitude, err)
	}
}

func TestHomeLocationRadiusClamp(t *testing.T) {
	now := time.Now()

	home, err := NewHomeLocation(0, 0, 100, "Home", now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	home.UpdateRadius(600, now)
	if home.Radius != MaxRadius {
		t.Errorf("Expected radius %v, got %v", MaxRadius, home.Radius)
	}

	home.UpdateRadius(10, now)
	if home.Radius != MinRadius {
		t.Errorf("Expected radius %v, got %v", MinRadius, home.Radius)
	}

	home.UpdateRadius(250, now)
	if home.Radius != 250 {
		t.Errorf("Expected radius 250, got %v", home.Radius)
	}

	clamped, err := NewHomeLocation(0, 0, 5000, "Home", now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if clamped.Radius != MaxRadius {
		t.Errorf("Expected constructor to clamp to %v, got %v", MaxRadius, clamped.Radius)
	}
}

func TestHomeLocationUpdateCoordinate(t *testing.T) {
	created := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)

	home, _ := NewHomeLocation(10, 10, 100, "Home", created)

	if err := home.UpdateCoordinate(100, 10, later); !errors.Is(err, ErrInvalidLatitude) {
		t.Errorf("Expected error %v, got %v", ErrInvalidLatitude, err)
	}
	if home.Latitude != 10 || !home.UpdatedAt.Equal(created) {
		t.Error("Expected invalid update to leave the location unchanged")
	}

	if err := home.UpdateCoordinate(11, 12, later); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if home.Latitude != 11 || home.Longitude != 12 {
		t.Errorf("Expected 11,12 got %v,%v", home.Latitude, home.Longitude)
	}
	if !home.UpdatedAt.Equal(later) {
		t.Errorf("Expected UpdatedAt %v, got %v", later, home.UpdatedAt)
	}
}

func TestHomeLocationRegion(t *testing.T) {
	home, _ := NewHomeLocation(1, 2, 150, "Home", time.Now())

	region := home.Region()
	if region.Identifier != "home_geofence_"+home.ID.String() {
		t.Errorf("Unexpected identifier %q", region.Identifier)
	}
	if region.NotifyOnEntry || !region.NotifyOnExit {
		t.Error("Expected exit-only region")
	}

	// Identifier survives geometry edits so re-arming replaces the registration.
	home.UpdateRadius(300, time.Now())
	moved := home.Region()
	if moved.Identifier != region.Identifier {
		t.Error("Expected identifier to be stable across radius updates")
	}
	if moved.SameGeometry(region) {
		t.Error("Expected geometry to differ after radius update")
	}
	if !region.SameGeometry(region) {
		t.Error("Expected region to match itself")
	}
}

func TestHomeLocationValidate(t *testing.T) {
	valid := HomeLocation{ID: uuid.New(), Latitude: 1, Longitude: 1, Radius: 100, Name: "Home"}

	tests := []struct {
		name    string
		mutate  func(h *HomeLocation)
		wantErr error
	}{
		{"valid", func(h *HomeLocation) {}, nil},
		{"nil id", func(h *HomeLocation) { h.ID = uuid.Nil }, ErrHomeIDEmpty},
		{"radius too small", func(h *HomeLocation) { h.Radius = 49 }, ErrInvalidRadius},
		{"radius too large", func(h *HomeLocation) { h.Radius = 501 }, ErrInvalidRadius},
		{"empty name", func(h *HomeLocation) { h.Name = "" }, ErrHomeNameEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := valid
			tt.mutate(&h)
			if err := h.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

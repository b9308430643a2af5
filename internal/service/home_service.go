package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/exitcheck/internal/config"
	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/location"
	"github.com/phrazzld/exitcheck/internal/platform/logger"
	"github.com/phrazzld/exitcheck/internal/store"
)

// Monitor is the part of location.Monitor the home service drives.
type Monitor interface {
	StartMonitoring(ctx context.Context, home *domain.HomeLocation) error
	StopMonitoring(ctx context.Context)
	State() location.State
	LastLocation() *location.Coordinate
}

var _ Monitor = (*location.Monitor)(nil)

// HomeService manages the single home zone. Edits re-register the geofence
// when it is currently armed.
type HomeService interface {
	// Get returns the home zone or ErrNoHomeLocation.
	Get(ctx context.Context) (*domain.HomeLocation, error)

	// SetHome stores a home zone centered on the coordinate. A zero radius
	// or empty name takes the configured default. An existing home keeps its
	// identity so the geofence registration is replaced, not duplicated.
	SetHome(ctx context.Context, latitude, longitude, radius float64, name string) (*domain.HomeLocation, error)

	// UpdateRadius changes the radius, clamped to the allowed range.
	UpdateRadius(ctx context.Context, radius float64) (*domain.HomeLocation, error)

	// UpdateCoordinate moves the zone center.
	UpdateCoordinate(ctx context.Context, latitude, longitude float64) (*domain.HomeLocation, error)

	// UseCurrentLocation centers the zone on the last known fix. Returns
	// ErrNoLocationFix when none has been received.
	UseCurrentLocation(ctx context.Context) (*domain.HomeLocation, error)

	// StartMonitoring arms the geofence for the stored home. Returns
	// ErrNoHomeLocation when none is set, or the monitor's state reason.
	StartMonitoring(ctx context.Context) error

	// StopMonitoring disarms the geofence.
	StopMonitoring(ctx context.Context)

	// Clear stops monitoring and deletes the home zone.
	Clear(ctx context.Context) error
}

var _ HomeService = (*homeServiceImpl)(nil)

type homeServiceImpl struct {
	homes   store.HomeLocationStore
	monitor Monitor
	cfg     config.HomeConfig
	now     func() time.Time
	logger  *slog.Logger
}

// NewHomeService creates a HomeService.
func NewHomeService(
	homes store.HomeLocationStore,
	monitor Monitor,
	cfg config.HomeConfig,
	logger *slog.Logger,
) HomeService {
	if homes == nil {
		panic("homes store cannot be nil")
	}
	if monitor == nil {
		panic("monitor cannot be nil")
	}
	if cfg.DefaultRadius == 0 {
		cfg.DefaultRadius = domain.DefaultRadius
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &homeServiceImpl{
		homes:   homes,
		monitor: monitor,
		cfg:     cfg,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "home_service")),
	}
}

func (s *homeServiceImpl) Get(ctx context.Context) (*domain.HomeLocation, error) {
	home, err := s.homes.Get(ctx)
	if err != nil {
		return nil, NewServiceError("home", "get", err)
	}
	return home, nil
}

func (s *homeServiceImpl) SetHome(
	ctx context.Context,
	latitude, longitude, radius float64,
	name string,
) (*domain.HomeLocation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if radius == 0 {
		radius = s.cfg.DefaultRadius
	}
	if name == "" {
		name = s.cfg.DefaultName
	}

	home, err := domain.NewHomeLocation(latitude, longitude, radius, name, s.now())
	if err != nil {
		log.Warn("invalid home location", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	existing, err := s.homes.Get(ctx)
	switch {
	case err == nil:
		home.ID = existing.ID
		home.CreatedAt = existing.CreatedAt
	case !errors.Is(err, store.ErrHomeLocationNotFound):
		return nil, NewServiceError("home", "set_home", err)
	}

	if err := s.homes.Save(ctx, home); err != nil {
		log.Error("failed to save home location", slog.String("error", err.Error()))
		return nil, NewServiceError("home", "set_home", err)
	}

	log.Info("home location set",
		slog.String("home_id", home.ID.String()),
		slog.Float64("radius", home.Radius))
	s.rearm(ctx, home)
	return home, nil
}

func (s *homeServiceImpl) UpdateRadius(ctx context.Context, radius float64) (*domain.HomeLocation, error) {
	return s.update(ctx, "update_radius", func(home *domain.HomeLocation) error {
		home.UpdateRadius(radius, s.now())
		return nil
	})
}

func (s *homeServiceImpl) UpdateCoordinate(
	ctx context.Context,
	latitude, longitude float64,
) (*domain.HomeLocation, error) {
	return s.update(ctx, "update_coordinate", func(home *domain.HomeLocation) error {
		return home.UpdateCoordinate(latitude, longitude, s.now())
	})
}

func (s *homeServiceImpl) UseCurrentLocation(ctx context.Context) (*domain.HomeLocation, error) {
	fix := s.monitor.LastLocation()
	if fix == nil {
		return nil, ErrNoLocationFix
	}

	_, err := s.homes.Get(ctx)
	switch {
	case errors.Is(err, store.ErrHomeLocationNotFound):
		return s.SetHome(ctx, fix.Latitude, fix.Longitude, 0, "")
	case err != nil:
		return nil, NewServiceError("home", "use_current_location", err)
	}
	return s.UpdateCoordinate(ctx, fix.Latitude, fix.Longitude)
}

func (s *homeServiceImpl) StartMonitoring(ctx context.Context) error {
	home, err := s.Get(ctx)
	if err != nil {
		return err
	}
	return s.monitor.StartMonitoring(ctx, home)
}

func (s *homeServiceImpl) StopMonitoring(ctx context.Context) {
	s.monitor.StopMonitoring(ctx)
}

func (s *homeServiceImpl) Clear(ctx context.Context) error {
	s.monitor.StopMonitoring(ctx)
	if err := s.homes.Delete(ctx); err != nil {
		return NewServiceError("home", "clear", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("home location cleared")
	return nil
}

func (s *homeServiceImpl) update(
	ctx context.Context,
	op string,
	apply func(home *domain.HomeLocation) error,
) (*domain.HomeLocation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	home, err := s.homes.Get(ctx)
	if err != nil {
		return nil, NewServiceError("home", op, err)
	}

	if err := apply(home); err != nil {
		log.Warn("invalid home update", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.homes.Save(ctx, home); err != nil {
		log.Error("failed to save home location",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, NewServiceError("home", op, err)
	}

	log.Info("home location updated", slog.String("operation", op))
	s.rearm(ctx, home)
	return home, nil
}

// rearm re-registers the geofence after an edit if it was armed. Failures
// surface through the monitor state.
func (s *homeServiceImpl) rearm(ctx context.Context, home *domain.HomeLocation) {
	if s.monitor.State() != location.StateArmed {
		return
	}
	if err := s.monitor.StartMonitoring(ctx, home); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to re-arm geofence after home edit",
			slog.String("error", err.Error()))
	}
}

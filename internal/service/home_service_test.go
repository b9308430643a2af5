package service_test

import (
	"context"
	"testing"

	"github.com/phrazzld/exitcheck/internal/config"
	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/events"
	"github.com/phrazzld/exitcheck/internal/location"
	"github.com/phrazzld/exitcheck/internal/mocks"
	"github.com/phrazzld/exitcheck/internal/platform/memory"
	"github.com/phrazzld/exitcheck/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type homeFixture struct {
	svc     service.HomeService
	loc     *mocks.MockLocationService
	monitor *location.Monitor
	mem     *memory.Store
}

func newHomeFixture(t *testing.T, status location.AuthorizationStatus) *homeFixture {
	t.Helper()
	loc := mocks.NewMockLocationService(status)
	bus := events.NewInMemoryEventEmitter(nil)
	monitor := location.NewMonitor(loc, location.NewPermissionGate(loc, bus, nil), bus, nil)
	mem := memory.New()
	return &homeFixture{
		svc:     service.NewHomeService(mem.HomeLocations(), monitor, config.HomeConfig{DefaultRadius: 150, DefaultName: "Flat"}, nil),
		loc:     loc,
		monitor: monitor,
		mem:     mem,
	}
}

func TestHomeService_NoHome(t *testing.T) {
	t.Parallel()
	f := newHomeFixture(t, location.AuthorizedAlways)
	ctx := context.Background()

	_, err := f.svc.Get(ctx)
	assert.ErrorIs(t, err, service.ErrNoHomeLocation)

	assert.ErrorIs(t, f.svc.StartMonitoring(ctx), service.ErrNoHomeLocation)
	assert.Equal(t, location.StateIdle, f.monitor.State())

	_, err = f.svc.UpdateRadius(ctx, 200)
	assert.ErrorIs(t, err, service.ErrNoHomeLocation)
}

func TestHomeService_SetHomeDefaults(t *testing.T) {
	t.Parallel()
	f := newHomeFixture(t, location.AuthorizedAlways)

	home, err := f.svc.SetHome(context.Background(), 52.1, 5.1, 0, "")
	require.NoError(t, err)

	assert.Equal(t, 150.0, home.Radius)
	assert.Equal(t, "Flat", home.Name)

	got, err := f.svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, home.ID, got.ID)
}

func TestHomeService_SetHomeValidation(t *testing.T) {
	t.Parallel()
	f := newHomeFixture(t, location.AuthorizedAlways)

	_, err := f.svc.SetHome(context.Background(), 91, 0, 100, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrInvalidLatitude)

	home, err := f.svc.SetHome(context.Background(), 0, 0, 10_000, "")
	require.NoError(t, err)
	assert.Equal(t, domain.MaxRadius, home.Radius)
}

func TestHomeService_SetHomeKeepsIdentity(t *testing.T) {
	t.Parallel()
	f := newHomeFixture(t, location.AuthorizedAlways)
	ctx := context.Background()

	first, err := f.svc.SetHome(ctx, 1, 1, 100, "")
	require.NoError(t, err)
	second, err := f.svc.SetHome(ctx, 2, 2, 100, "")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.RegionIdentifier(), second.RegionIdentifier())
	assert.Equal(t, 2.0, second.Latitude)
}

func TestHomeService_EditsRearmWhenArmed(t *testing.T) {
	t.Parallel()
	f := newHomeFixture(t, location.AuthorizedAlways)
	ctx := context.Background()

	_, err := f.svc.SetHome(ctx, 1, 1, 100, "")
	require.NoError(t, err)
	assert.Empty(t, f.loc.StartCalls(), "setting home does not arm by itself")

	require.NoError(t, f.svc.StartMonitoring(ctx))
	require.Len(t, f.loc.StartCalls(), 1)

	_, err = f.svc.UpdateRadius(ctx, 300)
	require.NoError(t, err)
	_, err = f.svc.UpdateCoordinate(ctx, 3, 4)
	require.NoError(t, err)

	regions := f.loc.MonitoredRegions()
	require.Len(t, regions, 1)
	assert.Equal(t, 300.0, regions[0].Radius)
	assert.Equal(t, 3.0, regions[0].Latitude)
	assert.Equal(t, 4.0, regions[0].Longitude)
	assert.Equal(t, location.StateArmed, f.monitor.State())
}

func TestHomeService_EditsDoNotArmWhenIdle(t *testing.T) {
	t.Parallel()
	f := newHomeFixture(t, location.AuthorizedAlways)
	ctx := context.Background()

	_, err := f.svc.SetHome(ctx, 1, 1, 100, "")
	require.NoError(t, err)
	_, err = f.svc.UpdateRadius(ctx, 300)
	require.NoError(t, err)

	assert.Empty(t, f.loc.StartCalls())
	assert.Equal(t, location.StateIdle, f.monitor.State())
}

func TestHomeService_StartWithoutAlways(t *testing.T) {
	t.Parallel()
	f := newHomeFixture(t, location.AuthorizedWhenInUse)
	ctx := context.Background()

	_, err := f.svc.SetHome(ctx, 1, 1, 100, "")
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.StartMonitoring(ctx), location.ErrAuthorizationInsufficient)
	assert.Equal(t, location.StateUnavailable, f.monitor.State())
}

func TestHomeService_UseCurrentLocation(t *testing.T) {
	t.Parallel()
	f := newHomeFixture(t, location.AuthorizedWhenInUse)
	ctx := context.Background()

	_, err := f.svc.UseCurrentLocation(ctx)
	assert.ErrorIs(t, err, service.ErrNoLocationFix)

	require.NoError(t, f.monitor.HandleSignal(ctx, location.Signal{
		Kind:     location.SignalLocationUpdated,
		Location: &location.Coordinate{Latitude: 10, Longitude: 20},
	}))

	home, err := f.svc.UseCurrentLocation(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10.0, home.Latitude)
	assert.Equal(t, 20.0, home.Longitude)
	assert.Equal(t, 150.0, home.Radius)

	require.NoError(t, f.monitor.HandleSignal(ctx, location.Signal{
		Kind:     location.SignalLocationUpdated,
		Location: &location.Coordinate{Latitude: 11, Longitude: 21},
	}))
	moved, err := f.svc.UseCurrentLocation(ctx)
	require.NoError(t, err)
	assert.Equal(t, home.ID, moved.ID)
	assert.Equal(t, 11.0, moved.Latitude)
}

func TestHomeService_Clear(t *testing.T) {
	t.Parallel()
	f := newHomeFixture(t, location.AuthorizedAlways)
	ctx := context.Background()

	_, err := f.svc.SetHome(ctx, 1, 1, 100, "")
	require.NoError(t, err)
	require.NoError(t, f.svc.StartMonitoring(ctx))

	require.NoError(t, f.svc.Clear(ctx))

	assert.Equal(t, location.StateIdle, f.monitor.State())
	assert.Empty(t, f.loc.MonitoredRegions())
	_, err = f.svc.Get(ctx)
	assert.ErrorIs(t, err, service.ErrNoHomeLocation)

	// Clearing twice is fine.
	require.NoError(t, f.svc.Clear(ctx))
}

package location

import (
	"context"
	"log/slog"

	"github.com/phrazzld/exitcheck/internal/events"
	"github.com/phrazzld/exitcheck/internal/platform/logger"
)

// PermissionGate tracks location authorization. Geofence monitoring is only
// allowed with Always authorization.
type PermissionGate struct {
	service Service
	emitter events.EventEmitter
	logger  *slog.Logger
	status  AuthorizationStatus
}

// NewPermissionGate creates a gate seeded with the service's current status.
func NewPermissionGate(service Service, emitter events.EventEmitter, logger *slog.Logger) *PermissionGate {
	if service == nil {
		panic("service cannot be nil")
	}
	if emitter == nil {
		panic("emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PermissionGate{
		service: service,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "permission_gate")),
		status:  service.AuthorizationStatus(),
	}
}

// Status returns the last known authorization.
func (g *PermissionGate) Status() AuthorizationStatus {
	return g.status
}

// HasAlwaysAuthorization reports whether background monitoring is allowed.
func (g *PermissionGate) HasAlwaysAuthorization() bool {
	return g.status == AuthorizedAlways
}

// HasAnyAuthorization reports whether any location access was granted.
func (g *PermissionGate) HasAnyAuthorization() bool {
	return g.status == AuthorizedAlways || g.status == AuthorizedWhenInUse
}

// RequestWhenInUse asks the platform for foreground access. The result is
// delivered later through HandleAuthorizationChanged.
func (g *PermissionGate) RequestWhenInUse(ctx context.Context) {
	logger.FromContextOrDefault(ctx, g.logger).Debug("requesting when-in-use authorization",
		slog.String("status", g.status.String()))
	g.service.RequestWhenInUseAuthorization()
}

// RequestAlways asks the platform for background access. The result is
// delivered later through HandleAuthorizationChanged.
func (g *PermissionGate) RequestAlways(ctx context.Context) {
	logger.FromContextOrDefault(ctx, g.logger).Debug("requesting always authorization",
		slog.String("status", g.status.String()))
	g.service.RequestAlwaysAuthorization()
}

// HandleAuthorizationChanged records a new status and publishes
// authorization.changed when it differs from the previous one.
func (g *PermissionGate) HandleAuthorizationChanged(ctx context.Context, status AuthorizationStatus) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	prev := g.status
	if prev == status {
		return
	}
	g.status = status

	log.Info("authorization changed",
		slog.String("from", prev.String()),
		slog.String("to", status.String()))

	payload := events.AuthorizationChangedPayload{From: prev.String(), To: status.String()}
	if err := events.Emit(ctx, g.emitter, events.TypeAuthorizationChanged, payload); err != nil {
		log.Error("failed to publish authorization change", slog.String("error", err.Error()))
	}
}

package api

import (
	"context"
	"net/http"

	"github.com/phrazzld/exitcheck/internal/api/shared"
	"github.com/phrazzld/exitcheck/internal/location"
)

// MonitorController drives the geofence monitor.
type MonitorController interface {
	MonitorStatus(ctx context.Context) (location.Status, location.AuthorizationStatus, error)
	StartMonitoring(ctx context.Context) error
	StopMonitoring(ctx context.Context) error
}

// MonitorHandler exposes the monitor state and arming.
type MonitorHandler struct {
	monitor MonitorController
}

// NewMonitorHandler creates a MonitorHandler.
func NewMonitorHandler(monitor MonitorController) *MonitorHandler {
	if monitor == nil {
		panic("monitor cannot be nil")
	}
	return &MonitorHandler{monitor: monitor}
}

// GetMonitor handles GET /api/monitor.
func (h *MonitorHandler) GetMonitor(w http.ResponseWriter, r *http.Request) {
	h.respondStatus(w, r)
}

// StartMonitoring handles POST /api/monitor/start.
func (h *MonitorHandler) StartMonitoring(w http.ResponseWriter, r *http.Request) {
	if err := h.monitor.StartMonitoring(r.Context()); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	h.respondStatus(w, r)
}

// StopMonitoring handles POST /api/monitor/stop.
func (h *MonitorHandler) StopMonitoring(w http.ResponseWriter, r *http.Request) {
	if err := h.monitor.StopMonitoring(r.Context()); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	h.respondStatus(w, r)
}

func (h *MonitorHandler) respondStatus(w http.ResponseWriter, r *http.Request) {
	st, auth, err := h.monitor.MonitorStatus(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, monitorToResponse(st, auth))
}

package api

import (
	"context"
	"net/http"

	"github.com/phrazzld/exitcheck/internal/api/shared"
	"github.com/phrazzld/exitcheck/internal/domain"
)

// HomeManager edits the home zone.
type HomeManager interface {
	Home(ctx context.Context) (*domain.HomeLocation, error)
	SetHome(ctx context.Context, latitude, longitude, radius float64, name string) (*domain.HomeLocation, error)
	ClearHome(ctx context.Context) error
}

// HomeHandler exposes the home zone.
type HomeHandler struct {
	homes HomeManager
}

// NewHomeHandler creates a HomeHandler.
func NewHomeHandler(homes HomeManager) *HomeHandler {
	if homes == nil {
		panic("homes cannot be nil")
	}
	return &HomeHandler{homes: homes}
}

// GetHome handles GET /api/home.
func (h *HomeHandler) GetHome(w http.ResponseWriter, r *http.Request) {
	home, err := h.homes.Home(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, home)
}

// SetHome handles PUT /api/home.
func (h *HomeHandler) SetHome(w http.ResponseWriter, r *http.Request) {
	var req SetHomeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	home, err := h.homes.SetHome(r.Context(), *req.Latitude, *req.Longitude, req.Radius, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, home)
}

// ClearHome handles DELETE /api/home.
func (h *HomeHandler) ClearHome(w http.ResponseWriter, r *http.Request) {
	if err := h.homes.ClearHome(r.Context()); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

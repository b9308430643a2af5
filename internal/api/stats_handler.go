package api

import (
	"context"
	"net/http"

	"github.com/phrazzld/exitcheck/internal/api/shared"
	"github.com/phrazzld/exitcheck/internal/service"
)

// StatsProvider computes the statistics view.
type StatsProvider interface {
	Stats(ctx context.Context) (*service.Summary, error)
}

// StatsHandler serves the statistics view.
type StatsHandler struct {
	stats StatsProvider
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(stats StatsProvider) *StatsHandler {
	if stats == nil {
		panic("stats cannot be nil")
	}
	return &StatsHandler{stats: stats}
}

// GetStats handles GET /api/stats.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	summary, err := h.stats.Stats(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute statistics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

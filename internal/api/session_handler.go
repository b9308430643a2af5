package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/exitcheck/internal/api/shared"
	"github.com/phrazzld/exitcheck/internal/platform/logger"
	"github.com/phrazzld/exitcheck/internal/service/exit_session"
)

// SessionController resolves the open exit session.
type SessionController interface {
	CurrentSession(ctx context.Context) (*exit_session.Session, bool, error)
	TriggerTestSession(ctx context.Context) (*exit_session.Session, error)
	ToggleItem(ctx context.Context, id uuid.UUID) (bool, error)
	CompleteSession(ctx context.Context) (*exit_session.CloseResult, error)
	RushSession(ctx context.Context) (*exit_session.CloseResult, error)
	DismissSession(ctx context.Context) error
}

// SessionHandler exposes the open exit session.
type SessionHandler struct {
	sessions SessionController
	logger   *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(sessions SessionController, logger *slog.Logger) *SessionHandler {
	if sessions == nil {
		panic("sessions cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		sessions: sessions,
		logger:   logger.With(slog.String("component", "session_handler")),
	}
}

// GetSession handles GET /api/session. No open session answers 204.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok, err := h.sessions.CurrentSession(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, s)
}

// TriggerTest handles POST /api/session/test.
func (h *SessionHandler) TriggerTest(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.TriggerTestSession(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to open exit session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, s)
}

// ToggleItem handles POST /api/session/items/{id}/toggle.
func (h *SessionHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid item ID")
		return
	}

	checked, err := h.sessions.ToggleItem(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ToggleItemResponse{ItemID: id.String(), Checked: checked})
}

// Complete handles POST /api/session/complete.
func (h *SessionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.close(w, r, h.sessions.CompleteSession)
}

// Rush handles POST /api/session/rush.
func (h *SessionHandler) Rush(w http.ResponseWriter, r *http.Request) {
	h.close(w, r, h.sessions.RushSession)
}

// Dismiss handles DELETE /api/session.
func (h *SessionHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.DismissSession(r.Context()); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) close(
	w http.ResponseWriter,
	r *http.Request,
	fn func(context.Context) (*exit_session.CloseResult, error),
) {
	res, err := fn(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Debug("exit session closed over HTTP",
		slog.String("event_id", res.Event.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, res)
}

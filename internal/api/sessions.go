package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bentsww/woodshop/internal/domain"
	"github.com/go-chi/chi/v5"
)

// saveSessionRequest is the body of POST /api/save-session.
type saveSessionRequest struct {
	UserID      string           `json:"userId"`
	SessionData []domain.Session `json:"sessionData"`
}

// HandleGetSession handles GET /api/get-session/{userID}.
func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		Error(w, http.StatusBadRequest, "userID is required")
		return
	}

	sessions, err := h.repo.GetSessions(r.Context(), userID)
	if err != nil {
		slog.Error("Failed to load sessions", "user_id", userID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to load sessions")
		return
	}

	JSON(w, http.StatusOK, sessions)
}

// HandleSaveSession handles POST /api/save-session. The save replaces the
// user's whole session list; callers treat it as fire-and-forget.
func (h *Handler) HandleSaveSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req saveSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		Error(w, http.StatusBadRequest, "userId is required")
		return
	}
	if req.SessionData == nil {
		req.SessionData = []domain.Session{}
	}

	if err := h.repo.SaveSessions(r.Context(), req.UserID, req.SessionData); err != nil {
		slog.Error("Failed to save sessions", "user_id", req.UserID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to save sessions")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bentsww/woodshop/internal/domain"
	"github.com/bentsww/woodshop/internal/proxy"
)

// HandleChat handles POST /api/chat requests by relaying them to the
// inference backend. Upstream failures come back as an error envelope with
// the normalized status, never as an unhandled fault.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		Error(w, http.StatusBadRequest, "message is required")
		return
	}
	if req.ChatHistory == nil {
		req.ChatHistory = []string{}
	}

	slog.Info("Chat request",
		"selected_index", req.SelectedIndex,
		"message_length", len(req.Message),
		"history_length", len(req.ChatHistory),
	)

	resp, err := h.relay.Relay(r.Context(), req)
	if err != nil {
		var relayErr *proxy.RelayError
		if errors.As(err, &relayErr) {
			if relayErr.Status == http.StatusBadRequest {
				Error(w, http.StatusBadRequest, relayErr.Message)
				return
			}
			JSON(w, relayErr.Status, map[string]string{
				"error":   "Failed to process chat request",
				"message": relayErr.Message,
				"details": relayErr.Details,
			})
			return
		}
		slog.Error("Chat relay failed", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to process chat request")
		return
	}

	JSON(w, http.StatusOK, resp)
}

// Package ws provides a WebSocket relay channel for chat. Each connection
// processes chat frames sequentially, so one connection has at most one
// relay in flight.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bentsww/woodshop/internal/domain"
	"github.com/bentsww/woodshop/internal/proxy"
	"github.com/coder/websocket"
)

// Handler handles WebSocket-based chat relays.
type Handler struct {
	relay         *proxy.Client
	allowedOrigin string
	isDev         bool
}

// NewHandler creates a new WebSocket chat handler.
func NewHandler(relay *proxy.Client, allowedOrigin string, isDev bool) *Handler {
	return &Handler{
		relay:         relay,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "chat ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr)
		}
	}()

	ctx := r.Context()
	slog.Info("WebSocket chat connection opened", "ip", r.RemoteAddr)

	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			// Normal closure and client disconnects end the loop quietly.
			if websocket.CloseStatus(err) != -1 || errors.Is(err, context.Canceled) {
				return
			}
			slog.Debug("WebSocket read error", "error", err)
			return
		}

		var req domain.ChatRequest
		if err := json.Unmarshal(data, &req); err != nil {
			h.writeJSON(ctx, ws, map[string]string{"error": "invalid chat frame"})
			continue
		}
		if strings.TrimSpace(req.Message) == "" {
			h.writeJSON(ctx, ws, map[string]string{"error": "message is required"})
			continue
		}
		if req.ChatHistory == nil {
			req.ChatHistory = []string{}
		}

		resp, err := h.relay.Relay(ctx, req)
		if err != nil {
			var relayErr *proxy.RelayError
			if errors.As(err, &relayErr) {
				h.writeJSON(ctx, ws, map[string]string{"error": relayErr.Message})
				continue
			}
			h.writeJSON(ctx, ws, map[string]string{"error": "Failed to process chat request"})
			continue
		}

		h.writeJSON(ctx, ws, resp)
	}
}

func (h *Handler) writeJSON(ctx context.Context, ws *websocket.Conn, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("failed to marshal websocket payload", "error", err)
		return
	}
	if err := ws.Write(ctx, websocket.MessageText, data); err != nil {
		slog.Debug("WebSocket write error", "error", err)
	}
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.isDev || h.allowedOrigin == "" {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || origin == h.allowedOrigin
}

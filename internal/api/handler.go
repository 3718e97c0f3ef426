// Package api provides HTTP handlers for the woodshop API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/bentsww/woodshop/internal/proxy"
	"github.com/bentsww/woodshop/internal/store"
	"github.com/go-chi/chi/v5"
)

// maxRequestBodySize is the maximum allowed request body size (1MB).
const maxRequestBodySize = 1 << 20

// questionCount is how many prompt suggestions the empty state shows.
const questionCount = 6

// Handler serves the chat proxy, session, question, and product routes.
type Handler struct {
	repo  store.Repository
	relay *proxy.Client
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, relay *proxy.Client) *Handler {
	return &Handler{
		repo:  repo,
		relay: relay,
	}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", h.HandleChat)
		r.Get("/get-session/{userID}", h.HandleGetSession)
		r.Post("/save-session", h.HandleSaveSession)
		r.Get("/random-questions", h.HandleRandomQuestions)
		r.Get("/products", h.HandleProducts)
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/bentsww/woodshop/internal/domain"
	"github.com/bentsww/woodshop/internal/store"
)

// questionItem is one prompt suggestion in the random-questions response.
type questionItem struct {
	QuestionText string `json:"question_text"`
}

// HandleRandomQuestions handles GET /api/random-questions.
func (h *Handler) HandleRandomQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.repo.RandomQuestions(r.Context(), questionCount)
	if err != nil {
		slog.Error("Failed to load random questions", "error", err)
		Error(w, http.StatusInternalServerError, "failed to load questions")
		return
	}

	items := make([]questionItem, 0, len(questions))
	for _, q := range questions {
		items = append(items, questionItem{QuestionText: q})
	}
	JSON(w, http.StatusOK, items)
}

// HandleProducts handles GET /api/products?sort=<default|video>. The video
// sort returns products grouped under every tag except each product's last.
func (h *Handler) HandleProducts(w http.ResponseWriter, r *http.Request) {
	sort := store.ParseProductSort(r.URL.Query().Get("sort"))

	products, err := h.repo.ListProducts(r.Context(), sort)
	if err != nil {
		slog.Error("Failed to load products", "error", err)
		JSON(w, http.StatusInternalServerError, map[string]string{
			"message": "Server error",
			"error":   err.Error(),
		})
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	if sort == store.SortVideo {
		JSON(w, http.StatusOK, map[string]interface{}{
			"groupedProducts": domain.GroupProducts(products),
			"sortOption":      string(sort),
		})
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"products":   products,
		"sortOption": string(sort),
	})
}

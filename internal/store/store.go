// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/bentsww/woodshop/internal/domain"
)

// ProductSort selects the ordering of a product listing.
type ProductSort string

const (
	// SortDefault returns products in insertion order.
	SortDefault ProductSort = "default"
	// SortVideo orders products by their tag column for per-video grouping.
	SortVideo ProductSort = "video"
)

// ParseProductSort normalizes a raw sort query value.
func ParseProductSort(s string) ProductSort {
	if ProductSort(s) == SortVideo {
		return SortVideo
	}
	return SortDefault
}

// Repository defines the interface for persisting chat sessions and the
// product catalog.
type Repository interface {
	// GetSessions retrieves the full session list for a user. A user with no
	// stored sessions gets an empty list, not an error.
	GetSessions(ctx context.Context, userID string) ([]domain.Session, error)

	// SaveSessions replaces the user's stored session list with the given
	// one. Whole-list last-write-wins.
	SaveSessions(ctx context.Context, userID string, sessions []domain.Session) error

	// RandomQuestions returns up to n suggested prompts in random order.
	RandomQuestions(ctx context.Context, n int) ([]string, error)

	// ListProducts returns the product catalog in the given sort order.
	ListProducts(ctx context.Context, sort ProductSort) ([]domain.Product, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}

package repositories

import (
	"context"

	"github.com/storeatlas/store-directory/backend/internal/domain/entities"
)

// ReviewRepository defines the interface for review data operations. Reviews
// are append-only; there is no update or delete.
type ReviewRepository interface {
	// Create inserts a review
	Create(ctx context.Context, review *entities.Review) error

	// ListByStore retrieves all reviews for a store, newest first
	ListByStore(ctx context.Context, storeID string) ([]*entities.Review, error)
}

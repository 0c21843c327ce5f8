package repositories

import (
	"context"

	"github.com/storeatlas/store-directory/backend/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// ToggleHeart flips the store's membership in the user's hearts set as a
	// single atomic read-modify-write and returns the updated user
	ToggleHeart(ctx context.Context, userID, storeID string) (*entities.User, error)
}

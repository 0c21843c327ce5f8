package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/storeatlas/store-directory/backend/internal/domain/entities"
	"github.com/storeatlas/store-directory/backend/internal/domain/repositories"
	"github.com/storeatlas/store-directory/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/storeatlas/store-directory/backend/pkg/errors"
)

// UserAdapter implements the UserRepository interface. Credential columns are
// owned by the auth service; only the profile and hearts set are touched here.
type UserAdapter struct {
	client *postgres.Client
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{client: client}
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	user := &entities.User{}
	err := a.client.DB().QueryRowContext(ctx, `
		SELECT id, name, email, hearts, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		pq.Array(&user.Hearts),
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to get user", err)
	}

	return user, nil
}

// ToggleHeart flips the store's membership in the user's hearts set. The
// whole read-modify-write happens inside one UPDATE so concurrent toggles on
// the same user serialize at the row level; array_append only fires when the
// id is absent, so the set never holds duplicates.
func (a *UserAdapter) ToggleHeart(ctx context.Context, userID, storeID string) (*entities.User, error) {
	user := &entities.User{}
	err := a.client.DB().QueryRowContext(ctx, `
		UPDATE users
		SET hearts = CASE
				WHEN $2 = ANY(hearts) THEN array_remove(hearts, $2)
				ELSE array_append(hearts, $2)
			END,
			updated_at = now()
		WHERE id = $1
		RETURNING id, name, email, hearts, created_at, updated_at
	`, userID, storeID).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		pq.Array(&user.Hearts),
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", userID))
	}
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to toggle heart", err)
	}

	return user, nil
}

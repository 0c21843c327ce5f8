package database_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/storeatlas/store-directory/backend/internal/adapters/database"
	"github.com/storeatlas/store-directory/backend/internal/domain/repositories"
	"github.com/storeatlas/store-directory/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/storeatlas/store-directory/backend/pkg/errors"
)

func setupUserAdapter(t *testing.T) (repositories.UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return database.NewUserAdapter(postgres.NewClientWithDB(db)), mock
}

func userRows(hearts string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "email", "hearts", "created_at", "updated_at"}).
		AddRow("u1", "Ada", "ada@example.com", []byte(hearts), now, now)
}

func TestUserAdapter_GetByID(t *testing.T) {
	adapter, mock := setupUserAdapter(t)

	mock.ExpectQuery(`SELECT id, name, email, hearts, created_at, updated_at`).
		WithArgs("u1").
		WillReturnRows(userRows("{s1,s2}"))

	user, err := adapter.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, user.Hearts)
	assert.True(t, user.HasHearted("s1"))
	assert.False(t, user.HasHearted("s3"))
}

func TestUserAdapter_ToggleHeart(t *testing.T) {
	t.Run("adds a heart", func(t *testing.T) {
		adapter, mock := setupUserAdapter(t)

		mock.ExpectQuery(`UPDATE users`).
			WithArgs("u1", "s1").
			WillReturnRows(userRows("{s1}"))

		user, err := adapter.ToggleHeart(context.Background(), "u1", "s1")
		require.NoError(t, err)
		assert.True(t, user.HasHearted("s1"))
	})

	t.Run("removes a heart", func(t *testing.T) {
		adapter, mock := setupUserAdapter(t)

		mock.ExpectQuery(`UPDATE users`).
			WithArgs("u1", "s1").
			WillReturnRows(userRows("{}"))

		user, err := adapter.ToggleHeart(context.Background(), "u1", "s1")
		require.NoError(t, err)
		assert.False(t, user.HasHearted("s1"))
		assert.Empty(t, user.Hearts)
	})

	t.Run("unknown user", func(t *testing.T) {
		adapter, mock := setupUserAdapter(t)

		mock.ExpectQuery(`UPDATE users`).
			WithArgs("ghost", "s1").
			WillReturnError(sql.ErrNoRows)

		user, err := adapter.ToggleHeart(context.Background(), "ghost", "s1")
		require.Error(t, err)
		assert.Nil(t, user)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})
}

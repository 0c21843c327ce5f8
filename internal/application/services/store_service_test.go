package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/storeatlas/store-directory/backend/internal/domain/entities"
	apperrors "github.com/storeatlas/store-directory/backend/pkg/errors"
)

func newStoreService() (*StoreService, *stubStoreRepo, *stubReviewRepo, *stubSearchRepo) {
	storeRepo := &stubStoreRepo{}
	reviewRepo := &stubReviewRepo{}
	searchRepo := &stubSearchRepo{}
	return NewStoreService(storeRepo, reviewRepo, searchRepo), storeRepo, reviewRepo, searchRepo
}

func validCreateInput(name string) CreateStoreInput {
	lng, lat := 4.3, 52.1
	return CreateStoreInput{
		Name:      name,
		Address:   "1 Main St",
		Longitude: &lng,
		Latitude:  &lat,
		AuthorID:  "u1",
	}
}

func TestStoreService_Create_SlugSequence(t *testing.T) {
	service, _, _, _ := newStoreService()
	ctx := context.Background()

	// Same display name three times: base, base-2, base-3
	first, err := service.Create(ctx, validCreateInput("Coffee Corner"))
	require.NoError(t, err)
	assert.Equal(t, "coffee-corner", first.Slug)

	second, err := service.Create(ctx, validCreateInput("Coffee Corner"))
	require.NoError(t, err)
	assert.Equal(t, "coffee-corner-2", second.Slug)

	third, err := service.Create(ctx, validCreateInput("Coffee Corner"))
	require.NoError(t, err)
	assert.Equal(t, "coffee-corner-3", third.Slug)
}

func TestStoreService_Create_SuffixedNameDoesNotCollide(t *testing.T) {
	service, _, _, _ := newStoreService()
	ctx := context.Background()

	_, err := service.Create(ctx, validCreateInput("Coffee"))
	require.NoError(t, err)

	// "Coffee Bar" slugs to coffee-bar, which the coffee pattern must not match
	store, err := service.Create(ctx, validCreateInput("Coffee Bar"))
	require.NoError(t, err)
	assert.Equal(t, "coffee-bar", store.Slug)
}

func TestStoreService_Create_SanitizesBeforeSlug(t *testing.T) {
	service, _, _, _ := newStoreService()

	input := validCreateInput("Nice<script>alert(1)</script> Cup")
	input.Description = "<b>great</b> beans"

	store, err := service.Create(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "Nice Cup", store.Name)
	assert.Equal(t, "nice-cup", store.Slug)
	assert.Equal(t, "great beans", store.Description)
}

func TestStoreService_Create_Validation(t *testing.T) {
	service, _, _, _ := newStoreService()
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateStoreInput
	}{
		{name: "missing name", input: func() CreateStoreInput {
			in := validCreateInput("")
			return in
		}()},
		{name: "name empty after sanitizing", input: validCreateInput("<script>x()</script>")},
		{name: "missing address", input: func() CreateStoreInput {
			in := validCreateInput("Coffee Corner")
			in.Address = ""
			return in
		}()},
		{name: "missing coordinates", input: func() CreateStoreInput {
			in := validCreateInput("Coffee Corner")
			in.Longitude = nil
			return in
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := service.Create(ctx, tt.input)
			require.Error(t, err)
			assert.Nil(t, store)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		})
	}
}

func TestStoreService_Create_IndexesStore(t *testing.T) {
	service, _, _, searchRepo := newStoreService()

	store, err := service.Create(context.Background(), validCreateInput("Coffee Corner"))
	require.NoError(t, err)

	require.Len(t, searchRepo.indexed, 1)
	assert.Equal(t, store.ID, searchRepo.indexed[0].ID)
}

func TestStoreService_Update_OwnershipGuard(t *testing.T) {
	service, _, _, _ := newStoreService()
	ctx := context.Background()

	store, err := service.Create(ctx, validCreateInput("Coffee Corner"))
	require.NoError(t, err)

	name := "Stolen Corner"
	updated, err := service.Update(ctx, store.ID, "intruder", UpdateStoreInput{Name: &name})
	require.Error(t, err)
	assert.Nil(t, updated)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotOwner))

	// The owner is allowed through
	updated, err = service.Update(ctx, store.ID, "u1", UpdateStoreInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Stolen Corner", updated.Name)
}

func TestStoreService_Update_SlugStableWhenNameUnchanged(t *testing.T) {
	service, _, _, _ := newStoreService()
	ctx := context.Background()

	store, err := service.Create(ctx, validCreateInput("Coffee Corner"))
	require.NoError(t, err)

	desc := "now with oat milk"
	updated, err := service.Update(ctx, store.ID, "u1", UpdateStoreInput{Description: &desc})
	require.NoError(t, err)

	assert.Equal(t, "coffee-corner", updated.Slug)
	assert.Equal(t, "now with oat milk", updated.Description)
}

func TestStoreService_Update_SlugRecomputedOnRename(t *testing.T) {
	service, _, _, _ := newStoreService()
	ctx := context.Background()

	store, err := service.Create(ctx, validCreateInput("Coffee Corner"))
	require.NoError(t, err)

	name := "Tea House"
	updated, err := service.Update(ctx, store.ID, "u1", UpdateStoreInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "tea-house", updated.Slug)
}

func TestStoreService_Update_SanitizesEveryField(t *testing.T) {
	service, _, _, _ := newStoreService()
	ctx := context.Background()

	store, err := service.Create(ctx, validCreateInput("Coffee Corner"))
	require.NoError(t, err)

	desc := "fresh<script>alert(1)</script> roast"
	updated, err := service.Update(ctx, store.ID, "u1", UpdateStoreInput{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "fresh roast", updated.Description)
}

func TestStoreService_GetBySlugWithReviews(t *testing.T) {
	service, _, reviewRepo, _ := newStoreService()
	ctx := context.Background()

	store, err := service.Create(ctx, validCreateInput("Coffee Corner"))
	require.NoError(t, err)

	require.NoError(t, reviewRepo.Create(ctx, &entities.Review{
		ID: "r1", StoreID: store.ID, AuthorID: "u2", Text: "good", Rating: 4,
	}))

	result, err := service.GetBySlugWithReviews(ctx, "coffee-corner")
	require.NoError(t, err)
	assert.Equal(t, store.ID, result.Store.ID)
	require.Len(t, result.Reviews, 1)
	assert.Equal(t, "r1", result.Reviews[0].ID)

	_, err = service.GetBySlugWithReviews(ctx, "no-such-slug")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

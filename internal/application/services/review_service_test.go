package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/storeatlas/store-directory/backend/internal/domain/entities"
	apperrors "github.com/storeatlas/store-directory/backend/pkg/errors"
)

func newReviewService() (*ReviewService, *stubReviewRepo) {
	reviewRepo := &stubReviewRepo{}
	storeRepo := &stubStoreRepo{stores: []*entities.Store{
		{ID: "s1", Name: "Coffee Corner", Slug: "coffee-corner", AuthorID: "u9"},
	}}
	return NewReviewService(reviewRepo, storeRepo), reviewRepo
}

func TestReviewService_Add(t *testing.T) {
	service, reviewRepo := newReviewService()

	review, err := service.Add(context.Background(), AddReviewInput{
		StoreID:  "s1",
		AuthorID: "u1",
		Text:     "  great <b>espresso</b>  ",
		Rating:   5,
	})
	require.NoError(t, err)

	assert.Equal(t, "great espresso", review.Text)
	assert.Equal(t, 5, review.Rating)
	assert.NotEmpty(t, review.ID)
	require.Len(t, reviewRepo.reviews, 1)
}

func TestReviewService_Add_Validation(t *testing.T) {
	service, _ := newReviewService()
	ctx := context.Background()

	tests := []struct {
		name  string
		input AddReviewInput
	}{
		{name: "rating too low", input: AddReviewInput{StoreID: "s1", AuthorID: "u1", Text: "ok", Rating: 0}},
		{name: "rating too high", input: AddReviewInput{StoreID: "s1", AuthorID: "u1", Text: "ok", Rating: 6}},
		{name: "empty text", input: AddReviewInput{StoreID: "s1", AuthorID: "u1", Text: "  ", Rating: 3}},
		{name: "missing author", input: AddReviewInput{StoreID: "s1", Text: "ok", Rating: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review, err := service.Add(ctx, tt.input)
			require.Error(t, err)
			assert.Nil(t, review)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		})
	}
}

func TestReviewService_Add_UnknownStore(t *testing.T) {
	service, _ := newReviewService()

	review, err := service.Add(context.Background(), AddReviewInput{
		StoreID:  "missing",
		AuthorID: "u1",
		Text:     "ok",
		Rating:   3,
	})
	require.Error(t, err)
	assert.Nil(t, review)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

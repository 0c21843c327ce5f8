package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/storeatlas/store-directory/backend/internal/domain/entities"
	"github.com/storeatlas/store-directory/backend/internal/domain/providers"
	"github.com/storeatlas/store-directory/backend/internal/domain/repositories"
	apperrors "github.com/storeatlas/store-directory/backend/pkg/errors"
	"github.com/storeatlas/store-directory/backend/pkg/sanitize"
)

// ReviewService appends reviews to stores. Reviews are immutable once
// written; there is no edit or delete path.
type ReviewService struct {
	repo      repositories.ReviewRepository
	storeRepo repositories.StoreRepository
	eventBus  providers.EventBus
}

// NewReviewService creates a new review service
func NewReviewService(repo repositories.ReviewRepository, storeRepo repositories.StoreRepository) *ReviewService {
	return &ReviewService{
		repo:      repo,
		storeRepo: storeRepo,
	}
}

// SetEventBus enables change notifications
func (s *ReviewService) SetEventBus(eventBus providers.EventBus) {
	s.eventBus = eventBus
}

// AddReviewInput carries the fields of a new review.
type AddReviewInput struct {
	StoreID  string
	AuthorID string
	Text     string
	Rating   int
}

// Add validates and persists a review against an existing store.
func (s *ReviewService) Add(ctx context.Context, input AddReviewInput) (*entities.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}
	text := sanitize.Text(input.Text)
	if text == "" {
		return nil, apperrors.NewValidationError("your review must have text")
	}
	if input.AuthorID == "" {
		return nil, apperrors.NewValidationError("you must supply an author")
	}

	store, err := s.storeRepo.GetByID(ctx, input.StoreID)
	if err != nil {
		return nil, err
	}

	review := &entities.Review{
		ID:        uuid.NewString(),
		AuthorID:  input.AuthorID,
		StoreID:   store.ID,
		Text:      text,
		Rating:    input.Rating,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		event := entities.NewStoreEvent(store.ID, entities.StoreEventTypeReviewed, map[string]interface{}{
			"review_id": review.ID,
			"rating":    review.Rating,
		})
		if err := s.eventBus.Publish(ctx, providers.EventChannelStoreUpdates, event); err != nil {
			log.Warn().Err(err).Str("store_id", store.ID).Msg("failed to publish review event")
		}
	}

	return review, nil
}

// ListByStore retrieves all reviews for a store, newest first.
func (s *ReviewService) ListByStore(ctx context.Context, storeID string) ([]*entities.Review, error) {
	return s.repo.ListByStore(ctx, storeID)
}

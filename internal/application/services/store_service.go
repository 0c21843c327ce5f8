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
	"github.com/storeatlas/store-directory/backend/pkg/slugify"
)

// StoreService handles the store write path. Every create and update runs the
// same explicit pipeline: validate, sanitize free text, then derive the slug.
// Sanitize always runs before the slug-uniqueness check so the slug is
// computed from the persisted form of the name.
type StoreService struct {
	repo       repositories.StoreRepository
	reviewRepo repositories.ReviewRepository
	searchRepo repositories.StoreSearchRepository
	eventBus   providers.EventBus
}

// NewStoreService creates a new store service
func NewStoreService(
	repo repositories.StoreRepository,
	reviewRepo repositories.ReviewRepository,
	searchRepo repositories.StoreSearchRepository,
) *StoreService {
	return &StoreService{
		repo:       repo,
		reviewRepo: reviewRepo,
		searchRepo: searchRepo,
	}
}

// SetEventBus enables change notifications
func (s *StoreService) SetEventBus(eventBus providers.EventBus) {
	s.eventBus = eventBus
}

// CreateStoreInput carries validated request fields for store creation. The
// photo filename, when present, was produced by the upload pipeline before
// this call.
type CreateStoreInput struct {
	Name        string
	Description string
	Tags        []string
	Address     string
	Longitude   *float64
	Latitude    *float64
	Photo       string
	AuthorID    string
}

// UpdateStoreInput carries the fields of a store edit; nil pointers leave the
// stored value untouched.
type UpdateStoreInput struct {
	Name        *string
	Description *string
	Tags        []string
	Address     *string
	Longitude   *float64
	Latitude    *float64
	Photo       *string
}

// AssertOwner fails with a NotOwner error unless the store belongs to the
// user. Pure precondition check, no side effects.
func AssertOwner(store *entities.Store, userID string) error {
	if store.AuthorID != userID {
		return apperrors.NewNotOwnerError("you must own the store to edit it")
	}
	return nil
}

// Create validates, sanitizes and persists a new store, then indexes it.
//
// The slug-match count and the insert are deliberately not transactional:
// two concurrent creations with the same name can both observe the same
// count and collide. That matches the original behavior and is accepted
// rather than papered over with locking.
func (s *StoreService) Create(ctx context.Context, input CreateStoreInput) (*entities.Store, error) {
	name := sanitize.Text(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("please enter a store name")
	}
	address := sanitize.Text(input.Address)
	if address == "" {
		return nil, apperrors.NewValidationError("you must supply an address")
	}
	if input.Longitude == nil || input.Latitude == nil {
		return nil, apperrors.NewValidationError("you must supply coordinates")
	}
	if input.AuthorID == "" {
		return nil, apperrors.NewValidationError("you must supply an author")
	}

	slug, err := s.deriveSlug(ctx, name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	store := &entities.Store{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slug,
		Description: sanitize.Text(input.Description),
		Tags:        input.Tags,
		Address:     address,
		Location: entities.Location{
			Latitude:  *input.Latitude,
			Longitude: *input.Longitude,
		},
		Photo:     input.Photo,
		AuthorID:  input.AuthorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, store); err != nil {
		return nil, err
	}

	s.index(ctx, store)
	s.publish(ctx, store.ID, entities.StoreEventTypeCreated, map[string]interface{}{"slug": store.Slug})

	return store, nil
}

// Update applies an edit to an owned store. Free-text fields are sanitized on
// every update regardless of which fields changed; the slug is recomputed
// only when the name actually changed.
func (s *StoreService) Update(ctx context.Context, id, userID string, input UpdateStoreInput) (*entities.Store, error) {
	store, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := AssertOwner(store, userID); err != nil {
		return nil, err
	}

	nameChanged := false
	if input.Name != nil {
		name := sanitize.Text(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("please enter a store name")
		}
		if name != store.Name {
			nameChanged = true
		}
		store.Name = name
	}
	if input.Description != nil {
		store.Description = *input.Description
	}
	if input.Tags != nil {
		store.Tags = input.Tags
	}
	if input.Address != nil {
		address := sanitize.Text(*input.Address)
		if address == "" {
			return nil, apperrors.NewValidationError("you must supply an address")
		}
		store.Address = address
	}
	if input.Longitude != nil {
		store.Location.Longitude = *input.Longitude
	}
	if input.Latitude != nil {
		store.Location.Latitude = *input.Latitude
	}
	if input.Photo != nil {
		store.Photo = *input.Photo
	}

	// Blanket sanitize: every free-text field passes through on every
	// update, not just the ones the caller touched.
	store.Name = sanitize.Text(store.Name)
	store.Description = sanitize.Text(store.Description)
	store.Address = sanitize.Text(store.Address)

	if nameChanged {
		slug, err := s.deriveSlug(ctx, store.Name)
		if err != nil {
			return nil, err
		}
		store.Slug = slug
	}

	if err := s.repo.Update(ctx, store); err != nil {
		return nil, err
	}

	s.index(ctx, store)
	s.publish(ctx, store.ID, entities.StoreEventTypeUpdated, map[string]interface{}{"slug": store.Slug})

	return store, nil
}

// GetByID retrieves a store by ID
func (s *StoreService) GetByID(ctx context.Context, id string) (*entities.Store, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBySlug retrieves a store by slug, without its reviews
func (s *StoreService) GetBySlug(ctx context.Context, slug string) (*entities.Store, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// GetBySlugWithReviews retrieves a store and joins its reviews explicitly.
// Callers that do not need reviews use GetBySlug; nothing is auto-populated.
func (s *StoreService) GetBySlugWithReviews(ctx context.Context, slug string) (*entities.StoreWithReviews, error) {
	store, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}

	return &entities.StoreWithReviews{Store: store, Reviews: reviews}, nil
}

// deriveSlug computes the unique slug for a sanitized name: the base
// transform, suffixed when existing slugs already use the base.
func (s *StoreService) deriveSlug(ctx context.Context, name string) (string, error) {
	base := slugify.Base(name)
	matches, err := s.repo.CountSlugMatches(ctx, base)
	if err != nil {
		return "", err
	}
	return slugify.Next(base, matches), nil
}

// index updates the search index, best effort (eventual consistency)
func (s *StoreService) index(ctx context.Context, store *entities.Store) {
	if s.searchRepo == nil {
		return
	}
	if err := s.searchRepo.Index(ctx, store); err != nil {
		log.Warn().Err(err).Str("store_id", store.ID).Msg("failed to index store")
	}
}

func (s *StoreService) publish(ctx context.Context, storeID string, eventType entities.StoreEventType, fields map[string]interface{}) {
	if s.eventBus == nil {
		return
	}
	event := entities.NewStoreEvent(storeID, eventType, fields)
	if err := s.eventBus.Publish(ctx, providers.EventChannelStoreUpdates, event); err != nil {
		log.Warn().Err(err).Str("store_id", storeID).Msg("failed to publish store event")
	}
}

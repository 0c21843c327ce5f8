package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/storeatlas/store-directory/backend/internal/domain/entities"
	"github.com/storeatlas/store-directory/backend/internal/domain/providers"
	"github.com/storeatlas/store-directory/backend/internal/domain/repositories"
)

// HeartService toggles a store's membership in a user's hearts set. The flip
// is a single atomic statement in the repository, so two rapid toggles never
// produce duplicate entries.
type HeartService struct {
	userRepo  repositories.UserRepository
	storeRepo repositories.StoreRepository
	eventBus  providers.EventBus
}

// NewHeartService creates a new heart service
func NewHeartService(userRepo repositories.UserRepository, storeRepo repositories.StoreRepository) *HeartService {
	return &HeartService{
		userRepo:  userRepo,
		storeRepo: storeRepo,
	}
}

// SetEventBus enables change notifications
func (s *HeartService) SetEventBus(eventBus providers.EventBus) {
	s.eventBus = eventBus
}

// Toggle flips whether the user has hearted the store and returns the user's
// updated hearts list. The store must exist; the toggle itself is idempotent
// in pairs, two toggles restore the original state.
func (s *HeartService) Toggle(ctx context.Context, userID, storeID string) (*entities.User, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.ToggleHeart(ctx, userID, store.ID)
	if err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		event := entities.NewStoreEvent(store.ID, entities.StoreEventTypeHearted, map[string]interface{}{
			"user_id": userID,
			"hearted": user.HasHearted(store.ID),
		})
		if err := s.eventBus.Publish(ctx, providers.EventChannelStoreUpdates, event); err != nil {
			log.Warn().Err(err).Str("store_id", store.ID).Msg("failed to publish heart event")
		}
	}

	return user, nil
}

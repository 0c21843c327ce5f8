package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/storeatlas/store-directory/backend/internal/domain/entities"
	"github.com/storeatlas/store-directory/backend/internal/domain/providers"
	"github.com/storeatlas/store-directory/backend/internal/domain/repositories"
)

// CachedStoreAdapter wraps a StoreRepository with read-through caching for
// the hot read paths (store detail pages and the two catalog aggregates).
// Writes pass through and invalidate.
type CachedStoreAdapter struct {
	adapter repositories.StoreRepository
	cache   providers.CacheProvider
}

// NewCachedStoreAdapter creates a new cached store adapter
func NewCachedStoreAdapter(adapter repositories.StoreRepository, cache providers.CacheProvider) repositories.StoreRepository {
	return &CachedStoreAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	storeTTL     = 300 // 5 minutes for a single store
	aggregateTTL = 120 // 2 minutes for tag/top-store aggregates
)

func storeCacheKey(id string) string {
	return fmt.Sprintf("store:%s", id)
}

func storeSlugCacheKey(slug string) string {
	return fmt.Sprintf("store:slug:%s", slug)
}

const (
	tagCountsCacheKey = "stores:tags"
	topRatedCacheKey  = "stores:top"
)

// GetByID retrieves a store by ID with caching
func (a *CachedStoreAdapter) GetByID(ctx context.Context, id string) (*entities.Store, error) {
	cacheKey := storeCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var store entities.Store
		if err := json.Unmarshal(cached, &store); err == nil {
			return &store, nil
		}
		log.Warn().Err(err).Str("store_id", id).Msg("failed to unmarshal cached store")
	}

	store, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.cacheAsync(cacheKey, store, storeTTL)
	return store, nil
}

// GetBySlug retrieves a store by slug with caching
func (a *CachedStoreAdapter) GetBySlug(ctx context.Context, slug string) (*entities.Store, error) {
	cacheKey := storeSlugCacheKey(slug)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var store entities.Store
		if err := json.Unmarshal(cached, &store); err == nil {
			return &store, nil
		}
		log.Warn().Err(err).Str("slug", slug).Msg("failed to unmarshal cached store")
	}

	store, err := a.adapter.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	a.cacheAsync(cacheKey, store, storeTTL)
	return store, nil
}

// TagCounts returns the tag aggregate with caching
func (a *CachedStoreAdapter) TagCounts(ctx context.Context) ([]*entities.TagCount, error) {
	if cached, err := a.cache.Get(ctx, tagCountsCacheKey); err == nil {
		var counts []*entities.TagCount
		if err := json.Unmarshal(cached, &counts); err == nil {
			return counts, nil
		}
	}

	counts, err := a.adapter.TagCounts(ctx)
	if err != nil {
		return nil, err
	}

	a.cacheAsync(tagCountsCacheKey, counts, aggregateTTL)
	return counts, nil
}

// TopRated returns the top-store aggregate with caching
func (a *CachedStoreAdapter) TopRated(ctx context.Context, minReviews, limit int) ([]*entities.TopStore, error) {
	if cached, err := a.cache.Get(ctx, topRatedCacheKey); err == nil {
		var stores []*entities.TopStore
		if err := json.Unmarshal(cached, &stores); err == nil {
			return stores, nil
		}
	}

	stores, err := a.adapter.TopRated(ctx, minReviews, limit)
	if err != nil {
		return nil, err
	}

	a.cacheAsync(topRatedCacheKey, stores, aggregateTTL)
	return stores, nil
}

// Create creates a store and invalidates aggregate caches
func (a *CachedStoreAdapter) Create(ctx context.Context, store *entities.Store) error {
	if err := a.adapter.Create(ctx, store); err != nil {
		return err
	}
	a.invalidateAsync("", "")
	return nil
}

// Update updates a store and invalidates its caches
func (a *CachedStoreAdapter) Update(ctx context.Context, store *entities.Store) error {
	if err := a.adapter.Update(ctx, store); err != nil {
		return err
	}
	a.invalidateAsync(store.ID, store.Slug)
	return nil
}

// GetByIDs passes through; heart lists are per-user and change often
func (a *CachedStoreAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Store, error) {
	return a.adapter.GetByIDs(ctx, ids)
}

// List passes through; paginated listings stay fresh
func (a *CachedStoreAdapter) List(ctx context.Context, filter repositories.StoreFilter) ([]*entities.Store, error) {
	return a.adapter.List(ctx, filter)
}

// Count passes through
func (a *CachedStoreAdapter) Count(ctx context.Context) (int, error) {
	return a.adapter.Count(ctx)
}

// CountSlugMatches passes through: the slug count must see the freshest
// state the store can offer, a stale count widens the collision window
func (a *CachedStoreAdapter) CountSlugMatches(ctx context.Context, base string) (int, error) {
	return a.adapter.CountSlugMatches(ctx, base)
}

func (a *CachedStoreAdapter) cacheAsync(key string, value interface{}, ttl int) {
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(value); err == nil {
			if err := a.cache.Set(bgCtx, key, data, ttl); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("failed to cache value")
			}
		}
	}()
}

func (a *CachedStoreAdapter) invalidateAsync(id, slug string) {
	go func() {
		bgCtx := context.Background()
		if id != "" {
			if err := a.cache.Delete(bgCtx, storeCacheKey(id)); err != nil {
				log.Warn().Err(err).Str("store_id", id).Msg("failed to invalidate store cache")
			}
		}
		if slug != "" {
			if err := a.cache.Delete(bgCtx, storeSlugCacheKey(slug)); err != nil {
				log.Warn().Err(err).Str("slug", slug).Msg("failed to invalidate store cache")
			}
		}
		if err := a.cache.DeletePattern(bgCtx, "stores:*"); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate aggregate caches")
		}
	}()
}

package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/storeatlas/store-directory/backend/internal/domain/entities"
	"github.com/storeatlas/store-directory/backend/internal/domain/repositories"
	apperrors "github.com/storeatlas/store-directory/backend/pkg/errors"
	"github.com/storeatlas/store-directory/backend/pkg/slugify"
)

// In-memory repository stubs backing the service tests.

type stubStoreRepo struct {
	stores []*entities.Store
}

func (r *stubStoreRepo) Create(ctx context.Context, store *entities.Store) error {
	copied := *store
	r.stores = append(r.stores, &copied)
	return nil
}

func (r *stubStoreRepo) GetByID(ctx context.Context, id string) (*entities.Store, error) {
	for _, s := range r.stores {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("store with id %s not found", id))
}

func (r *stubStoreRepo) GetBySlug(ctx context.Context, slug string) (*entities.Store, error) {
	for _, s := range r.stores {
		if s.Slug == slug {
			copied := *s
			return &copied, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("store with slug %s not found", slug))
}

func (r *stubStoreRepo) GetByIDs(ctx context.Context, ids []string) ([]*entities.Store, error) {
	found := []*entities.Store{}
	for _, id := range ids {
		for _, s := range r.stores {
			if s.ID == id {
				copied := *s
				found = append(found, &copied)
			}
		}
	}
	return found, nil
}

func (r *stubStoreRepo) Update(ctx context.Context, store *entities.Store) error {
	for i, s := range r.stores {
		if s.ID == store.ID {
			copied := *store
			r.stores[i] = &copied
			return nil
		}
	}
	return apperrors.NewNotFoundError(fmt.Sprintf("store with id %s not found", store.ID))
}

func (r *stubStoreRepo) List(ctx context.Context, filter repositories.StoreFilter) ([]*entities.Store, error) {
	matched := []*entities.Store{}
	for _, s := range r.stores {
		if filter.Tag != "" && !contains(s.Tags, filter.Tag) {
			continue
		}
		matched = append(matched, s)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []*entities.Store{}, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (r *stubStoreRepo) Count(ctx context.Context) (int, error) {
	return len(r.stores), nil
}

func (r *stubStoreRepo) CountSlugMatches(ctx context.Context, base string) (int, error) {
	pattern := slugify.Pattern(base)
	count := 0
	for _, s := range r.stores {
		if pattern.MatchString(s.Slug) {
			count++
		}
	}
	return count, nil
}

func (r *stubStoreRepo) TagCounts(ctx context.Context) ([]*entities.TagCount, error) {
	counts := map[string]int{}
	for _, s := range r.stores {
		for _, tag := range s.Tags {
			counts[tag]++
		}
	}
	result := []*entities.TagCount{}
	for tag, count := range counts {
		result = append(result, &entities.TagCount{Tag: tag, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Tag < result[j].Tag
	})
	return result, nil
}

func (r *stubStoreRepo) TopRated(ctx context.Context, minReviews, limit int) ([]*entities.TopStore, error) {
	return nil, nil
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

// topRatedRecorder captures the arguments the catalog passes down.
type topRatedRecorder struct {
	stubStoreRepo
	minReviews int
	limit      int
	result     []*entities.TopStore
}

func (r *topRatedRecorder) TopRated(ctx context.Context, minReviews, limit int) ([]*entities.TopStore, error) {
	r.minReviews = minReviews
	r.limit = limit
	return r.result, nil
}

type stubReviewRepo struct {
	reviews []*entities.Review
}

func (r *stubReviewRepo) Create(ctx context.Context, review *entities.Review) error {
	copied := *review
	r.reviews = append(r.reviews, &copied)
	return nil
}

func (r *stubReviewRepo) ListByStore(ctx context.Context, storeID string) ([]*entities.Review, error) {
	matched := []*entities.Review{}
	for _, rev := range r.reviews {
		if rev.StoreID == storeID {
			matched = append(matched, rev)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

type stubUserRepo struct {
	users map[string]*entities.User
}

func (r *stubUserRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
	}
	copied := *user
	return &copied, nil
}

func (r *stubUserRepo) ToggleHeart(ctx context.Context, userID, storeID string) (*entities.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", userID))
	}

	hearts := []string{}
	removed := false
	for _, h := range user.Hearts {
		if h == storeID {
			removed = true
			continue
		}
		hearts = append(hearts, h)
	}
	if !removed {
		hearts = append(hearts, storeID)
	}
	user.Hearts = hearts

	copied := *user
	return &copied, nil
}

// stubSearchRepo records index writes and search calls.
type stubSearchRepo struct {
	indexed      []*entities.Store
	lastQuery    string
	lastLat      float64
	lastLng      float64
	lastRadius   float64
	lastLimit    int
	searchResult []*entities.StoreHit
}

func (r *stubSearchRepo) Index(ctx context.Context, store *entities.Store) error {
	copied := *store
	r.indexed = append(r.indexed, &copied)
	return nil
}

func (r *stubSearchRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func (r *stubSearchRepo) SearchText(ctx context.Context, query string, limit int) ([]*entities.StoreHit, error) {
	r.lastQuery = query
	r.lastLimit = limit
	return r.searchResult, nil
}

func (r *stubSearchRepo) SearchNearby(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]*entities.StoreHit, error) {
	r.lastLat = lat
	r.lastLng = lng
	r.lastRadius = radiusMeters
	r.lastLimit = limit
	return r.searchResult, nil
}

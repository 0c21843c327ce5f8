package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/storeatlas/store-directory/backend/internal/api/handlers"
	"github.com/storeatlas/store-directory/backend/internal/api/routes"
	"github.com/storeatlas/store-directory/backend/internal/application/services"
	"github.com/storeatlas/store-directory/backend/internal/domain/entities"
	"github.com/storeatlas/store-directory/backend/internal/domain/repositories"
	apperrors "github.com/storeatlas/store-directory/backend/pkg/errors"
	"github.com/storeatlas/store-directory/backend/pkg/slugify"
)

// fakeStoreRepo is an in-memory StoreRepository for handler tests.
type fakeStoreRepo struct {
	stores []*entities.Store
}

func (r *fakeStoreRepo) Create(ctx context.Context, store *entities.Store) error {
	copied := *store
	r.stores = append(r.stores, &copied)
	return nil
}

func (r *fakeStoreRepo) GetByID(ctx context.Context, id string) (*entities.Store, error) {
	for _, s := range r.stores {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("store with id %s not found", id))
}

func (r *fakeStoreRepo) GetBySlug(ctx context.Context, slug string) (*entities.Store, error) {
	for _, s := range r.stores {
		if s.Slug == slug {
			copied := *s
			return &copied, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("store with slug %s not found", slug))
}

func (r *fakeStoreRepo) GetByIDs(ctx context.Context, ids []string) ([]*entities.Store, error) {
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

func (r *fakeStoreRepo) Update(ctx context.Context, store *entities.Store) error {
	for i, s := range r.stores {
		if s.ID == store.ID {
			copied := *store
			r.stores[i] = &copied
			return nil
		}
	}
	return apperrors.NewNotFoundError(fmt.Sprintf("store with id %s not found", store.ID))
}

func (r *fakeStoreRepo) List(ctx context.Context, filter repositories.StoreFilter) ([]*entities.Store, error) {
	matched := []*entities.Store{}
	for _, s := range r.stores {
		if filter.Tag != "" && !hasTag(s.Tags, filter.Tag) {
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

func (r *fakeStoreRepo) Count(ctx context.Context) (int, error) {
	return len(r.stores), nil
}

func (r *fakeStoreRepo) CountSlugMatches(ctx context.Context, base string) (int, error) {
	pattern := slugify.Pattern(base)
	count := 0
	for _, s := range r.stores {
		if pattern.MatchString(s.Slug) {
			count++
		}
	}
	return count, nil
}

func (r *fakeStoreRepo) TagCounts(ctx context.Context) ([]*entities.TagCount, error) {
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

func (r *fakeStoreRepo) TopRated(ctx context.Context, minReviews, limit int) ([]*entities.TopStore, error) {
	return []*entities.TopStore{}, nil
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

type fakeReviewRepo struct {
	reviews []*entities.Review
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *entities.Review) error {
	copied := *review
	r.reviews = append(r.reviews, &copied)
	return nil
}

func (r *fakeReviewRepo) ListByStore(ctx context.Context, storeID string) ([]*entities.Review, error) {
	matched := []*entities.Review{}
	for _, rev := range r.reviews {
		if rev.StoreID == storeID {
			matched = append(matched, rev)
		}
	}
	return matched, nil
}

type fakeUserRepo struct {
	users map[string]*entities.User
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) ToggleHeart(ctx context.Context, userID, storeID string) (*entities.User, error) {
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

type fakeSearchRepo struct {
	hits []*entities.StoreHit
}

func (r *fakeSearchRepo) Index(ctx context.Context, store *entities.Store) error { return nil }
func (r *fakeSearchRepo) Delete(ctx context.Context, id string) error            { return nil }

func (r *fakeSearchRepo) SearchText(ctx context.Context, query string, limit int) ([]*entities.StoreHit, error) {
	return r.hits, nil
}

func (r *fakeSearchRepo) SearchNearby(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]*entities.StoreHit, error) {
	return r.hits, nil
}

// testEnv wires real services over the fakes and exposes the assembled
// HTTP handler, so tests exercise routing and middleware too.
type testEnv struct {
	handler   http.Handler
	storeRepo *fakeStoreRepo
	userRepo  *fakeUserRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	storeRepo := &fakeStoreRepo{}
	reviewRepo := &fakeReviewRepo{}
	userRepo := &fakeUserRepo{users: map[string]*entities.User{
		"u1": {ID: "u1", Name: "Ada"},
	}}
	searchRepo := &fakeSearchRepo{}

	storeService := services.NewStoreService(storeRepo, reviewRepo, searchRepo)
	catalogService := services.NewCatalogService(storeRepo, userRepo)
	searchService := services.NewSearchService(searchRepo)
	heartService := services.NewHeartService(userRepo, storeRepo)
	reviewService := services.NewReviewService(reviewRepo, storeRepo)

	router := routes.NewRouter(
		handlers.NewStoreHandler(storeService, catalogService),
		handlers.NewSearchHandler(searchService),
		handlers.NewTagHandler(catalogService),
		handlers.NewHeartHandler(heartService),
		handlers.NewReviewHandler(reviewService),
		nil,
	)

	return &testEnv{
		handler:   router.SetupRoutes(),
		storeRepo: storeRepo,
		userRepo:  userRepo,
	}
}

func (e *testEnv) seedStores(n int) {
	base := time.Now()
	for i := 0; i < n; i++ {
		e.storeRepo.stores = append(e.storeRepo.stores, &entities.Store{
			ID:        fmt.Sprintf("s%d", i+1),
			Name:      fmt.Sprintf("Store %d", i+1),
			Slug:      fmt.Sprintf("store-%d", i+1),
			Tags:      []string{"coffee"},
			AuthorID:  "u1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
}

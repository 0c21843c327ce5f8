package services

import (
	"context"

	"github.com/storeatlas/store-directory/backend/internal/domain/entities"
	"github.com/storeatlas/store-directory/backend/internal/domain/repositories"
	apperrors "github.com/storeatlas/store-directory/backend/pkg/errors"
)

const (
	// pageSize is the fixed number of stores per catalog page.
	pageSize = 4

	// topStoresMinReviews is the review-count threshold for the top-rated
	// list. One review is not a trend.
	topStoresMinReviews = 2

	// topStoresLimit caps the top-rated list.
	topStoresLimit = 10
)

// CatalogService serves the read-side listings: paginated store pages, the
// tag-frequency aggregate, the top-rated list and per-user heart listings.
type CatalogService struct {
	repo     repositories.StoreRepository
	userRepo repositories.UserRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo repositories.StoreRepository, userRepo repositories.UserRepository) *CatalogService {
	return &CatalogService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// StorePage is one page of the paginated catalog. When the requested page
// overflows the collection, RedirectTo names the last page that exists and
// Stores is empty.
type StorePage struct {
	Stores     []*entities.Store `json:"stores"`
	Page       int               `json:"page"`
	Pages      int               `json:"pages"`
	Total      int               `json:"total"`
	RedirectTo int               `json:"-"`
}

// Page returns the requested catalog page, newest stores first. Pages are
// 1-based; page 0 or below is treated as page 1. A page past the end of a
// non-empty collection redirects to the final page instead of 404ing, so
// stale bookmarks keep working after stores are removed.
func (s *CatalogService) Page(ctx context.Context, page int) (*StorePage, error) {
	if page < 1 {
		page = 1
	}
	skip := (page - 1) * pageSize

	stores, err := s.repo.List(ctx, repositories.StoreFilter{Limit: pageSize, Offset: skip})
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	pages := (total + pageSize - 1) / pageSize

	if len(stores) == 0 && skip > 0 && total > 0 {
		return &StorePage{Page: page, Pages: pages, Total: total, RedirectTo: pages}, nil
	}

	return &StorePage{Stores: stores, Page: page, Pages: pages, Total: total}, nil
}

// TagCounts returns every distinct tag with its usage count, most used first.
// A store listing a tag twice counts twice; the aggregate unrolls tag arrays
// without deduplicating within a store.
func (s *CatalogService) TagCounts(ctx context.Context) ([]*entities.TagCount, error) {
	return s.repo.TagCounts(ctx)
}

// StoresByTag returns all stores carrying the tag, newest first.
func (s *CatalogService) StoresByTag(ctx context.Context, tag string) ([]*entities.Store, error) {
	if tag == "" {
		return nil, apperrors.NewInvalidQueryError("tag must not be empty")
	}
	return s.repo.List(ctx, repositories.StoreFilter{Tag: tag})
}

// TopStores returns the highest-rated stores that have at least two reviews,
// ranked by mean rating descending, at most ten rows.
func (s *CatalogService) TopStores(ctx context.Context) ([]*entities.TopStore, error) {
	return s.repo.TopRated(ctx, topStoresMinReviews, topStoresLimit)
}

// HeartedStores returns the stores the user has hearted. Dangling heart
// references (stores deleted after being hearted) are silently dropped by
// the ID lookup.
func (s *CatalogService) HeartedStores(ctx context.Context, userID string) ([]*entities.Store, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(user.Hearts) == 0 {
		return []*entities.Store{}, nil
	}

	return s.repo.GetByIDs(ctx, user.Hearts)
}

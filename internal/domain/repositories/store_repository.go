package repositories

import (
	"context"

	"github.com/storeatlas/store-directory/backend/internal/domain/entities"
)

// StoreRepository defines the interface for store data operations
type StoreRepository interface {
	// Create creates a new store
	Create(ctx context.Context, store *entities.Store) error

	// GetByID retrieves a store by ID
	GetByID(ctx context.Context, id string) (*entities.Store, error)

	// GetBySlug retrieves a store by its slug
	GetBySlug(ctx context.Context, slug string) (*entities.Store, error)

	// GetByIDs retrieves multiple stores by their IDs
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Store, error)

	// Update updates a store
	Update(ctx context.Context, store *entities.Store) error

	// List retrieves stores with filters, newest first
	List(ctx context.Context, filter StoreFilter) ([]*entities.Store, error)

	// Count returns the total number of stores
	Count(ctx context.Context) (int, error)

	// CountSlugMatches counts stores whose slug is the given base or the base
	// with a numeric suffix, case-insensitively
	CountSlugMatches(ctx context.Context, base string) (int, error)

	// TagCounts returns the tag-frequency aggregate, most frequent first
	TagCounts(ctx context.Context) ([]*entities.TagCount, error)

	// TopRated returns stores with at least minReviews reviews ranked by mean
	// rating descending, at most limit rows
	TopRated(ctx context.Context, minReviews, limit int) ([]*entities.TopStore, error)
}

// StoreSearchRepository defines the interface for store search operations
// (text relevance and proximity, e.g. Typesense)
type StoreSearchRepository interface {
	// Index upserts a store into the search index
	Index(ctx context.Context, store *entities.Store) error

	// Delete removes a store from the index
	Delete(ctx context.Context, id string) error

	// SearchText runs a relevance-ranked full-text query over name and
	// description
	SearchText(ctx context.Context, query string, limit int) ([]*entities.StoreHit, error)

	// SearchNearby returns stores within radiusMeters of the point, nearest
	// first, at most limit rows
	SearchNearby(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]*entities.StoreHit, error)
}

// StoreFilter defines filters for listing stores
type StoreFilter struct {
	Tag    string
	Limit  int
	Offset int
}

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"github.com/storeatlas/store-directory/backend/internal/domain/entities"
	"github.com/storeatlas/store-directory/backend/internal/domain/repositories"
	"github.com/storeatlas/store-directory/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/storeatlas/store-directory/backend/pkg/errors"
	"github.com/storeatlas/store-directory/backend/pkg/slugify"
)

var storeColumns = []interface{}{
	"id", "name", "slug", "description", "tags", "address",
	"latitude", "longitude", "photo", "author_id", "created_at", "updated_at",
}

// StoreAdapter implements the StoreRepository interface
type StoreAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewStoreAdapter creates a new store adapter
func NewStoreAdapter(client *postgres.Client) repositories.StoreRepository {
	return &StoreAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new store
func (a *StoreAdapter) Create(ctx context.Context, store *entities.Store) error {
	query, args, err := a.db.Insert("stores").Rows(goqu.Record{
		"id":          store.ID,
		"name":        store.Name,
		"slug":        store.Slug,
		"description": store.Description,
		"tags":        pq.Array(store.Tags),
		"address":     store.Address,
		"latitude":    store.Location.Latitude,
		"longitude":   store.Location.Longitude,
		"photo":       store.Photo,
		"author_id":   store.AuthorID,
		"created_at":  store.CreatedAt,
		"updated_at":  store.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build store insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewUnavailableError("failed to create store", err)
	}

	return nil
}

// GetByID retrieves a store by ID
func (a *StoreAdapter) GetByID(ctx context.Context, id string) (*entities.Store, error) {
	return a.getOne(ctx, goqu.Ex{"id": id}, fmt.Sprintf("store with id %s not found", id))
}

// GetBySlug retrieves a store by its slug
func (a *StoreAdapter) GetBySlug(ctx context.Context, slug string) (*entities.Store, error) {
	return a.getOne(ctx, goqu.Ex{"slug": slug}, fmt.Sprintf("store with slug %s not found", slug))
}

func (a *StoreAdapter) getOne(ctx context.Context, where goqu.Ex, notFoundMsg string) (*entities.Store, error) {
	query, args, err := a.db.From("stores").Select(storeColumns...).Where(where).Limit(1).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build store select query", err)
	}

	store := &entities.Store{}
	err = scanStore(a.client.DB().QueryRowContext(ctx, query, args...), store)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(notFoundMsg)
	}
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to get store", err)
	}

	return store, nil
}

// GetByIDs retrieves multiple stores by their IDs
func (a *StoreAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Store, error) {
	if len(ids) == 0 {
		return []*entities.Store{}, nil
	}

	query, args, err := a.db.From("stores").Select(storeColumns...).
		Where(goqu.L("id = ANY(?)", pq.Array(ids))).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build store select query", err)
	}

	return a.queryStores(ctx, query, args...)
}

// Update updates a store
func (a *StoreAdapter) Update(ctx context.Context, store *entities.Store) error {
	store.UpdatedAt = time.Now()

	query, args, err := a.db.Update("stores").Set(goqu.Record{
		"name":        store.Name,
		"slug":        store.Slug,
		"description": store.Description,
		"tags":        pq.Array(store.Tags),
		"address":     store.Address,
		"latitude":    store.Location.Latitude,
		"longitude":   store.Location.Longitude,
		"photo":       store.Photo,
		"updated_at":  store.UpdatedAt,
	}).Where(goqu.Ex{"id": store.ID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build store update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewUnavailableError("failed to update store", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("store with id %s not found", store.ID))
	}

	return nil
}

// List retrieves stores with filters, newest first
func (a *StoreAdapter) List(ctx context.Context, filter repositories.StoreFilter) ([]*entities.Store, error) {
	ds := a.db.From("stores").Select(storeColumns...)

	if filter.Tag != "" {
		ds = ds.Where(goqu.L("? = ANY(tags)", filter.Tag))
	}

	ds = ds.Order(goqu.I("created_at").Desc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build store list query", err)
	}

	return a.queryStores(ctx, query, args...)
}

// Count returns the total number of stores
func (a *StoreAdapter) Count(ctx context.Context) (int, error) {
	var count int
	err := a.client.DB().QueryRowContext(ctx, `SELECT count(*) FROM stores`).Scan(&count)
	if err != nil {
		return 0, apperrors.NewUnavailableError("failed to count stores", err)
	}
	return count, nil
}

// CountSlugMatches counts stores whose slug is the base or the base with a
// numeric suffix, case-insensitively. The count feeds slug suffix selection;
// it is not transactional with the subsequent insert (accepted race).
func (a *StoreAdapter) CountSlugMatches(ctx context.Context, base string) (int, error) {
	var count int
	err := a.client.DB().QueryRowContext(ctx,
		`SELECT count(*) FROM stores WHERE slug ~* $1`,
		slugify.MatchExpr(base),
	).Scan(&count)
	if err != nil {
		return 0, apperrors.NewUnavailableError("failed to count slug matches", err)
	}
	return count, nil
}

// TagCounts returns the tag-frequency aggregate, most frequent first. A tag
// repeated inside one store's list counts once per occurrence, matching
// unnest semantics.
func (a *StoreAdapter) TagCounts(ctx context.Context) ([]*entities.TagCount, error) {
	rows, err := a.client.DB().QueryContext(ctx, `
		SELECT unnest(tags) AS tag, count(*) AS count
		FROM stores
		GROUP BY tag
		ORDER BY count DESC, tag ASC
	`)
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to aggregate tags", err)
	}
	defer rows.Close()

	counts := []*entities.TagCount{}
	for rows.Next() {
		tc := &entities.TagCount{}
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan tag count", err)
		}
		counts = append(counts, tc)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewUnavailableError("error iterating tag counts", err)
	}

	return counts, nil
}

// TopRated returns stores with at least minReviews reviews ranked by mean
// rating descending. Ordering between stores with equal means is whatever the
// database yields; callers must not rely on it.
func (a *StoreAdapter) TopRated(ctx context.Context, minReviews, limit int) ([]*entities.TopStore, error) {
	rows, err := a.client.DB().QueryContext(ctx, `
		SELECT s.id, s.name, s.slug, s.photo,
			avg(r.rating) AS average_rating,
			count(r.id) AS review_count
		FROM stores s
		JOIN reviews r ON r.store_id = s.id
		GROUP BY s.id, s.name, s.slug, s.photo
		HAVING count(r.id) >= $1
		ORDER BY average_rating DESC
		LIMIT $2
	`, minReviews, limit)
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to aggregate top stores", err)
	}
	defer rows.Close()

	stores := []*entities.TopStore{}
	for rows.Next() {
		ts := &entities.TopStore{}
		if err := rows.Scan(&ts.ID, &ts.Name, &ts.Slug, &ts.Photo, &ts.AverageRating, &ts.ReviewCount); err != nil {
			return nil, apperrors.NewInternalError("failed to scan top store", err)
		}
		stores = append(stores, ts)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewUnavailableError("error iterating top stores", err)
	}

	return stores, nil
}

func (a *StoreAdapter) queryStores(ctx context.Context, query string, args ...interface{}) ([]*entities.Store, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to list stores", err)
	}
	defer rows.Close()

	stores := []*entities.Store{}
	for rows.Next() {
		store := &entities.Store{}
		if err := scanStore(rows, store); err != nil {
			return nil, apperrors.NewInternalError("failed to scan store", err)
		}
		stores = append(stores, store)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewUnavailableError("error iterating stores", err)
	}

	return stores, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStore(row rowScanner, store *entities.Store) error {
	return row.Scan(
		&store.ID,
		&store.Name,
		&store.Slug,
		&store.Description,
		pq.Array(&store.Tags),
		&store.Address,
		&store.Location.Latitude,
		&store.Location.Longitude,
		&store.Photo,
		&store.AuthorID,
		&store.CreatedAt,
		&store.UpdatedAt,
	)
}

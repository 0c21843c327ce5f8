package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/storeatlas/store-directory/backend/internal/domain/entities"
	"github.com/storeatlas/store-directory/backend/internal/domain/repositories"
	tsclient "github.com/storeatlas/store-directory/backend/internal/infrastructure/clients/typesense"
	apperrors "github.com/storeatlas/store-directory/backend/pkg/errors"
)

const collectionName = tsclient.StoresCollection

// TypesenseAdapter implements store search using Typesense: relevance-ranked
// text queries over name and description, and radius-bounded proximity
// queries over the location geopoint.
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements StoreSearchRepository
var _ repositories.StoreSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the stores collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "slug", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "description", Type: "string"},
			{Name: "tags", Type: "string[]", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "location", Type: "geopoint"},
			{Name: "photo", Type: "string", Optional: pointer.True()},
			{Name: "author_id", Type: "string"},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}

	if _, err := a.client.Client().Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// Index upserts a store into the search index
func (a *TypesenseAdapter) Index(ctx context.Context, store *entities.Store) error {
	document := map[string]interface{}{
		"id":          store.ID,
		"slug":        store.Slug,
		"name":        store.Name,
		"description": store.Description,
		"tags":        store.Tags,
		"location":    []float64{store.Location.Latitude, store.Location.Longitude},
		"photo":       store.Photo,
		"author_id":   store.AuthorID,
		"created_at":  store.CreatedAt.Unix(),
	}

	if _, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document); err != nil {
		return fmt.Errorf("failed to index store: %w", err)
	}

	return nil
}

// Delete removes a store from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	if _, err := a.client.Client().Collection(collectionName).Document(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete store from index: %w", err)
	}
	return nil
}

// SearchText runs a relevance-ranked full-text query over name and
// description. Results carry the text-match score and sort by it descending.
func (a *TypesenseAdapter) SearchText(ctx context.Context, query string, limit int) ([]*entities.StoreHit, error) {
	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("name,description"),
		SortBy:  pointer.String("_text_match:desc"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to search stores", err)
	}

	return hitsFromResult(result), nil
}

// SearchNearby returns stores within radiusMeters of the point, nearest
// first, projected to the reduced hit field set.
func (a *TypesenseAdapter) SearchNearby(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]*entities.StoreHit, error) {
	searchParams := &api.SearchCollectionParams{
		Q:             pointer.String("*"),
		QueryBy:       pointer.String("name"),
		FilterBy:      pointer.String(fmt.Sprintf("location:(%f, %f, %f km)", lat, lng, radiusMeters/1000)),
		SortBy:        pointer.String(fmt.Sprintf("location(%f, %f):asc", lat, lng)),
		IncludeFields: pointer.String("id,slug,name,description,location,photo"),
		PerPage:       pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to search stores near point", err)
	}

	return hitsFromResult(result), nil
}

func hitsFromResult(result *api.SearchResult) []*entities.StoreHit {
	hits := []*entities.StoreHit{}
	if result.Hits == nil {
		return hits
	}

	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		doc := *hit.Document

		storeHit := &entities.StoreHit{}
		if v, ok := doc["id"].(string); ok {
			storeHit.ID = v
		}
		if v, ok := doc["slug"].(string); ok {
			storeHit.Slug = v
		}
		if v, ok := doc["name"].(string); ok {
			storeHit.Name = v
		}
		if v, ok := doc["description"].(string); ok {
			storeHit.Description = v
		}
		if v, ok := doc["photo"].(string); ok {
			storeHit.Photo = v
		}

		// Typesense returns geopoints as [lat, lng]
		if loc, ok := doc["location"].([]interface{}); ok && len(loc) == 2 {
			if lat, ok := loc[0].(float64); ok {
				storeHit.Location.Latitude = lat
			}
			if lng, ok := loc[1].(float64); ok {
				storeHit.Location.Longitude = lng
			}
		}

		if hit.TextMatch != nil {
			storeHit.Score = float64(*hit.TextMatch)
		}

		hits = append(hits, storeHit)
	}

	return hits
}

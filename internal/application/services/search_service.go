package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/storeatlas/store-directory/backend/internal/domain/entities"
	"github.com/storeatlas/store-directory/backend/internal/domain/repositories"
	"github.com/storeatlas/store-directory/backend/internal/infrastructure/observability"
	apperrors "github.com/storeatlas/store-directory/backend/pkg/errors"
)

const (
	// nearbyRadiusMeters bounds proximity queries to a fixed 10 km radius.
	nearbyRadiusMeters = 10000

	// nearbyLimit caps proximity results.
	nearbyLimit = 10

	// textSearchLimit caps text-query results.
	textSearchLimit = 25
)

// SearchService fronts the search index with query validation. Malformed
// queries fail fast with an InvalidQuery error before the index is touched.
type SearchService struct {
	searchRepo repositories.StoreSearchRepository
	metrics    *observability.Metrics
}

// NewSearchService creates a new search service
func NewSearchService(searchRepo repositories.StoreSearchRepository) *SearchService {
	return &SearchService{searchRepo: searchRepo}
}

// SetMetrics enables search latency metrics
func (s *SearchService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// Text runs a relevance-ranked full-text query over store names and
// descriptions. A blank query is rejected, not treated as match-all.
func (s *SearchService) Text(ctx context.Context, query string) ([]*entities.StoreHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewInvalidQueryError("search query must not be empty")
	}

	start := time.Now()
	hits, err := s.searchRepo.SearchText(ctx, query, textSearchLimit)
	s.recordSearch(ctx, "text", time.Since(start))
	if err != nil {
		return nil, err
	}

	return hits, nil
}

// Nearby returns stores within 10 km of the point, nearest first. Both
// coordinates must be present, finite and within geographic range.
func (s *SearchService) Nearby(ctx context.Context, lat, lng float64) ([]*entities.StoreHit, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		return nil, err
	}

	start := time.Now()
	hits, err := s.searchRepo.SearchNearby(ctx, lat, lng, nearbyRadiusMeters, nearbyLimit)
	s.recordSearch(ctx, "nearby", time.Since(start))
	if err != nil {
		return nil, err
	}

	return hits, nil
}

func (s *SearchService) recordSearch(ctx context.Context, kind string, duration time.Duration) {
	if s.metrics == nil {
		return
	}
	observability.RecordSearchMetric(ctx, s.metrics, kind, duration)
}

func validateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return apperrors.NewInvalidQueryError("coordinates must be finite numbers")
	}
	if lat < -90 || lat > 90 {
		return apperrors.NewInvalidQueryError("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return apperrors.NewInvalidQueryError("longitude must be between -180 and 180")
	}
	return nil
}

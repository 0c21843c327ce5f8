package routes

import (
	"net/http"

	"github.com/storeatlas/store-directory/backend/internal/api/handlers"
	"github.com/storeatlas/store-directory/backend/internal/api/middleware"
	"github.com/storeatlas/store-directory/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	storeHandler  *handlers.StoreHandler
	searchHandler *handlers.SearchHandler
	tagHandler    *handlers.TagHandler
	heartHandler  *handlers.HeartHandler
	reviewHandler *handlers.ReviewHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	storeHandler *handlers.StoreHandler,
	searchHandler *handlers.SearchHandler,
	tagHandler *handlers.TagHandler,
	heartHandler *handlers.HeartHandler,
	reviewHandler *handlers.ReviewHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:           http.NewServeMux(),
		storeHandler:  storeHandler,
		searchHandler: searchHandler,
		tagHandler:    tagHandler,
		heartHandler:  heartHandler,
		reviewHandler: reviewHandler,
		metrics:       metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Store endpoints. Literal segments win over the {slug} wildcard, so
	// search/top/near/hearted stay reachable.
	r.mux.HandleFunc("GET /api/stores", r.storeHandler.ListStores)
	r.mux.HandleFunc("GET /api/stores/search", r.searchHandler.SearchStores)
	r.mux.HandleFunc("GET /api/stores/near", r.searchHandler.NearbyStores)
	r.mux.HandleFunc("GET /api/stores/top", r.storeHandler.TopStores)
	r.mux.HandleFunc("GET /api/stores/hearted", r.storeHandler.HeartedStores)
	r.mux.HandleFunc("GET /api/stores/{slug}", r.storeHandler.GetStore)

	r.mux.HandleFunc("POST /api/stores", r.storeHandler.CreateStore)
	r.mux.HandleFunc("PATCH /api/stores/{id}", r.storeHandler.UpdateStore)

	// Heart endpoint
	r.mux.HandleFunc("POST /api/stores/{id}/heart", r.heartHandler.ToggleHeart)

	// Review endpoints
	r.mux.HandleFunc("POST /api/stores/{id}/reviews", r.reviewHandler.AddReview)
	r.mux.HandleFunc("GET /api/stores/{id}/reviews", r.reviewHandler.ListReviews)

	// Tag endpoints
	r.mux.HandleFunc("GET /api/tags", r.tagHandler.ListTags)
	r.mux.HandleFunc("GET /api/tags/{tag}", r.tagHandler.StoresByTag)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so error responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.IdentityMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)

	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}

	// HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	handler = middleware.CORSMiddleware(handler)

	return handler
}

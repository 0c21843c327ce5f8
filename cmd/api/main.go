package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/storeatlas/store-directory/backend/internal/adapters/cache"
	"github.com/storeatlas/store-directory/backend/internal/domain/entities"
	"github.com/storeatlas/store-directory/backend/internal/adapters/database"
	"github.com/storeatlas/store-directory/backend/internal/adapters/events"
	"github.com/storeatlas/store-directory/backend/internal/adapters/search"
	"github.com/storeatlas/store-directory/backend/internal/api/handlers"
	"github.com/storeatlas/store-directory/backend/internal/api/routes"
	"github.com/storeatlas/store-directory/backend/internal/application/services"
	"github.com/storeatlas/store-directory/backend/internal/domain/providers"
	"github.com/storeatlas/store-directory/backend/internal/domain/repositories"
	"github.com/storeatlas/store-directory/backend/internal/infrastructure/clients/postgres"
	"github.com/storeatlas/store-directory/backend/internal/infrastructure/clients/redis"
	"github.com/storeatlas/store-directory/backend/internal/infrastructure/clients/typesense"
	"github.com/storeatlas/store-directory/backend/internal/infrastructure/observability"
	"github.com/storeatlas/store-directory/backend/pkg/config"
	apperrors "github.com/storeatlas/store-directory/backend/pkg/errors"
)

// unavailableSearchRepo stands in when Typesense is unreachable at startup so
// search endpoints answer 503 instead of crashing the whole service.
type unavailableSearchRepo struct{}

func (unavailableSearchRepo) Index(ctx context.Context, store *entities.Store) error {
	return apperrors.NewUnavailableError("search index is unavailable", nil)
}

func (unavailableSearchRepo) Delete(ctx context.Context, id string) error {
	return apperrors.NewUnavailableError("search index is unavailable", nil)
}

func (unavailableSearchRepo) SearchText(ctx context.Context, query string, limit int) ([]*entities.StoreHit, error) {
	return nil, apperrors.NewUnavailableError("search index is unavailable", nil)
}

func (unavailableSearchRepo) SearchNearby(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]*entities.StoreHit, error) {
	return nil, apperrors.NewUnavailableError("search index is unavailable", nil)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// PostgreSQL is required; the service cannot start without it
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Redis is optional; without it the service runs uncached and without
	// change notifications
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis client, continuing without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// Typesense is optional; without it search endpoints return 503
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Typesense client, search disabled")
		typesenseClient = nil
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("Event bus initialized")
	}

	// Adapters
	baseStoreAdapter := database.NewStoreAdapter(pgClient)

	var storeRepo repositories.StoreRepository
	if cacheProvider != nil {
		storeRepo = database.NewCachedStoreAdapter(baseStoreAdapter, cacheProvider)
		log.Info().Msg("Store adapter wrapped with caching layer")
	} else {
		storeRepo = baseStoreAdapter
		log.Warn().Msg("Store adapter running without cache (Redis unavailable)")
	}

	reviewRepo := database.NewReviewAdapter(pgClient)
	userRepo := database.NewUserAdapter(pgClient)

	var searchRepo repositories.StoreSearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to init Typesense schema")
		}
		searchRepo = adapter
	}

	// Services
	storeService := services.NewStoreService(storeRepo, reviewRepo, searchRepo)
	catalogService := services.NewCatalogService(storeRepo, userRepo)
	heartService := services.NewHeartService(userRepo, storeRepo)
	reviewService := services.NewReviewService(reviewRepo, storeRepo)

	var searchService *services.SearchService
	if searchRepo != nil {
		searchService = services.NewSearchService(searchRepo)
		searchService.SetMetrics(metrics)
	} else {
		searchService = services.NewSearchService(unavailableSearchRepo{})
	}

	if eventBus != nil {
		storeService.SetEventBus(eventBus)
		heartService.SetEventBus(eventBus)
		reviewService.SetEventBus(eventBus)
	}

	// Handlers and router
	router := routes.NewRouter(
		handlers.NewStoreHandler(storeService, catalogService),
		handlers.NewSearchHandler(searchService),
		handlers.NewTagHandler(catalogService),
		handlers.NewHeartHandler(heartService),
		handlers.NewReviewHandler(reviewService),
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing event bus")
		}
	}

	log.Info().Msg("Server stopped")
}

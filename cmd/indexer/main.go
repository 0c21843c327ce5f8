package main

import (
	"context"
	"flag"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/storeatlas/store-directory/backend/internal/adapters/database"
	"github.com/storeatlas/store-directory/backend/internal/adapters/search"
	"github.com/storeatlas/store-directory/backend/internal/domain/repositories"
	"github.com/storeatlas/store-directory/backend/internal/infrastructure/clients/postgres"
	"github.com/storeatlas/store-directory/backend/internal/infrastructure/clients/typesense"
	"github.com/storeatlas/store-directory/backend/internal/infrastructure/observability"
	"github.com/storeatlas/store-directory/backend/pkg/config"
)

// Backfills the search collection from the database. Run after schema
// changes or when the index has drifted from the source of truth.
func main() {
	batchSize := flag.Int("batch", 100, "number of stores to index per batch")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName+"-indexer", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Typesense client")
	}

	storeRepo := database.NewStoreAdapter(pgClient)
	searchAdapter := search.NewTypesenseAdapter(typesenseClient)

	if err := searchAdapter.InitSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to init Typesense schema")
	}

	indexed := 0
	for offset := 0; ; offset += *batchSize {
		stores, err := storeRepo.List(ctx, repositories.StoreFilter{Limit: *batchSize, Offset: offset})
		if err != nil {
			log.Fatal().Err(err).Int("offset", offset).Msg("Failed to list stores")
		}
		if len(stores) == 0 {
			break
		}

		for _, store := range stores {
			if err := searchAdapter.Index(ctx, store); err != nil {
				log.Error().Err(err).Str("store_id", store.ID).Msg("Failed to index store")
				continue
			}
			indexed++
		}

		log.Info().Int("indexed", indexed).Msg("Batch indexed")
	}

	log.Info().Int("indexed", indexed).Msg("Backfill complete")
}

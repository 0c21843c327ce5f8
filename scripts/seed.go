package main

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/storeatlas/store-directory/backend/internal/adapters/database"
	"github.com/storeatlas/store-directory/backend/internal/adapters/search"
	"github.com/storeatlas/store-directory/backend/internal/application/services"
	"github.com/storeatlas/store-directory/backend/internal/domain/entities"
	"github.com/storeatlas/store-directory/backend/internal/infrastructure/clients/postgres"
	"github.com/storeatlas/store-directory/backend/internal/infrastructure/clients/typesense"
	"github.com/storeatlas/store-directory/backend/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL UNIQUE,
	hearts     TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS stores (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	slug        TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	tags        TEXT[] NOT NULL DEFAULT '{}',
	address     TEXT NOT NULL,
	latitude    DOUBLE PRECISION NOT NULL,
	longitude   DOUBLE PRECISION NOT NULL,
	photo       TEXT NOT NULL DEFAULT '',
	author_id   TEXT NOT NULL REFERENCES users(id),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS reviews (
	id         TEXT PRIMARY KEY,
	author_id  TEXT NOT NULL REFERENCES users(id),
	store_id   TEXT NOT NULL REFERENCES stores(id) ON DELETE CASCADE,
	text       TEXT NOT NULL,
	rating     INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_stores_created_at ON stores (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_stores_tags ON stores USING gin (tags);
CREATE INDEX IF NOT EXISTS idx_reviews_store_id ON reviews (store_id);
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if _, err := pgClient.DB().ExecContext(ctx, schema); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE reviews, stores, users RESTART IDENTITY CASCADE
		`); err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	var searchRepo *search.TypesenseAdapter
	if err == nil {
		searchRepo = search.NewTypesenseAdapter(tsClient)
		if err := searchRepo.InitSchema(ctx); err != nil {
			log.Printf("Failed to init search schema: %v", err)
		}
	}

	storeRepo := database.NewStoreAdapter(pgClient)
	reviewRepo := database.NewReviewAdapter(pgClient)

	// 1. Seed users
	users := []entities.User{
		{ID: uuid.NewString(), Name: "Ada Okafor", Email: "ada@example.com"},
		{ID: uuid.NewString(), Name: "Ben Osei", Email: "ben@example.com"},
	}
	for _, u := range users {
		if _, err := pgClient.DB().ExecContext(ctx, `
			INSERT INTO users (id, name, email) VALUES ($1, $2, $3)
			ON CONFLICT (email) DO NOTHING
		`, u.ID, u.Name, u.Email); err != nil {
			log.Printf("Failed to create user %s: %v", u.Name, err)
		}
	}

	// 2. Seed stores through the service so slugs and sanitizing apply
	var storeService *services.StoreService
	if searchRepo != nil {
		storeService = services.NewStoreService(storeRepo, reviewRepo, searchRepo)
	} else {
		storeService = services.NewStoreService(storeRepo, reviewRepo, nil)
	}

	seeds := []struct {
		name, description, address string
		tags                       []string
		lat, lng                   float64
	}{
		{"Coffee Corner", "Slow roasts, fast wifi.", "12 Bloem St", []string{"coffee", "wifi"}, 52.3702, 4.8952},
		{"The Green Grocer", "Organic produce daily.", "3 Canal Rd", []string{"grocery", "vegan"}, 52.3676, 4.9041},
		{"Night Owl Records", "Vinyl until midnight.", "77 King Ln", []string{"music", "late-night"}, 52.3667, 4.8945},
		{"Coffee Corner", "The other coffee corner.", "200 East Ave", []string{"coffee"}, 52.3731, 4.8922},
	}

	storeIDs := []string{}
	for i, s := range seeds {
		lat, lng := s.lat, s.lng
		store, err := storeService.Create(ctx, services.CreateStoreInput{
			Name:        s.name,
			Description: s.description,
			Tags:        s.tags,
			Address:     s.address,
			Latitude:    &lat,
			Longitude:   &lng,
			AuthorID:    users[i%len(users)].ID,
		})
		if err != nil {
			log.Printf("Failed to create store %s: %v", s.name, err)
			continue
		}
		storeIDs = append(storeIDs, store.ID)
		log.Printf("Seeded store %s (%s)", store.Name, store.Slug)
	}

	// 3. Seed reviews
	reviewService := services.NewReviewService(reviewRepo, storeRepo)
	for _, storeID := range storeIDs {
		for i, text := range []string{"Lovely spot.", "Would come back."} {
			if _, err := reviewService.Add(ctx, services.AddReviewInput{
				StoreID:  storeID,
				AuthorID: users[i%len(users)].ID,
				Text:     text,
				Rating:   4 + i%2,
			}); err != nil {
				log.Printf("Failed to create review: %v", err)
			}
		}
	}

	log.Printf("Seeding complete: %d stores, %d users", len(storeIDs), len(users))
}

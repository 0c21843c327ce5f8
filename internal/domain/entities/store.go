package entities

import (
	"time"
)

// Store represents a store listing in the directory
type Store struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	Tags        []string  `json:"tags,omitempty" db:"-"`
	Address     string    `json:"address" db:"address"`
	Location    Location  `json:"location" db:"-"`
	Photo       string    `json:"photo,omitempty" db:"photo"`
	AuthorID    string    `json:"author_id" db:"author_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// TagCount is one row of the tag-frequency aggregate.
type TagCount struct {
	Tag   string `json:"tag" db:"tag"`
	Count int    `json:"count" db:"count"`
}

// TopStore is one row of the top-rated aggregate: a store with at least two
// reviews, carrying the arithmetic mean of its review ratings.
type TopStore struct {
	ID            string  `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	Slug          string  `json:"slug" db:"slug"`
	Photo         string  `json:"photo,omitempty" db:"photo"`
	AverageRating float64 `json:"average_rating" db:"average_rating"`
	ReviewCount   int     `json:"review_count" db:"review_count"`
}

// StoreWithReviews is the result of the explicit store/review join. Reviews
// are fetched on demand, never auto-populated on every read.
type StoreWithReviews struct {
	Store   *Store    `json:"store"`
	Reviews []*Review `json:"reviews"`
}

// StoreHit is a reduced search projection: the fields needed to render a
// result list or map pin, plus the relevance score for text queries.
type StoreHit struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Location    Location `json:"location"`
	Photo       string   `json:"photo,omitempty"`
	Score       float64  `json:"score,omitempty"`
}

package entities

import (
	"time"
)

// Review represents a user review of a store. Reviews are created once and
// never mutated or deleted.
type Review struct {
	ID        string    `json:"id" db:"id"`
	AuthorID  string    `json:"author_id" db:"author_id"`
	StoreID   string    `json:"store_id" db:"store_id"`
	Text      string    `json:"text" db:"text"`
	Rating    int       `json:"rating" db:"rating"` // 1-5
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

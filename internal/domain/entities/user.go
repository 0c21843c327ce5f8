package entities

import (
	"time"
)

// User represents a directory user. Credential fields live with the external
// auth collaborator; this service only reads the profile and mutates the
// hearts set.
type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Hearts    []string  `json:"hearts" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasHearted reports whether the user currently favorites the store.
func (u *User) HasHearted(storeID string) bool {
	for _, id := range u.Hearts {
		if id == storeID {
			return true
		}
	}
	return false
}

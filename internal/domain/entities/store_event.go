package entities

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// StoreEventType represents the type of store event
type StoreEventType string

const (
	StoreEventTypeCreated  StoreEventType = "store_created"
	StoreEventTypeUpdated  StoreEventType = "store_updated"
	StoreEventTypeHearted  StoreEventType = "store_hearted"
	StoreEventTypeReviewed StoreEventType = "store_reviewed"
)

// StoreEvent represents a change notification for a store listing
type StoreEvent struct {
	ID            string                 `json:"id"`
	StoreID       string                 `json:"store_id"`
	EventType     StoreEventType         `json:"event_type"`
	Timestamp     time.Time              `json:"timestamp"`
	ChangedFields map[string]interface{} `json:"changed_fields,omitempty"`
}

// NewStoreEvent creates a new store event
func NewStoreEvent(storeID string, eventType StoreEventType, changedFields map[string]interface{}) *StoreEvent {
	return &StoreEvent{
		ID:            generateEventID(),
		StoreID:       storeID,
		EventType:     eventType,
		Timestamp:     time.Now(),
		ChangedFields: changedFields,
	}
}

func generateEventID() string {
	return time.Now().Format("20060102150405") + "-" + randomString(8)
}

func randomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based if crypto/rand fails
		return time.Now().Format("150405.000")
	}
	return hex.EncodeToString(bytes)[:length]
}

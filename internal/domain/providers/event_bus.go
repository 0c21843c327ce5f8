package providers

import (
	"context"

	"github.com/storeatlas/store-directory/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.StoreEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.StoreEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for different event types
const (
	// EventChannelStoreUpdates is the channel for all store updates
	EventChannelStoreUpdates = "stores:updates"

	// EventChannelStorePrefix is the prefix for store-specific channels
	EventChannelStorePrefix = "store:"
)

// GetStoreChannel returns the channel name for a specific store
func GetStoreChannel(storeID string) string {
	return EventChannelStorePrefix + storeID
}

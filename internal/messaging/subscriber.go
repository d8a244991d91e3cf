package messaging

import (
	"context"

	"github.com/shine-music/shine-indexer/internal/domain"
)

// EventHandler is called when a new purchase event is received.
// A returned error stops the subscription so the caller can resume from its cursor.
type EventHandler func(event *domain.PurchaseEvent) error

// Subscriber defines the interface for subscribing to purchase events
//
//go:generate mockgen -source=subscriber.go -destination=../mocks/subscriber.go -package=mocks -mock_names=Subscriber=MockSubscriber
type Subscriber interface {
	// SubscribeEvents subscribes to purchase events
	// fromBlock: starting point for subscription (0 for latest)
	// handler: callback function to process each event
	SubscribeEvents(ctx context.Context, fromBlock uint64, handler EventHandler) error

	// GetLatestBlock returns the latest block number
	GetLatestBlock(ctx context.Context) (uint64, error)

	// Close closes the connection and cleans up resources
	Close()
}

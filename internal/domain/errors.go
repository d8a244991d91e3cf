package domain

import "errors"

var (
	// ErrSubscriptionFailed is returned when subscription to events fails
	ErrSubscriptionFailed = errors.New("subscription failed")

	// ErrInvalidEvent is returned when a purchase event is missing required fields
	ErrInvalidEvent = errors.New("invalid purchase event")

	// ErrSongNotFound is returned when a song does not exist on-chain or in the store
	ErrSongNotFound = errors.New("song not found")

	// ErrNoProviderAvailable is returned when every RPC provider is unhealthy
	ErrNoProviderAvailable = errors.New("no rpc provider available")
)

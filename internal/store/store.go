package store

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/shine-music/shine-indexer/internal/store/schema"
)

// RecordCollectionInput is a single (song, purchaser, transaction) collection to record
type RecordCollectionInput struct {
	SongID            uint64
	FarcasterID       uint64
	TxHash            string
	BlockNumber       uint64
	PurchaseTimestamp time.Time
	// Raw is the originating purchase event, stored for debugging
	Raw datatypes.JSON
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	CursorStore

	// GetSong retrieves a song by its entity ID; returns nil when absent
	GetSong(ctx context.Context, id string) (*schema.Song, error)
	// GetCollector retrieves a collector by its composite ID; returns nil when absent
	GetCollector(ctx context.Context, id string) (*schema.Collector, error)
	// RecordCollection records one collection and increments the song counter atomically.
	// created is false when the collector already existed and nothing was written.
	RecordCollection(ctx context.Context, input RecordCollectionInput) (created bool, err error)
	// ListCollectorsBySong lists collectors of a song, newest block first, with the total count
	ListCollectorsBySong(ctx context.Context, songID uint64, limit int, offset uint64) ([]schema.Collector, uint64, error)
	// ListRecentCollectors lists the most recently collected records across all songs
	ListRecentCollectors(ctx context.Context, limit int) ([]schema.Collector, error)
	// Ping checks that the database is reachable
	Ping(ctx context.Context) error
}

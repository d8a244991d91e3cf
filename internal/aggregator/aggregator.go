package aggregator

import (
	"context"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/shine-music/shine-indexer/internal/adapter"
	"github.com/shine-music/shine-indexer/internal/domain"
	"github.com/shine-music/shine-indexer/internal/logger"
	"github.com/shine-music/shine-indexer/internal/metrics"
)

// View names used for metrics labels and cache keys
const (
	ViewRecentlyCollected    = "recently_collected"
	ViewMostCollectedArtists = "most_collected_artists"
)

// EventSource reads purchase events straight from the chain
//
//go:generate mockgen -source=aggregator.go -destination=../mocks/aggregator.go -package=mocks -mock_names=EventSource=MockEventSource
type EventSource interface {
	// LatestBlock returns the chain head block number
	LatestBlock(ctx context.Context) (uint64, error)
	// FilterPurchaseLogs fetches purchase events of one kind within [fromBlock, toBlock]
	FilterPurchaseLogs(ctx context.Context, kind domain.EventKind, fromBlock, toBlock uint64) ([]domain.PurchaseEvent, error)
	// BuyerAddress returns the sender of a purchase transaction
	BuyerAddress(ctx context.Context, txHash string) (string, error)
}

// SongReader reads live song state from the contract
//
//go:generate mockgen -source=aggregator.go -destination=../mocks/aggregator.go -package=mocks -mock_names=SongReader=MockSongReader
type SongReader interface {
	SongMetadata(ctx context.Context, songID uint64) (*domain.SongMetadata, error)
	SongIDExists(ctx context.Context, songID uint64) (bool, error)
	TotalSongCount(ctx context.Context) (uint64, error)
}

// Aggregator builds the collection views at request time. Neither view returns an error;
// failures degrade to the existence-scan fallback or to an empty list.
//
//go:generate mockgen -source=aggregator.go -destination=../mocks/aggregator.go -package=mocks -mock_names=Aggregator=MockAggregator
type Aggregator interface {
	// RecentlyCollected returns up to limit songs, most recently collected first
	RecentlyCollected(ctx context.Context, limit int) []domain.CollectedSong
	// MostCollectedArtists returns up to limit artists ranked by collections in the window
	MostCollectedArtists(ctx context.Context, limit int) []domain.CollectedArtist
	// Close releases the worker pool
	Close()
}

// Config holds the tuning knobs of the aggregator
type Config struct {
	// LookbackBlocks is the size of the scanned window ending at the chain head
	LookbackBlocks uint64
	// TopSongsCap is how many of the most collected songs are resolved to artists.
	// It is kept above MaxLimit.
	TopSongsCap int
	// MetadataBatchSize is the number of concurrent contract reads per step
	MetadataBatchSize int
	// BatchDelay is the pause between two metadata steps
	BatchDelay time.Duration
	// MetadataTimeout bounds a single contract read
	MetadataTimeout time.Duration
	// LogQueryDelay is the pause between the two log queries of a window scan
	LogQueryDelay time.Duration
	// RecentFallbackScan bounds the descending existence scan
	RecentFallbackScan uint64
	// ArtistFallbackScan bounds the ascending artist scan
	ArtistFallbackScan uint64
	// MaxLimit caps the limit accepted by both views
	MaxLimit int
	// MetadataCacheSize is the number of cached metadata entries; 0 disables the cache
	MetadataCacheSize int
	// MetadataCacheTTL is how long a metadata entry stays cached
	MetadataCacheTTL time.Duration
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{
		LookbackBlocks:     10000,
		TopSongsCap:        100,
		MetadataBatchSize:  5,
		BatchDelay:         150 * time.Millisecond,
		MetadataTimeout:    5 * time.Second,
		LogQueryDelay:      200 * time.Millisecond,
		RecentFallbackScan: 50,
		ArtistFallbackScan: 25,
		MaxLimit:           50,
		MetadataCacheSize:  1024,
		MetadataCacheTTL:   5 * time.Minute,
	}
}

type aggregator struct {
	events EventSource
	songs  SongReader
	config Config
	clock  adapter.Clock
	pool   pond.Pool
	cache  *expirable.LRU[uint64, domain.SongMetadata]
}

// New creates an aggregator; zero config fields take their defaults
func New(events EventSource, songs SongReader, cfg Config, clock adapter.Clock) Aggregator {
	cfg = withDefaults(cfg)

	a := &aggregator{
		events: events,
		songs:  songs,
		config: cfg,
		clock:  clock,
		// a few requests may batch at the same time
		pool: pond.NewPool(cfg.MetadataBatchSize * 4),
	}
	if cfg.MetadataCacheSize > 0 {
		a.cache = expirable.NewLRU[uint64, domain.SongMetadata](cfg.MetadataCacheSize, nil, cfg.MetadataCacheTTL)
	}

	return a
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.LookbackBlocks == 0 {
		cfg.LookbackBlocks = def.LookbackBlocks
	}
	if cfg.MetadataBatchSize <= 0 {
		cfg.MetadataBatchSize = def.MetadataBatchSize
	}
	if cfg.MetadataTimeout <= 0 {
		cfg.MetadataTimeout = def.MetadataTimeout
	}
	if cfg.RecentFallbackScan == 0 {
		cfg.RecentFallbackScan = def.RecentFallbackScan
	}
	if cfg.ArtistFallbackScan == 0 {
		cfg.ArtistFallbackScan = def.ArtistFallbackScan
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = def.MaxLimit
	}
	if cfg.TopSongsCap <= 0 {
		cfg.TopSongsCap = def.TopSongsCap
	}
	if cfg.TopSongsCap <= cfg.MaxLimit {
		cfg.TopSongsCap = 2 * cfg.MaxLimit
	}
	return cfg
}

// clampLimit bounds a requested limit to [0, MaxLimit]
func (a *aggregator) clampLimit(limit int) int {
	if limit <= 0 {
		return 0
	}
	return min(limit, a.config.MaxLimit)
}

// RecentlyCollected returns the window view, or the existence scan when the window yields nothing
func (a *aggregator) RecentlyCollected(ctx context.Context, limit int) []domain.CollectedSong {
	limit = a.clampLimit(limit)
	if limit == 0 {
		return []domain.CollectedSong{}
	}

	songs, err := a.recentFromWindow(ctx, limit)
	if err != nil {
		logger.WarnCtx(ctx, "Window scan failed, using existence scan", zap.String("view", ViewRecentlyCollected), zap.Error(err))
	}
	if len(songs) > 0 {
		return songs
	}

	metrics.ViewFallbacks.WithLabelValues(ViewRecentlyCollected).Inc()
	return a.recentFromExistence(ctx, limit)
}

// MostCollectedArtists returns the window view, or the existence scan when the window yields nothing
func (a *aggregator) MostCollectedArtists(ctx context.Context, limit int) []domain.CollectedArtist {
	limit = a.clampLimit(limit)
	if limit == 0 {
		return []domain.CollectedArtist{}
	}

	artists, err := a.artistsFromWindow(ctx, limit)
	if err != nil {
		logger.WarnCtx(ctx, "Window scan failed, using existence scan", zap.String("view", ViewMostCollectedArtists), zap.Error(err))
	}
	if len(artists) > 0 {
		return artists
	}

	metrics.ViewFallbacks.WithLabelValues(ViewMostCollectedArtists).Inc()
	return a.artistsFromExistence(ctx, limit)
}

// Close releases the worker pool
func (a *aggregator) Close() {
	a.pool.StopAndWait()
}

// sleep waits for d unless ctx ends first
func (a *aggregator) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-a.clock.After(d):
		return nil
	}
}

package block

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/shine-music/shine-indexer/internal/adapter"
	"github.com/shine-music/shine-indexer/internal/logger"
)

// BlockInfo represents cached head information
type BlockInfo struct {
	Number    uint64
	FetchedAt time.Time
}

// BlockProvider provides cached access to the chain head and block timestamps.
// The aggregator asks for the head on every request and the emitter needs a
// timestamp for every purchase log, so both are cached to spare the RPC provider.
//
//go:generate mockgen -source=block.go -destination=../mocks/block_provider.go -package=mocks -mock_names=BlockProvider=MockBlockProvider
type BlockProvider interface {
	// GetLatestBlock returns the latest block number, potentially from cache
	GetLatestBlock(ctx context.Context) (uint64, error)

	// GetBlockTimestamp returns the timestamp for a given block number, potentially from cache
	GetBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error)
}

// BlockFetcher is the interface for fetching block information from the chain
//
//go:generate mockgen -source=block.go -destination=../mocks/block_provider.go -package=mocks -mock_names=BlockFetcher=MockBlockFetcher
type BlockFetcher interface {
	// FetchLatestBlock fetches the latest block number
	FetchLatestBlock(ctx context.Context) (uint64, error)

	// FetchBlockTimestamp fetches the timestamp for a given block number
	FetchBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error)
}

// Config holds configuration for the BlockProvider
type Config struct {
	// TTL is how long to cache the head block number
	TTL time.Duration

	// StaleWindow is how long to keep serving a stale head when fetching fails
	StaleWindow time.Duration

	// TimestampCacheSize bounds the number of cached block timestamps
	TimestampCacheSize int

	// TimestampTTL is how long to cache a block timestamp; 0 keeps entries until evicted
	TimestampTTL time.Duration
}

const defaultTimestampCacheSize = 4096

// blockProvider implements BlockProvider with TTL-based caching
type blockProvider struct {
	fetcher BlockFetcher
	config  Config
	clock   adapter.Clock

	mu         sync.RWMutex
	head       *BlockInfo
	timestamps *expirable.LRU[uint64, time.Time]
}

// NewBlockProvider creates a new BlockProvider with caching
func NewBlockProvider(fetcher BlockFetcher, config Config, clock adapter.Clock) BlockProvider {
	size := config.TimestampCacheSize
	if size <= 0 {
		size = defaultTimestampCacheSize
	}

	return &blockProvider{
		fetcher:    fetcher,
		config:     config,
		clock:      clock,
		timestamps: expirable.NewLRU[uint64, time.Time](size, nil, config.TimestampTTL),
	}
}

// GetLatestBlock returns the latest block number, using cache if valid
func (p *blockProvider) GetLatestBlock(ctx context.Context) (uint64, error) {
	p.mu.RLock()
	cached := p.head
	p.mu.RUnlock()

	now := p.clock.Now()

	if cached != nil && now.Sub(cached.FetchedAt) < p.config.TTL {
		logger.DebugCtx(ctx, "Using cached block number", zap.Uint64("block_number", cached.Number))
		return cached.Number, nil
	}

	logger.DebugCtx(ctx, "Fetching latest block number from RPC provider")
	blockNumber, err := p.fetcher.FetchLatestBlock(ctx)
	if err != nil {
		if cached != nil && now.Sub(cached.FetchedAt) < p.config.StaleWindow {
			logger.WarnCtx(ctx, "Using stale block number",
				zap.Uint64("block_number", cached.Number),
				zap.Error(err))
			return cached.Number, nil
		}
		return 0, fmt.Errorf("failed to fetch latest block and no valid cache available: %w", err)
	}

	p.mu.Lock()
	// Never move the cached head backwards when a lagging provider answers
	if p.head == nil || blockNumber >= p.head.Number || now.Sub(p.head.FetchedAt) >= p.config.StaleWindow {
		p.head = &BlockInfo{
			Number:    blockNumber,
			FetchedAt: now,
		}
	}
	head := p.head.Number
	p.mu.Unlock()

	return head, nil
}

// GetBlockTimestamp returns the timestamp for a given block number, using cache if present
func (p *blockProvider) GetBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error) {
	if timestamp, ok := p.timestamps.Get(blockNumber); ok {
		return timestamp, nil
	}

	timestamp, err := p.fetcher.FetchBlockTimestamp(ctx, blockNumber)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to fetch block timestamp for block %d: %w", blockNumber, err)
	}

	p.timestamps.Add(blockNumber, timestamp)
	return timestamp, nil
}

package emitter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/shine-music/shine-indexer/internal/adapter"
	"github.com/shine-music/shine-indexer/internal/domain"
	"github.com/shine-music/shine-indexer/internal/logger"
	"github.com/shine-music/shine-indexer/internal/messaging"
	"github.com/shine-music/shine-indexer/internal/metrics"
	"github.com/shine-music/shine-indexer/internal/store"
)

const (
	defaultResubscribeInterval = time.Second
	defaultResubscribeTimeout  = 5 * time.Minute
)

// Config holds the configuration for the event emitter
type Config struct {
	ChainID         domain.Chain
	StartBlock      uint64
	CursorSaveFreq  uint64        // Save cursor every N blocks
	CursorSaveDelay time.Duration // Or save cursor every N seconds
	// ResubscribeInterval is the first wait before resubscribing after a failure
	ResubscribeInterval time.Duration
	// ResubscribeTimeout bounds how long a broken subscription is retried without progress
	ResubscribeTimeout time.Duration
}

// Emitter defines the interface for the event emitter
//
//go:generate mockgen -source=emitter.go -destination=../mocks/emitter.go -package=mocks -mock_names=Emitter=MockEmitter
type Emitter interface {
	// Run starts the event emitter
	Run(ctx context.Context) error
	// Close closes the emitter and cleans up resources
	Close()
}

// Emitter handles purchase event subscription and publishing to NATS
type emitter struct {
	subscriber messaging.Subscriber
	publisher  messaging.Publisher
	store      store.Store
	config     Config
	clock      adapter.Clock
}

// NewEmitter creates a new event emitter
func NewEmitter(
	sub messaging.Subscriber,
	pub messaging.Publisher,
	st store.Store,
	cfg Config,
	clock adapter.Clock,
) Emitter {
	if cfg.ResubscribeInterval <= 0 {
		cfg.ResubscribeInterval = defaultResubscribeInterval
	}
	if cfg.ResubscribeTimeout <= 0 {
		cfg.ResubscribeTimeout = defaultResubscribeTimeout
	}

	return &emitter{
		subscriber: sub,
		publisher:  pub,
		store:      st,
		config:     cfg,
		clock:      clock,
	}
}

// Run starts the event emitter
func (e *emitter) Run(ctx context.Context) error {
	chain := string(e.config.ChainID)

	// Determine starting block
	startBlock := e.config.StartBlock
	if startBlock == 0 {
		// Get last processed block from store
		lastBlock, err := e.store.GetBlockCursor(ctx, chain)
		if err != nil {
			return fmt.Errorf("failed to get block cursor: %w", err)
		}

		if lastBlock > 0 {
			startBlock = lastBlock + 1
			logger.InfoCtx(ctx, "Resuming from last processed block", zap.String("chain", chain), zap.Uint64("block", startBlock))
		} else {
			// Start from latest block
			latestBlock, err := e.subscriber.GetLatestBlock(ctx)
			if err != nil {
				return fmt.Errorf("failed to get latest block number: %w", err)
			}
			startBlock = latestBlock
			logger.InfoCtx(ctx, "Starting from latest block", zap.String("chain", chain), zap.Uint64("block", startBlock))
		}
	} else {
		logger.InfoCtx(ctx, "Starting from configured block", zap.String("chain", chain), zap.Uint64("block", startBlock))
	}

	errCh := make(chan error, 1)

	go func() {
		if err := e.subscribeWithRetry(ctx, startBlock); err != nil {
			errCh <- err
		}
	}()

	// Wait for error or context cancellation
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// subscribeWithRetry keeps a subscription alive, resuming from the block of the last
// published event whenever it breaks
func (e *emitter) subscribeWithRetry(ctx context.Context, startBlock uint64) error {
	chain := string(e.config.ChainID)

	nextBlock := startBlock
	lastSavedBlock := uint64(0)
	lastSaveTime := e.clock.Now()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.config.ResubscribeInterval
	b.MaxInterval = 30 * e.config.ResubscribeInterval
	b.MaxElapsedTime = e.config.ResubscribeTimeout

	handler := func(event *domain.PurchaseEvent) error {
		// Publish to NATS
		if err := e.publisher.PublishEvent(ctx, event); err != nil {
			return fmt.Errorf("failed to publish event %s: %w", event.TxHash, err)
		}

		nextBlock = event.BlockNumber
		metrics.LastProcessedBlock.WithLabelValues(chain).Set(float64(event.BlockNumber))

		// A block is complete once an event of a later block arrives
		if event.BlockNumber == 0 {
			return nil
		}
		completed := event.BlockNumber - 1

		// Save cursor periodically (every N blocks or N seconds)
		shouldSave := completed > lastSavedBlock &&
			(completed-lastSavedBlock >= e.config.CursorSaveFreq ||
				e.clock.Since(lastSaveTime) >= e.config.CursorSaveDelay)

		if shouldSave {
			if err := e.store.SetBlockCursor(ctx, chain, completed); err != nil {
				logger.WarnCtx(ctx, "Failed to save block cursor", zap.Error(err), zap.Uint64("block", completed))
			} else {
				lastSavedBlock = completed
				lastSaveTime = e.clock.Now()
			}
		}

		return nil
	}

	operation := func() error {
		logger.InfoCtx(ctx, "Starting event subscription", zap.String("chain", chain), zap.Uint64("fromBlock", nextBlock))

		before := nextBlock
		err := e.subscriber.SubscribeEvents(ctx, nextBlock, handler)
		if err == nil || ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return backoff.Permanent(err)
		}

		if nextBlock != before {
			// the subscription made progress, so the retry budget starts over
			b.Reset()
		}
		return err
	}

	return backoff.RetryNotify(operation, backoff.WithContext(b, ctx), func(err error, d time.Duration) {
		logger.WarnCtx(ctx, "Subscription interrupted, resubscribing",
			zap.String("chain", chain),
			zap.Uint64("fromBlock", nextBlock),
			zap.Duration("retryIn", d),
			zap.Error(err))
	})
}

// Close closes the emitter and cleans up resources
func (e *emitter) Close() {
	e.subscriber.Close()
}

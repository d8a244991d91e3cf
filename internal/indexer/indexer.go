package indexer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shine-music/shine-indexer/internal/adapter"
	"github.com/shine-music/shine-indexer/internal/domain"
	"github.com/shine-music/shine-indexer/internal/logger"
	"github.com/shine-music/shine-indexer/internal/metrics"
	"github.com/shine-music/shine-indexer/internal/store"
)

// InstaBuy is a single purchase: one song, one purchaser, one transaction
type InstaBuy struct {
	SongID      uint64
	FarcasterID uint64
	TxHash      string
	BlockNumber uint64
	Timestamp   time.Time
	// Raw is the originating event payload, kept on the Collector record
	Raw []byte
}

// Buy is a batch purchase: an ordered list of songs, one purchaser, one transaction
type Buy struct {
	SongIDs     []uint64
	FarcasterID uint64
	TxHash      string
	BlockNumber uint64
	Timestamp   time.Time
	Raw         []byte
}

// Result reports how many per-song collections were created or absorbed as duplicates
type Result struct {
	Created int
	Skipped int
}

// Indexer maintains Song and Collector records from purchase events
//
//go:generate mockgen -source=indexer.go -destination=../mocks/indexer.go -package=mocks -mock_names=Indexer=MockIndexer
type Indexer interface {
	// HandleInstaBuy applies a single purchase
	HandleInstaBuy(ctx context.Context, event InstaBuy) (Result, error)
	// HandleBuy applies each song of a batch purchase independently
	HandleBuy(ctx context.Context, event Buy) (Result, error)
	// HandleEvent dispatches a normalized purchase event to the matching handler
	HandleEvent(ctx context.Context, event *domain.PurchaseEvent) (Result, error)
}

type indexer struct {
	store store.Store
	json  adapter.JSON
}

// NewIndexer creates a new indexer backed by the given store
func NewIndexer(store store.Store, json adapter.JSON) Indexer {
	return &indexer{
		store: store,
		json:  json,
	}
}

type purchase struct {
	kind        domain.EventKind
	songIDs     []uint64
	farcasterID uint64
	txHash      string
	blockNumber uint64
	timestamp   time.Time
	raw         []byte
}

// HandleInstaBuy applies a single purchase
func (i *indexer) HandleInstaBuy(ctx context.Context, event InstaBuy) (Result, error) {
	return i.apply(ctx, purchase{
		kind:        domain.EventKindInstaBuy,
		songIDs:     []uint64{event.SongID},
		farcasterID: event.FarcasterID,
		txHash:      event.TxHash,
		blockNumber: event.BlockNumber,
		timestamp:   event.Timestamp,
		raw:         event.Raw,
	})
}

// HandleBuy applies each song of a batch purchase independently.
// A song repeated within the batch yields the same collector id and collapses.
func (i *indexer) HandleBuy(ctx context.Context, event Buy) (Result, error) {
	return i.apply(ctx, purchase{
		kind:        domain.EventKindBuy,
		songIDs:     event.SongIDs,
		farcasterID: event.FarcasterID,
		txHash:      event.TxHash,
		blockNumber: event.BlockNumber,
		timestamp:   event.Timestamp,
		raw:         event.Raw,
	})
}

// HandleEvent dispatches a normalized purchase event to the matching handler
func (i *indexer) HandleEvent(ctx context.Context, event *domain.PurchaseEvent) (Result, error) {
	if event == nil || !event.Valid() {
		return Result{}, domain.ErrInvalidEvent
	}

	raw, err := i.json.Marshal(event)
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal purchase event: %w", err)
	}

	farcasterID := event.ResolvedFarcasterID()

	switch event.Kind {
	case domain.EventKindInstaBuy:
		return i.HandleInstaBuy(ctx, InstaBuy{
			SongID:      event.SongIDs[0],
			FarcasterID: farcasterID,
			TxHash:      event.TxHash,
			BlockNumber: event.BlockNumber,
			Timestamp:   event.Timestamp,
			Raw:         raw,
		})
	case domain.EventKindBuy:
		return i.HandleBuy(ctx, Buy{
			SongIDs:     event.SongIDs,
			FarcasterID: farcasterID,
			TxHash:      event.TxHash,
			BlockNumber: event.BlockNumber,
			Timestamp:   event.Timestamp,
			Raw:         raw,
		})
	default:
		return Result{}, domain.ErrInvalidEvent
	}
}

// apply records every song of the purchase in order. Each song is its own
// transaction; a failure aborts the rest and the caller retries the whole
// event, with already-committed songs absorbed by the idempotence guard.
func (i *indexer) apply(ctx context.Context, p purchase) (Result, error) {
	if p.txHash == "" {
		return Result{}, domain.ErrInvalidEvent
	}

	var result Result
	for _, songID := range p.songIDs {
		created, err := i.store.RecordCollection(ctx, store.RecordCollectionInput{
			SongID:            songID,
			FarcasterID:       p.farcasterID,
			TxHash:            p.txHash,
			BlockNumber:       p.blockNumber,
			PurchaseTimestamp: p.timestamp,
			Raw:               p.raw,
		})
		if err != nil {
			metrics.HandlerFailures.WithLabelValues(string(p.kind)).Inc()
			return result, fmt.Errorf("failed to record collection for song %d: %w", songID, err)
		}

		if created {
			result.Created++
			metrics.CollectionsTotal.WithLabelValues(string(p.kind), "created").Inc()
		} else {
			result.Skipped++
			metrics.CollectionsTotal.WithLabelValues(string(p.kind), "skipped").Inc()
		}
	}

	logger.InfoCtx(ctx, "Applied purchase event",
		zap.String("kind", string(p.kind)),
		zap.String("txHash", p.txHash),
		zap.Uint64("blockNumber", p.blockNumber),
		zap.Uint64("farcasterID", p.farcasterID),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped))

	return result, nil
}

package aggregator

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/shine-music/shine-indexer/internal/domain"
	"github.com/shine-music/shine-indexer/internal/logger"
	"github.com/shine-music/shine-indexer/internal/metrics"
)

// purchase is one (song, block, purchaser) tuple of a flattened window
type purchase struct {
	SongID      uint64
	BlockNumber uint64
	FarcasterID uint64
	TxHash      string
}

// scanWindow fetches both purchase kinds over the lookback window ending at the head and
// flattens them into tuples: single purchases first, then batch purchases, each in log order
func (a *aggregator) scanWindow(ctx context.Context, view string) ([]purchase, error) {
	timer := prometheus.NewTimer(metrics.WindowScanDuration.WithLabelValues(view))
	defer timer.ObserveDuration()

	head, err := a.events.LatestBlock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get head block: %w", err)
	}

	from := uint64(0)
	if head > a.config.LookbackBlocks {
		from = head - a.config.LookbackBlocks
	}

	var purchases []purchase
	for i, kind := range domain.EventKinds {
		if i > 0 {
			if err := a.sleep(ctx, a.config.LogQueryDelay); err != nil {
				return nil, err
			}
		}

		events, err := a.events.FilterPurchaseLogs(ctx, kind, from, head)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s logs: %w", kind, err)
		}

		for _, event := range events {
			farcasterID := event.ResolvedFarcasterID()
			for _, songID := range event.SongIDs {
				purchases = append(purchases, purchase{
					SongID:      songID,
					BlockNumber: event.BlockNumber,
					FarcasterID: farcasterID,
					TxHash:      event.TxHash,
				})
			}
		}
	}

	logger.DebugCtx(ctx, "Window scanned",
		zap.String("view", view),
		zap.Uint64("fromBlock", from),
		zap.Uint64("toBlock", head),
		zap.Int("purchases", len(purchases)))

	return purchases, nil
}

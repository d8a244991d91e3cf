package aggregator

import (
	"context"
	"errors"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/shine-music/shine-indexer/internal/domain"
	"github.com/shine-music/shine-indexer/internal/logger"
	"github.com/shine-music/shine-indexer/internal/metrics"
)

// fetchMetadata reads the metadata of every song id. The result is aligned with ids;
// a nil entry marks a failed or timed out read.
func (a *aggregator) fetchMetadata(ctx context.Context, ids []uint64) []*domain.SongMetadata {
	return runBatched(ctx, a, ids, func(ctx context.Context, id uint64) *domain.SongMetadata {
		if a.cache != nil {
			if cached, ok := a.cache.Get(id); ok {
				return &cached
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, a.config.MetadataTimeout)
		defer cancel()

		metadata, err := a.songs.SongMetadata(callCtx, id)
		if err != nil || metadata == nil {
			metrics.MetadataFailures.Inc()
			logger.WarnCtx(ctx, "Failed to fetch song metadata", zap.Uint64("songId", id), zap.Error(err))
			return nil
		}

		if a.cache != nil {
			a.cache.Add(id, *metadata)
		}
		return metadata
	})
}

// checkExistence reports for every song id whether it exists; failed checks count as absent
func (a *aggregator) checkExistence(ctx context.Context, ids []uint64) []bool {
	return runBatched(ctx, a, ids, func(ctx context.Context, id uint64) bool {
		callCtx, cancel := context.WithTimeout(ctx, a.config.MetadataTimeout)
		defer cancel()

		exists, err := a.songs.SongIDExists(callCtx, id)
		if err != nil {
			logger.WarnCtx(ctx, "Failed to check song existence", zap.Uint64("songId", id), zap.Error(err))
			return false
		}
		return exists
	})
}

// runBatched calls fn for every item, MetadataBatchSize calls at a time with BatchDelay between
// steps. Results keep the input order; items not reached before ctx ends get the zero value.
func runBatched[T, R any](ctx context.Context, a *aggregator, items []T, fn func(context.Context, T) R) []R {
	results := make([]R, len(items))

	for start := 0; start < len(items); start += a.config.MetadataBatchSize {
		if start > 0 {
			if err := a.sleep(ctx, a.config.BatchDelay); err != nil {
				break
			}
		}

		end := min(start+a.config.MetadataBatchSize, len(items))
		group := a.pool.NewGroupContext(ctx)
		groupCtx := group.Context()

		for i := start; i < end; i++ {
			// each task owns results[i]
			group.Submit(func() {
				if groupCtx.Err() != nil {
					return
				}
				results[i] = fn(groupCtx, items[i])
			})
		}

		if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
			logger.WarnCtx(ctx, "Batch interrupted", zap.Error(err))
		}
	}

	return results
}

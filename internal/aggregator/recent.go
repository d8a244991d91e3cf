package aggregator

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/shine-music/shine-indexer/internal/domain"
	"github.com/shine-music/shine-indexer/internal/logger"
)

type songBlock struct {
	songID      uint64
	blockNumber uint64
}

// dedupBySongBlock collapses purchases of the same song in the same block.
// Each pair keeps the position it was first seen at and the purchase seen last.
func dedupBySongBlock(purchases []purchase) []purchase {
	index := make(map[songBlock]int, len(purchases))
	unique := make([]purchase, 0, len(purchases))

	for _, p := range purchases {
		key := songBlock{songID: p.SongID, blockNumber: p.BlockNumber}
		if i, ok := index[key]; ok {
			unique[i].FarcasterID = p.FarcasterID
			unique[i].TxHash = p.TxHash
			continue
		}
		index[key] = len(unique)
		unique = append(unique, p)
	}

	return unique
}

// recentFromWindow builds the recently collected view from the event window
func (a *aggregator) recentFromWindow(ctx context.Context, limit int) ([]domain.CollectedSong, error) {
	purchases, err := a.scanWindow(ctx, ViewRecentlyCollected)
	if err != nil {
		return nil, err
	}

	candidates := dedupBySongBlock(purchases)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].BlockNumber > candidates[j].BlockNumber
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	a.resolvePurchasers(ctx, candidates)

	metadata := a.fetchMetadata(ctx, lo.Map(candidates, func(p purchase, _ int) uint64 {
		return p.SongID
	}))

	songs := make([]domain.CollectedSong, 0, len(candidates))
	for i, p := range candidates {
		if metadata[i] == nil {
			continue
		}
		songs = append(songs, domain.CollectedSong{
			SongID:           p.SongID,
			Metadata:         *metadata[i],
			CollectedAtBlock: p.BlockNumber,
			FarcasterID:      p.FarcasterID,
		})
	}

	return songs, nil
}

// resolvePurchasers gives wallet-only purchases the synthetic farcaster id the indexer
// stores for them. Purchases whose sender cannot be read keep id 0.
func (a *aggregator) resolvePurchasers(ctx context.Context, candidates []purchase) {
	unresolved := lo.Filter(lo.Range(len(candidates)), func(i int, _ int) bool {
		return candidates[i].FarcasterID == 0 && candidates[i].TxHash != ""
	})
	if len(unresolved) == 0 {
		return
	}

	ids := runBatched(ctx, a, unresolved, func(ctx context.Context, i int) uint64 {
		callCtx, cancel := context.WithTimeout(ctx, a.config.MetadataTimeout)
		defer cancel()

		buyer, err := a.events.BuyerAddress(callCtx, candidates[i].TxHash)
		if err != nil || buyer == "" {
			logger.WarnCtx(ctx, "Failed to resolve purchaser", zap.String("txHash", candidates[i].TxHash), zap.Error(err))
			return 0
		}
		return domain.SyntheticFarcasterID(buyer)
	})

	for n, i := range unresolved {
		candidates[i].FarcasterID = ids[n]
	}
}

// recentFromExistence lists the newest existing songs, scanning down from the total song count.
// Collection blocks are unknown and reported as 0.
func (a *aggregator) recentFromExistence(ctx context.Context, limit int) []domain.CollectedSong {
	total, err := a.songs.TotalSongCount(ctx)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to get total song count", zap.Error(err))
		return []domain.CollectedSong{}
	}

	lowest := uint64(1)
	if total > a.config.RecentFallbackScan {
		lowest = total - a.config.RecentFallbackScan + 1
	}

	var existing []uint64
	batchSize := uint64(a.config.MetadataBatchSize) //nolint:gosec,G115 // positive by construction
	for next := total; next >= lowest && next > 0 && len(existing) < limit; {
		var ids []uint64
		for ; next >= lowest && next > 0 && uint64(len(ids)) < batchSize; next-- {
			ids = append(ids, next)
		}

		exists := a.checkExistence(ctx, ids)
		for i, id := range ids {
			if exists[i] && len(existing) < limit {
				existing = append(existing, id)
			}
		}

		if len(existing) < limit && next >= lowest && next > 0 {
			if err := a.sleep(ctx, a.config.BatchDelay); err != nil {
				break
			}
		}
	}

	metadata := a.fetchMetadata(ctx, existing)

	songs := make([]domain.CollectedSong, 0, len(existing))
	for i, id := range existing {
		if metadata[i] == nil {
			continue
		}
		songs = append(songs, domain.CollectedSong{
			SongID:   id,
			Metadata: *metadata[i],
		})
	}

	return songs
}

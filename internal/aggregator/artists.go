package aggregator

import (
	"context"
	"sort"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/shine-music/shine-indexer/internal/domain"
	"github.com/shine-music/shine-indexer/internal/logger"
)

type songCount struct {
	songID uint64
	count  uint64
}

// countBySong counts purchases per song, keeping songs in the order they were first seen
func countBySong(purchases []purchase) []songCount {
	index := make(map[uint64]int)
	var counts []songCount

	for _, p := range purchases {
		if i, ok := index[p.SongID]; ok {
			counts[i].count++
			continue
		}
		index[p.SongID] = len(counts)
		counts = append(counts, songCount{songID: p.SongID, count: 1})
	}

	return counts
}

// topSongs returns the songs with the most purchases, ties in discovery order
func topSongs(counts []songCount, limit int) []songCount {
	ranked := append([]songCount(nil), counts...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].count > ranked[j].count
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// artistTally accumulates artists in the order they were first seen
type artistTally struct {
	index   map[string]int
	artists []domain.CollectedArtist
}

func newArtistTally() *artistTally {
	return &artistTally{index: make(map[string]int)}
}

func (t *artistTally) add(metadata domain.SongMetadata, collections uint64, countKnown bool) {
	key := strings.ToLower(metadata.ArtistAddress)
	if i, ok := t.index[key]; ok {
		t.artists[i].CollectionCount += collections
		t.artists[i].SongCount++
		return
	}

	t.index[key] = len(t.artists)
	t.artists = append(t.artists, domain.CollectedArtist{
		ArtistAddress:   metadata.ArtistAddress,
		CollectionCount: collections,
		SongCount:       1,
		ExampleSong:     metadata,
		CountKnown:      countKnown,
	})
}

// ranked returns the artists sorted by less, ties in discovery order, cut to limit
func (t *artistTally) ranked(limit int, less func(a, b domain.CollectedArtist) bool) []domain.CollectedArtist {
	artists := append([]domain.CollectedArtist(nil), t.artists...)
	sort.SliceStable(artists, func(i, j int) bool {
		return less(artists[i], artists[j])
	})
	if len(artists) > limit {
		artists = artists[:limit]
	}
	return artists
}

// artistsFromWindow builds the most collected artists view from the event window
func (a *aggregator) artistsFromWindow(ctx context.Context, limit int) ([]domain.CollectedArtist, error) {
	purchases, err := a.scanWindow(ctx, ViewMostCollectedArtists)
	if err != nil {
		return nil, err
	}

	counts := countBySong(purchases)
	top := topSongs(counts, a.config.TopSongsCap)
	kept := lo.SliceToMap(top, func(c songCount) (uint64, bool) {
		return c.songID, true
	})

	// artists accumulate in song discovery order
	considered := lo.Filter(counts, func(c songCount, _ int) bool {
		return kept[c.songID]
	})
	metadata := a.fetchMetadata(ctx, lo.Map(considered, func(c songCount, _ int) uint64 {
		return c.songID
	}))

	tally := newArtistTally()
	for i, c := range considered {
		if metadata[i] == nil {
			continue
		}
		tally.add(*metadata[i], c.count, true)
	}

	return tally.ranked(limit, func(a, b domain.CollectedArtist) bool {
		return a.CollectionCount > b.CollectionCount
	}), nil
}

// artistsFromExistence ranks artists by how many songs they have among the first song ids.
// Collection counts are unknown and reported as 0.
func (a *aggregator) artistsFromExistence(ctx context.Context, limit int) []domain.CollectedArtist {
	last := a.config.ArtistFallbackScan
	if total, err := a.songs.TotalSongCount(ctx); err != nil {
		logger.WarnCtx(ctx, "Failed to get total song count, scanning the full range", zap.Error(err))
	} else {
		last = min(last, total)
	}

	ids := make([]uint64, 0, last)
	for id := uint64(1); id <= last; id++ {
		ids = append(ids, id)
	}

	metadata := a.fetchMetadata(ctx, ids)

	tally := newArtistTally()
	for _, m := range metadata {
		if m == nil {
			continue
		}
		tally.add(*m, 0, false)
	}

	return tally.ranked(limit, func(a, b domain.CollectedArtist) bool {
		return a.SongCount > b.SongCount
	})
}

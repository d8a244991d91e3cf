package store

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shine-music/shine-indexer/internal/domain"
)

// =============================================================================
// Test Data Builders
// =============================================================================

// buildTestCollection creates a collection input with a raw event payload
func buildTestCollection(songID, farcasterID uint64, txHash string, blockNum uint64) RecordCollectionInput {
	rawData := map[string]any{
		"tx_hash":      txHash,
		"block_number": blockNum,
		"song_ids":     []uint64{songID},
	}
	rawBytes, _ := json.Marshal(rawData)

	return RecordCollectionInput{
		SongID:            songID,
		FarcasterID:       farcasterID,
		TxHash:            txHash,
		BlockNumber:       blockNum,
		PurchaseTimestamp: time.Unix(1700000000+int64(blockNum), 0).UTC(), //nolint:gosec,G115
		Raw:               rawBytes,
	}
}

// =============================================================================
// Test: RecordCollection
// =============================================================================

func testRecordCollection(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("first collection creates song and collector", func(t *testing.T) {
		input := buildTestCollection(1001, 42, "0xABCDEF01", 500)

		created, err := store.RecordCollection(ctx, input)
		require.NoError(t, err)
		assert.True(t, created)

		song, err := store.GetSong(ctx, domain.SongEntityID(1001))
		require.NoError(t, err)
		require.NotNil(t, song)
		assert.Equal(t, uint64(1001), song.SongID)
		assert.Equal(t, uint64(1), song.TotalCollectors)

		collector, err := store.GetCollector(ctx, "1001-42-0xabcdef01")
		require.NoError(t, err)
		require.NotNil(t, collector)
		assert.Equal(t, uint64(1001), collector.SongID)
		assert.Equal(t, uint64(42), collector.FarcasterID)
		assert.Equal(t, "0xabcdef01", collector.TxHash)
		assert.Equal(t, uint64(500), collector.BlockNumber)
		assert.Equal(t, input.PurchaseTimestamp.Unix(), collector.PurchaseTimestamp)
		assert.NotEmpty(t, collector.Raw)
	})

	t.Run("replaying the same collection is a no-op", func(t *testing.T) {
		input := buildTestCollection(1002, 7, "0xreplay", 600)

		created, err := store.RecordCollection(ctx, input)
		require.NoError(t, err)
		assert.True(t, created)

		for range 3 {
			created, err = store.RecordCollection(ctx, input)
			require.NoError(t, err)
			assert.False(t, created)
		}

		song, err := store.GetSong(ctx, domain.SongEntityID(1002))
		require.NoError(t, err)
		require.NotNil(t, song)
		assert.Equal(t, uint64(1), song.TotalCollectors)
	})

	t.Run("tx hash case does not create a second collector", func(t *testing.T) {
		_, err := store.RecordCollection(ctx, buildTestCollection(1003, 9, "0xAbC", 700))
		require.NoError(t, err)

		created, err := store.RecordCollection(ctx, buildTestCollection(1003, 9, "0xabc", 700))
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("counter equals number of distinct collectors", func(t *testing.T) {
		songID := uint64(1004)
		inputs := []RecordCollectionInput{
			buildTestCollection(songID, 1, "0xtx1", 10),
			buildTestCollection(songID, 2, "0xtx2", 11),
			buildTestCollection(songID, 1, "0xtx3", 12), // same purchaser, new transaction
			buildTestCollection(songID, 2, "0xtx2", 11), // duplicate
			buildTestCollection(songID, 3, "0xtx4", 13),
		}
		for _, input := range inputs {
			_, err := store.RecordCollection(ctx, input)
			require.NoError(t, err)
		}

		song, err := store.GetSong(ctx, domain.SongEntityID(songID))
		require.NoError(t, err)
		require.NotNil(t, song)

		collectors, total, err := store.ListCollectorsBySong(ctx, songID, 100, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(4), total)
		assert.Len(t, collectors, 4)
		assert.Equal(t, total, song.TotalCollectors)
	})

	t.Run("batch with a repeated song collapses", func(t *testing.T) {
		created := 0
		for _, songID := range []uint64{1005, 1007, 1005} {
			ok, err := store.RecordCollection(ctx, buildTestCollection(songID, 77, "0xbatch", 800))
			require.NoError(t, err)
			if ok {
				created++
			}
		}
		assert.Equal(t, 2, created)

		song5, err := store.GetSong(ctx, domain.SongEntityID(1005))
		require.NoError(t, err)
		require.NotNil(t, song5)
		assert.Equal(t, uint64(1), song5.TotalCollectors)

		song7, err := store.GetSong(ctx, domain.SongEntityID(1007))
		require.NoError(t, err)
		require.NotNil(t, song7)
		assert.Equal(t, uint64(1), song7.TotalCollectors)
	})
}

// =============================================================================
// Test: Reads
// =============================================================================

func testGetMissing(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("missing song returns nil", func(t *testing.T) {
		song, err := store.GetSong(ctx, "987654321")
		require.NoError(t, err)
		assert.Nil(t, song)
	})

	t.Run("missing collector returns nil", func(t *testing.T) {
		collector, err := store.GetCollector(ctx, "1-2-0xnothing")
		require.NoError(t, err)
		assert.Nil(t, collector)
	})
}

func testListCollectors(t *testing.T, store Store) {
	ctx := context.Background()
	songID := uint64(2001)

	for i := range 5 {
		block := uint64(100 + i) //nolint:gosec,G115
		_, err := store.RecordCollection(ctx, buildTestCollection(songID, uint64(i+1), fmt.Sprintf("0xlist%d", i), block)) //nolint:gosec,G115
		require.NoError(t, err)
	}
	_, err := store.RecordCollection(ctx, buildTestCollection(2002, 1, "0xother", 1000))
	require.NoError(t, err)

	t.Run("by song orders newest block first", func(t *testing.T) {
		collectors, total, err := store.ListCollectorsBySong(ctx, songID, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(5), total)
		require.Len(t, collectors, 2)
		assert.Equal(t, uint64(104), collectors[0].BlockNumber)
		assert.Equal(t, uint64(103), collectors[1].BlockNumber)
	})

	t.Run("by song honours offset", func(t *testing.T) {
		collectors, _, err := store.ListCollectorsBySong(ctx, songID, 10, 4)
		require.NoError(t, err)
		require.Len(t, collectors, 1)
		assert.Equal(t, uint64(100), collectors[0].BlockNumber)
	})

	t.Run("recent spans songs", func(t *testing.T) {
		collectors, err := store.ListRecentCollectors(ctx, 2)
		require.NoError(t, err)
		require.Len(t, collectors, 2)
		assert.Equal(t, uint64(2002), collectors[0].SongID)
		assert.Equal(t, uint64(104), collectors[1].BlockNumber)
	})
}

// =============================================================================
// Test: BlockCursor
// =============================================================================

func testBlockCursor(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("get non-existent cursor returns 0", func(t *testing.T) {
		cursor, err := store.GetBlockCursor(ctx, "test_chain_nonexistent")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), cursor)
	})

	t.Run("set and get cursor", func(t *testing.T) {
		chain := string(domain.ChainBaseSepolia)

		err := store.SetBlockCursor(ctx, chain, 12345)
		require.NoError(t, err)

		cursor, err := store.GetBlockCursor(ctx, chain)
		require.NoError(t, err)
		assert.Equal(t, uint64(12345), cursor)
	})

	t.Run("update existing cursor", func(t *testing.T) {
		chain := "test_chain_update"

		require.NoError(t, store.SetBlockCursor(ctx, chain, 100))
		require.NoError(t, store.SetBlockCursor(ctx, chain, 200))

		cursor, err := store.GetBlockCursor(ctx, chain)
		require.NoError(t, err)
		assert.Equal(t, uint64(200), cursor)
	})
}

func testPing(t *testing.T, store Store) {
	require.NoError(t, store.Ping(context.Background()))
}

// RunStoreTests runs all store tests against the provided store implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"RecordCollection", testRecordCollection},
		{"GetMissing", testGetMissing},
		{"ListCollectors", testListCollectors},
		{"BlockCursor", testBlockCursor},
		{"Ping", testPing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}

func TestNormalizeConnectionPoolSettings(t *testing.T) {
	open, idle, lifetime, idleTime := NormalizeConnectionPoolSettings(0, 0, 0, 0)
	assert.Equal(t, 20, open)
	assert.Equal(t, 5, idle)
	assert.Equal(t, 5*time.Minute, lifetime)
	assert.Equal(t, 10*time.Minute, idleTime)

	open, idle, _, _ = NormalizeConnectionPoolSettings(4, 10, time.Minute, time.Minute)
	assert.Equal(t, 4, open)
	assert.Equal(t, 4, idle)
}

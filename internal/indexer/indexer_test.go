package indexer_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shine-music/shine-indexer/internal/adapter"
	"github.com/shine-music/shine-indexer/internal/domain"
	"github.com/shine-music/shine-indexer/internal/indexer"
	"github.com/shine-music/shine-indexer/internal/logger"
	"github.com/shine-music/shine-indexer/internal/mocks"
	"github.com/shine-music/shine-indexer/internal/store"
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// memoryEntities mimics the transactional store semantics: a collector id is
// recorded at most once and each new one bumps its song counter
type memoryEntities struct {
	mu         sync.Mutex
	songs      map[uint64]uint64
	collectors map[string]store.RecordCollectionInput
}

func newMemoryEntities() *memoryEntities {
	return &memoryEntities{
		songs:      make(map[uint64]uint64),
		collectors: make(map[string]store.RecordCollectionInput),
	}
}

func (m *memoryEntities) record(_ context.Context, input store.RecordCollectionInput) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.songs[input.SongID]; !ok {
		m.songs[input.SongID] = 0
	}
	id := domain.CollectorID(input.SongID, input.FarcasterID, input.TxHash)
	if _, ok := m.collectors[id]; ok {
		return false, nil
	}
	m.collectors[id] = input
	m.songs[input.SongID]++
	return true, nil
}

type testIndexerMocks struct {
	ctrl     *gomock.Controller
	store    *mocks.MockStore
	entities *memoryEntities
	indexer  indexer.Indexer
}

func setupTestIndexer(t *testing.T) *testIndexerMocks {
	ctrl := gomock.NewController(t)

	tm := &testIndexerMocks{
		ctrl:     ctrl,
		store:    mocks.NewMockStore(ctrl),
		entities: newMemoryEntities(),
	}
	tm.indexer = indexer.NewIndexer(tm.store, adapter.NewJSON())

	return tm
}

func tearDownTestIndexer(mocks *testIndexerMocks) {
	mocks.ctrl.Finish()
}

func (tm *testIndexerMocks) useMemoryStore() {
	tm.store.EXPECT().
		RecordCollection(gomock.Any(), gomock.Any()).
		DoAndReturn(tm.entities.record).
		AnyTimes()
}

func TestIndexer_HandleInstaBuy_Idempotent(t *testing.T) {
	mocks := setupTestIndexer(t)
	defer tearDownTestIndexer(mocks)
	mocks.useMemoryStore()

	ctx := context.Background()
	event := indexer.InstaBuy{
		SongID:      42,
		FarcasterID: 1001,
		TxHash:      "0xAAA",
		BlockNumber: 1000,
		Timestamp:   time.Unix(1700000000, 0),
	}

	result, err := mocks.indexer.HandleInstaBuy(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, indexer.Result{Created: 1}, result)

	result, err = mocks.indexer.HandleInstaBuy(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, indexer.Result{Skipped: 1}, result)

	assert.Len(t, mocks.entities.collectors, 1)
	assert.Equal(t, uint64(1), mocks.entities.songs[42])
}

func TestIndexer_HandleInstaBuy_CounterInvariant(t *testing.T) {
	mocks := setupTestIndexer(t)
	defer tearDownTestIndexer(mocks)
	mocks.useMemoryStore()

	ctx := context.Background()
	events := []indexer.InstaBuy{
		{SongID: 7, FarcasterID: 1, TxHash: "0x01", BlockNumber: 10},
		{SongID: 7, FarcasterID: 2, TxHash: "0x02", BlockNumber: 11},
		{SongID: 7, FarcasterID: 1, TxHash: "0x03", BlockNumber: 12},
		{SongID: 7, FarcasterID: 3, TxHash: "0x04", BlockNumber: 12},
		{SongID: 7, FarcasterID: 2, TxHash: "0x02", BlockNumber: 11}, // replay
	}

	for _, event := range events {
		_, err := mocks.indexer.HandleInstaBuy(ctx, event)
		require.NoError(t, err)
	}

	assert.Equal(t, uint64(4), mocks.entities.songs[7])
	assert.Len(t, mocks.entities.collectors, 4)
}

func TestIndexer_HandleBuy_RepeatedSongCollapses(t *testing.T) {
	mocks := setupTestIndexer(t)
	defer tearDownTestIndexer(mocks)
	mocks.useMemoryStore()

	result, err := mocks.indexer.HandleBuy(context.Background(), indexer.Buy{
		SongIDs:     []uint64{5, 7, 5},
		FarcasterID: 99,
		TxHash:      "0xT",
		BlockNumber: 2000,
	})
	require.NoError(t, err)
	assert.Equal(t, indexer.Result{Created: 2, Skipped: 1}, result)

	assert.Len(t, mocks.entities.collectors, 2)
	assert.Contains(t, mocks.entities.collectors, "5-99-0xt")
	assert.Contains(t, mocks.entities.collectors, "7-99-0xt")
	assert.Equal(t, uint64(1), mocks.entities.songs[5])
	assert.Equal(t, uint64(1), mocks.entities.songs[7])
}

func TestIndexer_HandleBuy_StoreFailureAborts(t *testing.T) {
	mocks := setupTestIndexer(t)
	defer tearDownTestIndexer(mocks)

	storeErr := errors.New("connection reset")
	gomock.InOrder(
		mocks.store.EXPECT().
			RecordCollection(gomock.Any(), gomock.Any()).
			DoAndReturn(mocks.entities.record),
		mocks.store.EXPECT().
			RecordCollection(gomock.Any(), gomock.Any()).
			Return(false, storeErr),
	)

	event := indexer.Buy{
		SongIDs:     []uint64{1, 2, 3},
		FarcasterID: 5,
		TxHash:      "0xfail",
		BlockNumber: 10,
	}
	result, err := mocks.indexer.HandleBuy(context.Background(), event)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, 1, result.Created)

	// Retrying the whole handler absorbs the already-committed song
	mocks.useMemoryStore()
	result, err = mocks.indexer.HandleBuy(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, indexer.Result{Created: 2, Skipped: 1}, result)
	assert.Equal(t, uint64(1), mocks.entities.songs[1])
	assert.Equal(t, uint64(1), mocks.entities.songs[2])
	assert.Equal(t, uint64(1), mocks.entities.songs[3])
}

func TestIndexer_HandleBuy_ConcurrentDelivery(t *testing.T) {
	mocks := setupTestIndexer(t)
	defer tearDownTestIndexer(mocks)
	mocks.useMemoryStore()

	ctx := context.Background()
	var wg sync.WaitGroup
	for fid := uint64(1); fid <= 10; fid++ {
		for range 2 {
			wg.Add(1)
			go func(fid uint64) {
				defer wg.Done()
				_, err := mocks.indexer.HandleBuy(ctx, indexer.Buy{
					SongIDs:     []uint64{1, 2},
					FarcasterID: fid,
					TxHash:      "0xshared",
					BlockNumber: 50,
				})
				assert.NoError(t, err)
			}(fid)
		}
	}
	wg.Wait()

	assert.Equal(t, uint64(10), mocks.entities.songs[1])
	assert.Equal(t, uint64(10), mocks.entities.songs[2])
}

func TestIndexer_HandleEvent(t *testing.T) {
	buyer := "0x00000000000000000000000000000000000000Bb"

	tests := []struct {
		name        string
		event       *domain.PurchaseEvent
		expectError error
		validate    func(*testing.T, []store.RecordCollectionInput)
	}{
		{
			name: "insta buy",
			event: &domain.PurchaseEvent{
				Chain:       domain.ChainBaseMainnet,
				Kind:        domain.EventKindInstaBuy,
				SongIDs:     []uint64{3},
				FarcasterID: 12,
				TxHash:      "0xinsta",
				BlockNumber: 77,
				Timestamp:   time.Unix(1700000100, 0),
			},
			validate: func(t *testing.T, inputs []store.RecordCollectionInput) {
				require.Len(t, inputs, 1)
				assert.Equal(t, uint64(3), inputs[0].SongID)
				assert.Equal(t, uint64(12), inputs[0].FarcasterID)
				assert.Equal(t, uint64(77), inputs[0].BlockNumber)
				assert.Equal(t, int64(1700000100), inputs[0].PurchaseTimestamp.Unix())
				assert.Contains(t, string(inputs[0].Raw), `"tx_hash":"0xinsta"`)
			},
		},
		{
			name: "buy keeps song order",
			event: &domain.PurchaseEvent{
				Chain:       domain.ChainBaseMainnet,
				Kind:        domain.EventKindBuy,
				SongIDs:     []uint64{9, 4, 6},
				FarcasterID: 12,
				TxHash:      "0xbatch",
			},
			validate: func(t *testing.T, inputs []store.RecordCollectionInput) {
				require.Len(t, inputs, 3)
				assert.Equal(t, uint64(9), inputs[0].SongID)
				assert.Equal(t, uint64(4), inputs[1].SongID)
				assert.Equal(t, uint64(6), inputs[2].SongID)
			},
		},
		{
			name: "zero farcaster id uses synthetic id from buyer",
			event: &domain.PurchaseEvent{
				Chain:        domain.ChainBaseMainnet,
				Kind:         domain.EventKindInstaBuy,
				SongIDs:      []uint64{3},
				BuyerAddress: &buyer,
				TxHash:       "0xsynthetic",
			},
			validate: func(t *testing.T, inputs []store.RecordCollectionInput) {
				require.Len(t, inputs, 1)
				assert.Equal(t, domain.SyntheticFarcasterID(buyer), inputs[0].FarcasterID)
				assert.NotZero(t, inputs[0].FarcasterID)
			},
		},
		{
			name: "insta buy with two songs is rejected",
			event: &domain.PurchaseEvent{
				Kind:    domain.EventKindInstaBuy,
				SongIDs: []uint64{1, 2},
				TxHash:  "0xbad",
			},
			expectError: domain.ErrInvalidEvent,
		},
		{
			name: "song id beyond the stored id range is rejected",
			event: &domain.PurchaseEvent{
				Kind:        domain.EventKindBuy,
				SongIDs:     []uint64{1, domain.MaxID + 1},
				FarcasterID: 7,
				TxHash:      "0xhuge",
			},
			expectError: domain.ErrInvalidEvent,
		},
		{
			name:        "nil event is rejected",
			event:       nil,
			expectError: domain.ErrInvalidEvent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := setupTestIndexer(t)
			defer tearDownTestIndexer(mocks)

			var inputs []store.RecordCollectionInput
			mocks.store.EXPECT().
				RecordCollection(gomock.Any(), gomock.Any()).
				DoAndReturn(func(ctx context.Context, input store.RecordCollectionInput) (bool, error) {
					inputs = append(inputs, input)
					return true, nil
				}).
				AnyTimes()

			_, err := mocks.indexer.HandleEvent(context.Background(), tt.event)
			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				assert.Empty(t, inputs)
				return
			}
			require.NoError(t, err)
			tt.validate(t, inputs)
		})
	}
}

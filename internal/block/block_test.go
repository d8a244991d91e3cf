package block_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shine-music/shine-indexer/internal/block"
	"github.com/shine-music/shine-indexer/internal/logger"
	"github.com/shine-music/shine-indexer/internal/mocks"
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

type testBlockProviderMocks struct {
	ctrl     *gomock.Controller
	fetcher  *mocks.MockBlockFetcher
	clock    *mocks.MockClock
	provider block.BlockProvider
}

func setupTest(t *testing.T) *testBlockProviderMocks {
	ctrl := gomock.NewController(t)

	tm := &testBlockProviderMocks{
		ctrl:    ctrl,
		fetcher: mocks.NewMockBlockFetcher(ctrl),
		clock:   mocks.NewMockClock(ctrl),
	}
	tm.provider = block.NewBlockProvider(tm.fetcher, block.Config{
		TTL:         10 * time.Second,
		StaleWindow: 2 * time.Minute,
	}, tm.clock)

	return tm
}

func tearDownTest(tm *testBlockProviderMocks) {
	tm.ctrl.Finish()
}

func TestBlockProvider_GetLatestBlock_FirstFetch(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.clock.EXPECT().Now().Return(now)
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1000), nil)

	blockNum, err := tm.provider.GetLatestBlock(ctx)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1000), blockNum)
}

func TestBlockProvider_GetLatestBlock_UsesCache_WithinTTL(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.clock.EXPECT().Now().Return(now)
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1000), nil)

	_, err := tm.provider.GetLatestBlock(ctx)
	require.NoError(t, err)

	// Second call within TTL must not hit the fetcher
	tm.clock.EXPECT().Now().Return(now.Add(5 * time.Second))

	blockNum, err := tm.provider.GetLatestBlock(ctx)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1000), blockNum)
}

func TestBlockProvider_GetLatestBlock_RefreshesCache_AfterTTL(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.clock.EXPECT().Now().Return(now)
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1000), nil)
	_, err := tm.provider.GetLatestBlock(ctx)
	require.NoError(t, err)

	tm.clock.EXPECT().Now().Return(now.Add(11 * time.Second))
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1005), nil)

	blockNum, err := tm.provider.GetLatestBlock(ctx)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1005), blockNum)
}

func TestBlockProvider_GetLatestBlock_StaleOnError(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.clock.EXPECT().Now().Return(now)
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1000), nil)
	_, err := tm.provider.GetLatestBlock(ctx)
	require.NoError(t, err)

	// Within stale window: serve the cached value
	tm.clock.EXPECT().Now().Return(now.Add(time.Minute))
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(0), errors.New("rpc down"))

	blockNum, err := tm.provider.GetLatestBlock(ctx)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1000), blockNum)

	// Beyond stale window: give up
	tm.clock.EXPECT().Now().Return(now.Add(3 * time.Minute))
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(0), errors.New("rpc down"))

	_, err = tm.provider.GetLatestBlock(ctx)
	assert.Error(t, err)
}

func TestBlockProvider_GetLatestBlock_NoCacheError(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	tm.clock.EXPECT().Now().Return(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(0), errors.New("rpc down"))

	_, err := tm.provider.GetLatestBlock(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no valid cache available")
}

func TestBlockProvider_GetLatestBlock_IgnoresLaggingProvider(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tm.clock.EXPECT().Now().Return(now)
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(1000), nil)
	_, err := tm.provider.GetLatestBlock(ctx)
	require.NoError(t, err)

	tm.clock.EXPECT().Now().Return(now.Add(11 * time.Second))
	tm.fetcher.EXPECT().FetchLatestBlock(ctx).Return(uint64(990), nil)

	blockNum, err := tm.provider.GetLatestBlock(ctx)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1000), blockNum)
}

func TestBlockProvider_GetBlockTimestamp_Caches(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	ts := time.Unix(1700000000, 0)

	tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(42)).Return(ts, nil).Times(1)

	got, err := tm.provider.GetBlockTimestamp(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, ts, got)

	got, err = tm.provider.GetBlockTimestamp(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, ts, got)
}

func TestBlockProvider_GetBlockTimestamp_ErrorNotCached(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	ctx := context.Background()
	ts := time.Unix(1700000000, 0)

	gomock.InOrder(
		tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(7)).Return(time.Time{}, errors.New("timeout")),
		tm.fetcher.EXPECT().FetchBlockTimestamp(ctx, uint64(7)).Return(ts, nil),
	)

	_, err := tm.provider.GetBlockTimestamp(ctx, 7)
	assert.Error(t, err)

	got, err := tm.provider.GetBlockTimestamp(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, ts, got)
}

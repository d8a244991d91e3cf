package ethereum

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shine-music/shine-indexer/internal/mocks"
)

func TestBlockFetcher_FetchLatestBlock(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockEthClient(ctrl)
	fetcher := NewBlockFetcher(client)

	client.EXPECT().HeaderByNumber(gomock.Any(), gomock.Nil()).Return(&types.Header{Number: big.NewInt(24_000_000)}, nil)

	latest, err := fetcher.FetchLatestBlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(24_000_000), latest)
}

func TestBlockFetcher_FetchLatestBlock_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockEthClient(ctrl)
	fetcher := NewBlockFetcher(client)

	client.EXPECT().HeaderByNumber(gomock.Any(), gomock.Nil()).Return(nil, errors.New("connection reset"))

	_, err := fetcher.FetchLatestBlock(context.Background())
	assert.ErrorContains(t, err, "failed to get latest block")
}

func TestBlockFetcher_FetchBlockTimestamp(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockEthClient(ctrl)
	fetcher := NewBlockFetcher(client)

	client.EXPECT().HeaderByNumber(gomock.Any(), big.NewInt(1234)).
		Return(&types.Header{Number: big.NewInt(1234), Time: 1_700_000_000}, nil)

	ts, err := fetcher.FetchBlockTimestamp(context.Background(), 1234)
	require.NoError(t, err)
	assert.True(t, ts.Equal(time.Unix(1_700_000_000, 0)))
}

func TestBlockFetcher_FetchBlockTimestamp_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockEthClient(ctrl)
	fetcher := NewBlockFetcher(client)

	client.EXPECT().HeaderByNumber(gomock.Any(), gomock.Any()).Return(nil, errors.New("header not found"))

	_, err := fetcher.FetchBlockTimestamp(context.Background(), 99)
	assert.ErrorContains(t, err, "failed to get block 99")
}

package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/shine-music/shine-indexer/internal/adapter"
	"github.com/shine-music/shine-indexer/internal/block"
)

// blockFetcher implements block.BlockFetcher over JSON-RPC headers
type blockFetcher struct {
	client adapter.EthClient
}

func NewBlockFetcher(client adapter.EthClient) block.BlockFetcher {
	return &blockFetcher{client: client}
}

// FetchLatestBlock fetches the latest block number
func (f *blockFetcher) FetchLatestBlock(ctx context.Context) (uint64, error) {
	header, err := f.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest block: %w", err)
	}
	return header.Number.Uint64(), nil
}

// FetchBlockTimestamp fetches the timestamp for a given block number
func (f *blockFetcher) FetchBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error) {
	header, err := f.client.HeaderByNumber(ctx, new(big.Int).SetUint64(blockNumber))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get block %d: %w", blockNumber, err)
	}
	return blockTime(header), nil
}

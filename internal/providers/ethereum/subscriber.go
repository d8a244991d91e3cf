package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/shine-music/shine-indexer/internal/domain"
	"github.com/shine-music/shine-indexer/internal/logger"
	"github.com/shine-music/shine-indexer/internal/messaging"
)

// Config holds the configuration for purchase event subscription
type Config struct {
	WebSocketURL string       // WebSocket URL (e.g., wss://base-mainnet.g.alchemy.com/v2/KEY)
	ChainID      domain.Chain // e.g., "eip155:8453" for Base mainnet
}

type shineSubscriber struct {
	client  ShineClient
	chainID domain.Chain
}

// NewSubscriber creates a new purchase event subscriber
func NewSubscriber(cfg Config, client ShineClient) messaging.Subscriber {
	return &shineSubscriber{
		client:  client,
		chainID: cfg.ChainID,
	}
}

// SubscribeEvents subscribes to UserInstaBuy and UserBuy events of the Shine contract
func (s *shineSubscriber) SubscribeEvents(ctx context.Context, fromBlock uint64, handler messaging.EventHandler) error {
	query := ethereum.FilterQuery{
		Addresses: []common.Address{s.client.ContractAddress()},
		Topics: [][]common.Hash{
			{
				userInstaBuyEventSignature,
				userBuyEventSignature,
			},
		},
	}
	if fromBlock > 0 {
		query.FromBlock = new(big.Int).SetUint64(fromBlock)
	}

	logs := make(chan types.Log)
	sub, err := s.client.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSubscriptionFailed, err)
	}
	defer func() {
		logger.InfoCtx(ctx, "Unsubscribing from purchase event logs")
		sub.Unsubscribe()
	}()

	logger.InfoCtx(ctx, "Subscribed to purchase events",
		zap.String("chain", string(s.chainID)),
		zap.Uint64("fromBlock", fromBlock))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("%w: %w", domain.ErrSubscriptionFailed, err)
		case vLog := <-logs:
			event, err := s.client.ParsePurchaseLog(ctx, vLog)
			if err != nil {
				if !errors.Is(err, domain.ErrInvalidEvent) {
					return fmt.Errorf("failed to parse log: %w", err)
				}
				logger.ErrorCtx(ctx, err,
					zap.String("message", "Skipping malformed log"),
					zap.String("txHash", vLog.TxHash.Hex()))
				continue
			}

			if event == nil {
				continue
			}

			if err := handler(event); err != nil {
				return fmt.Errorf("failed to handle event: %w", err)
			}
		}
	}
}

// GetLatestBlock returns the latest block number
func (s *shineSubscriber) GetLatestBlock(ctx context.Context) (uint64, error) {
	return s.client.LatestBlock(ctx)
}

// Close closes the connection
func (s *shineSubscriber) Close() {
	if s.client == nil {
		return
	}

	s.client.Close()
	logger.Info("Ethereum WebSocket connection closed")
}

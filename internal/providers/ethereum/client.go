package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/shine-music/shine-indexer/internal/adapter"
	"github.com/shine-music/shine-indexer/internal/block"
	"github.com/shine-music/shine-indexer/internal/domain"
	"github.com/shine-music/shine-indexer/internal/logger"
)

// Event signatures
var (
	// UserInstaBuy(uint256 indexed songId, uint256 indexed farcasterId)
	userInstaBuyEventSignature = crypto.Keccak256Hash([]byte("UserInstaBuy(uint256,uint256)"))

	// UserBuy(uint256[] songIds, uint256 indexed farcasterId), song ids live in the log data
	userBuyEventSignature = crypto.Keccak256Hash([]byte("UserBuy(uint256[],uint256)"))
)

const shineABIJSON = `[
	{"anonymous":false,"inputs":[{"indexed":true,"name":"songId","type":"uint256"},{"indexed":true,"name":"farcasterId","type":"uint256"}],"name":"UserInstaBuy","type":"event"},
	{"anonymous":false,"inputs":[{"indexed":false,"name":"songIds","type":"uint256[]"},{"indexed":true,"name":"farcasterId","type":"uint256"}],"name":"UserBuy","type":"event"},
	{"constant":true,"inputs":[{"name":"songId","type":"uint256"}],"name":"getSongMetadata","outputs":[{"name":"title","type":"string"},{"name":"artist","type":"address"},{"name":"mediaURI","type":"string"},{"name":"metadataURI","type":"string"},{"name":"price","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"songId","type":"uint256"}],"name":"songIdExists","outputs":[{"name":"","type":"bool"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"getTotalSongCount","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}
]`

var shineABI = mustParseABI(shineABIJSON)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid contract ABI: %v", err))
	}
	return parsed
}

// defaultMaxLogRange is the widest block range sent in one eth_getLogs call.
// Public Base endpoints reject wider ranges.
const defaultMaxLogRange = uint64(10000)

// ShineClient reads purchase events and song state from the Shine contract
//
//go:generate mockgen -source=client.go -destination=../../mocks/shine_client.go -package=mocks -mock_names=ShineClient=MockShineClient
type ShineClient interface {
	// ParsePurchaseLog parses a contract log into a purchase event, resolving the block
	// timestamp and, when the log has no farcaster id, the buyer address.
	// Returns nil, nil for logs that are not purchase events.
	ParsePurchaseLog(ctx context.Context, vLog types.Log) (*domain.PurchaseEvent, error)

	// FilterPurchaseLogs fetches purchase events of one kind within [fromBlock, toBlock].
	// Returned events carry no timestamp.
	FilterPurchaseLogs(ctx context.Context, kind domain.EventKind, fromBlock, toBlock uint64) ([]domain.PurchaseEvent, error)

	// BuyerAddress returns the sender of a purchase transaction
	BuyerAddress(ctx context.Context, txHash string) (string, error)

	// SubscribeFilterLogs subscribes to filter logs
	SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)

	// LatestBlock returns the chain head, possibly cached
	LatestBlock(ctx context.Context) (uint64, error)

	// SongMetadata reads the live metadata of a song
	SongMetadata(ctx context.Context, songID uint64) (*domain.SongMetadata, error)

	// SongIDExists reports whether a song id has been created on the contract
	SongIDExists(ctx context.Context, songID uint64) (bool, error)

	// TotalSongCount returns the number of songs created on the contract
	TotalSongCount(ctx context.Context) (uint64, error)

	// ContractAddress returns the watched contract address
	ContractAddress() common.Address

	// Close closes the connection
	Close()
}

// ClientConfig holds the configuration for the Shine contract client
type ClientConfig struct {
	ChainID         domain.Chain
	ContractAddress string
	// MaxLogRange caps the block range of one log query; 0 uses the default
	MaxLogRange uint64
}

type shineClient struct {
	chainID       domain.Chain
	contract      common.Address
	maxLogRange   uint64
	client        adapter.EthClient
	blockProvider block.BlockProvider
}

// NewClient creates a new Shine contract client
func NewClient(cfg ClientConfig, client adapter.EthClient, blockProvider block.BlockProvider) ShineClient {
	maxLogRange := cfg.MaxLogRange
	if maxLogRange == 0 {
		maxLogRange = defaultMaxLogRange
	}

	return &shineClient{
		chainID:       cfg.ChainID,
		contract:      common.HexToAddress(cfg.ContractAddress),
		maxLogRange:   maxLogRange,
		client:        client,
		blockProvider: blockProvider,
	}
}

// ContractAddress returns the watched contract address
func (c *shineClient) ContractAddress() common.Address {
	return c.contract
}

// SubscribeFilterLogs subscribes to filter logs
func (c *shineClient) SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return c.client.SubscribeFilterLogs(ctx, query, ch)
}

// LatestBlock returns the chain head
func (c *shineClient) LatestBlock(ctx context.Context) (uint64, error) {
	return c.blockProvider.GetLatestBlock(ctx)
}

// FilterPurchaseLogs fetches purchase events of one kind within [fromBlock, toBlock]
func (c *shineClient) FilterPurchaseLogs(ctx context.Context, kind domain.EventKind, fromBlock, toBlock uint64) ([]domain.PurchaseEvent, error) {
	signature, err := eventSignature(kind)
	if err != nil {
		return nil, err
	}
	if fromBlock > toBlock {
		return []domain.PurchaseEvent{}, nil
	}

	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{c.contract},
		Topics:    [][]common.Hash{{signature}},
	}

	logs, err := c.getLogsWithRetry(ctx, query, c.maxLogRange)
	if err != nil {
		return nil, fmt.Errorf("failed to filter %s logs: %w", kind, err)
	}

	events := make([]domain.PurchaseEvent, 0, len(logs))
	for _, vLog := range logs {
		event, err := c.decodePurchaseLog(vLog)
		if err != nil {
			logger.WarnCtx(ctx, "Skipping undecodable purchase log",
				zap.Error(err),
				zap.String("txHash", vLog.TxHash.Hex()),
				zap.Uint("logIndex", vLog.Index))
			continue
		}
		if event == nil {
			continue
		}
		events = append(events, *event)
	}

	return events, nil
}

// getLogsWithRetry processes the range from query.FromBlock to query.ToBlock in chunks,
// halving the chunk whenever the provider rejects it as too large
func (c *shineClient) getLogsWithRetry(ctx context.Context, query ethereum.FilterQuery, stepSize uint64) ([]types.Log, error) {
	currentStepSize := stepSize

	var allLogs []types.Log
	currentFrom := new(big.Int).Set(query.FromBlock)

	for currentFrom.Cmp(query.ToBlock) <= 0 {
		currentTo := new(big.Int).Add(currentFrom, new(big.Int).SetUint64(currentStepSize-1))
		if currentTo.Cmp(query.ToBlock) > 0 {
			currentTo.Set(query.ToBlock)
		}

		queryCopy := query
		queryCopy.FromBlock = new(big.Int).Set(currentFrom)
		queryCopy.ToBlock = new(big.Int).Set(currentTo)

		logs, err := c.client.FilterLogs(ctx, queryCopy)
		if err == nil {
			allLogs = append(allLogs, logs...)
			currentFrom.SetUint64(currentTo.Uint64() + 1)
			continue
		}

		if !isTooManyResultsError(err) || currentStepSize == 1 {
			return nil, err
		}

		currentStepSize = currentStepSize / 2

		logger.WarnCtx(ctx, "Too many results, reducing step size",
			zap.Uint64("oldStepSize", currentStepSize*2),
			zap.Uint64("newStepSize", currentStepSize),
			zap.Uint64("fromBlock", currentFrom.Uint64()),
			zap.Uint64("toBlock", currentTo.Uint64()))
	}

	return allLogs, nil
}

// isTooManyResultsError checks if the error is related to too many results or too wide a range
func isTooManyResultsError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "query returned more than 10000 results") ||
		strings.Contains(errStr, "query timeout exceeded") ||
		strings.Contains(errStr, "too many results") ||
		strings.Contains(errStr, "exceeded maximum") ||
		strings.Contains(errStr, "block range")
}

func eventSignature(kind domain.EventKind) (common.Hash, error) {
	switch kind {
	case domain.EventKindInstaBuy:
		return userInstaBuyEventSignature, nil
	case domain.EventKindBuy:
		return userBuyEventSignature, nil
	default:
		return common.Hash{}, fmt.Errorf("unsupported event kind: %s", kind)
	}
}

// ParsePurchaseLog parses a contract log into a complete purchase event
func (c *shineClient) ParsePurchaseLog(ctx context.Context, vLog types.Log) (*domain.PurchaseEvent, error) {
	event, err := c.decodePurchaseLog(vLog)
	if err != nil || event == nil {
		return event, err
	}

	timestamp, err := c.blockProvider.GetBlockTimestamp(ctx, vLog.BlockNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get block timestamp: %w", err)
	}
	event.Timestamp = timestamp

	if event.FarcasterID == 0 {
		buyer, err := c.transactionSender(ctx, vLog.TxHash)
		if err != nil {
			// The indexer falls back to farcaster id 0 when no buyer is known
			logger.WarnCtx(ctx, "Failed to resolve buyer address",
				zap.Error(err),
				zap.String("txHash", vLog.TxHash.Hex()))
		} else {
			event.BuyerAddress = &buyer
		}
	}

	return event, nil
}

// decodePurchaseLog decodes the topics and data of a purchase log without any RPC call
func (c *shineClient) decodePurchaseLog(vLog types.Log) (*domain.PurchaseEvent, error) {
	if len(vLog.Topics) == 0 {
		return nil, nil
	}
	if vLog.Removed {
		// Reorged out; the replacement log arrives separately
		return nil, nil
	}

	blockHash := vLog.BlockHash.Hex()
	event := &domain.PurchaseEvent{
		Chain:           c.chainID,
		ContractAddress: vLog.Address.Hex(),
		TxHash:          strings.ToLower(vLog.TxHash.Hex()),
		BlockNumber:     vLog.BlockNumber,
		BlockHash:       &blockHash,
		LogIndex:        uint64(vLog.Index),
	}

	switch vLog.Topics[0] {
	case userInstaBuyEventSignature:
		if len(vLog.Topics) != 3 {
			return nil, invalidLog("invalid UserInstaBuy event: expected 3 topics, got %d", len(vLog.Topics))
		}
		songID, err := topicToID(vLog.Topics[1])
		if err != nil {
			return nil, invalidLog("invalid UserInstaBuy songId: %v", err)
		}
		farcasterID, err := topicToID(vLog.Topics[2])
		if err != nil {
			return nil, invalidLog("invalid UserInstaBuy farcasterId: %v", err)
		}

		event.Kind = domain.EventKindInstaBuy
		event.SongIDs = []uint64{songID}
		event.FarcasterID = farcasterID

	case userBuyEventSignature:
		if len(vLog.Topics) != 2 {
			return nil, invalidLog("invalid UserBuy event: expected 2 topics, got %d", len(vLog.Topics))
		}
		farcasterID, err := topicToID(vLog.Topics[1])
		if err != nil {
			return nil, invalidLog("invalid UserBuy farcasterId: %v", err)
		}

		values, err := shineABI.Unpack("UserBuy", vLog.Data)
		if err != nil {
			return nil, invalidLog("failed to unpack UserBuy data: %v", err)
		}
		if len(values) != 1 {
			return nil, invalidLog("invalid UserBuy data: expected 1 value, got %d", len(values))
		}
		rawIDs, ok := values[0].([]*big.Int)
		if !ok {
			return nil, invalidLog("invalid UserBuy data: unexpected songIds type %T", values[0])
		}

		songIDs := make([]uint64, 0, len(rawIDs))
		for _, raw := range rawIDs {
			id, err := bigToID(raw)
			if err != nil {
				return nil, invalidLog("invalid UserBuy songId: %v", err)
			}
			songIDs = append(songIDs, id)
		}
		if len(songIDs) == 0 {
			return nil, nil
		}

		event.Kind = domain.EventKindBuy
		event.SongIDs = songIDs
		event.FarcasterID = farcasterID

	default:
		return nil, nil
	}

	return event, nil
}

// invalidLog builds a decode error for a malformed purchase log
func invalidLog(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidEvent, fmt.Sprintf(format, args...))
}

func topicToID(topic common.Hash) (uint64, error) {
	return bigToID(new(big.Int).SetBytes(topic.Bytes()))
}

// bigToID converts a song or farcaster id, rejecting values above domain.MaxID
func bigToID(value *big.Int) (uint64, error) {
	if value.Sign() < 0 || !value.IsInt64() {
		return 0, fmt.Errorf("%s exceeds the maximum id %d", value.String(), domain.MaxID)
	}
	return value.Uint64(), nil
}

// BuyerAddress returns the sender of a purchase transaction
func (c *shineClient) BuyerAddress(ctx context.Context, txHash string) (string, error) {
	return c.transactionSender(ctx, common.HexToHash(txHash))
}

// transactionSender recovers the sender address of a transaction
func (c *shineClient) transactionSender(ctx context.Context, txHash common.Hash) (string, error) {
	chainID, err := evmChainID(c.chainID)
	if err != nil {
		return "", err
	}

	tx, _, err := c.client.TransactionByHash(ctx, txHash)
	if err != nil {
		return "", fmt.Errorf("failed to get transaction: %w", err)
	}

	sender, err := types.Sender(types.LatestSignerForChainID(chainID), tx)
	if err != nil {
		return "", fmt.Errorf("failed to recover sender: %w", err)
	}

	return sender.Hex(), nil
}

// evmChainID extracts the numeric chain id from a CAIP-2 "eip155:<id>" chain
func evmChainID(chain domain.Chain) (*big.Int, error) {
	reference, ok := strings.CutPrefix(string(chain), "eip155:")
	if !ok {
		return nil, fmt.Errorf("unsupported chain: %s", chain)
	}
	id, ok := new(big.Int).SetString(reference, 10)
	if !ok {
		return nil, fmt.Errorf("invalid chain reference: %s", chain)
	}
	return id, nil
}

type songMetadataResult struct {
	Title       string
	Artist      common.Address
	MediaURI    string
	MetadataURI string
	Price       *big.Int
}

// SongMetadata reads the live metadata of a song
func (c *shineClient) SongMetadata(ctx context.Context, songID uint64) (*domain.SongMetadata, error) {
	var result songMetadataResult
	if err := c.call(ctx, "getSongMetadata", &result, new(big.Int).SetUint64(songID)); err != nil {
		return nil, err
	}

	if result.Title == "" && result.Artist == (common.Address{}) {
		return nil, fmt.Errorf("%w: %d", domain.ErrSongNotFound, songID)
	}

	price := "0"
	if result.Price != nil {
		price = result.Price.String()
	}

	return &domain.SongMetadata{
		SongID:        songID,
		Title:         result.Title,
		ArtistAddress: result.Artist.Hex(),
		MediaURI:      result.MediaURI,
		MetadataURI:   result.MetadataURI,
		Price:         price,
	}, nil
}

// SongIDExists reports whether a song id has been created on the contract
func (c *shineClient) SongIDExists(ctx context.Context, songID uint64) (bool, error) {
	var exists bool
	if err := c.call(ctx, "songIdExists", &exists, new(big.Int).SetUint64(songID)); err != nil {
		return false, err
	}
	return exists, nil
}

// TotalSongCount returns the number of songs created on the contract
func (c *shineClient) TotalSongCount(ctx context.Context) (uint64, error) {
	var count *big.Int
	if err := c.call(ctx, "getTotalSongCount", &count); err != nil {
		return 0, err
	}
	if count == nil || !count.IsUint64() {
		return 0, errors.New("invalid total song count")
	}
	return count.Uint64(), nil
}

// call packs the arguments, executes a read-only call and unpacks the result into out
func (c *shineClient) call(ctx context.Context, method string, out any, args ...any) error {
	data, err := shineABI.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to pack data: %w", err)
	}

	contractAddr := c.contract
	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &contractAddr,
		Data: data,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}

	if err := shineABI.UnpackIntoInterface(out, method, result); err != nil {
		return fmt.Errorf("failed to unpack %s result: %w", method, err)
	}

	return nil
}

// Close closes the connection
func (c *shineClient) Close() {
	c.client.Close()
}

// blockTime converts a header time to a UTC timestamp
func blockTime(header *types.Header) time.Time {
	return time.Unix(int64(header.Time), 0).UTC() //nolint:gosec,G115 // header.Time is a uint64 from geth which is safe to cast
}

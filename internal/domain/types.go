package domain

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Chain represents the blockchain network identifier using CAIP-2 format
type Chain string

const (
	ChainBaseMainnet Chain = "eip155:8453"
	ChainBaseSepolia Chain = "eip155:84532"
)

// MaxID is the largest song or farcaster id the BIGINT id columns can hold
const MaxID = uint64(math.MaxInt64)

// IsValidChain checks if a chain is valid
func IsValidChain(chain Chain) bool {
	return chain == ChainBaseMainnet || chain == ChainBaseSepolia
}

// EventKind represents the kind of purchase event emitted by the Shine contract
type EventKind string

const (
	// EventKindInstaBuy is a single purchase: one song, one purchaser, one transaction
	EventKindInstaBuy EventKind = "insta_buy"
	// EventKindBuy is a batch purchase: many songs, one purchaser, one transaction
	EventKindBuy EventKind = "buy"
)

// EventKinds lists every purchase event kind in scan order
var EventKinds = []EventKind{EventKindInstaBuy, EventKindBuy}

// PurchaseEvent represents a normalized purchase event
// This is the standard format published to NATS
type PurchaseEvent struct {
	Chain           Chain     `json:"chain"`                   // e.g., "eip155:8453"
	ContractAddress string    `json:"contract_address"`        // Shine contract address
	Kind            EventKind `json:"kind"`                    // insta_buy or buy
	SongIDs         []uint64  `json:"song_ids"`                // exactly one for insta_buy
	FarcasterID     uint64    `json:"farcaster_id"`            // purchaser account id (0 when unknown)
	BuyerAddress    *string   `json:"buyer_address,omitempty"` // transaction sender, when known
	TxHash          string    `json:"tx_hash"`
	BlockNumber     uint64    `json:"block_number"`
	BlockHash       *string   `json:"block_hash,omitempty"`
	LogIndex        uint64    `json:"log_index"`
	Timestamp       time.Time `json:"timestamp"` // block timestamp
}

// Valid reports whether the event carries everything the indexer needs
func (e *PurchaseEvent) Valid() bool {
	if e.TxHash == "" || len(e.SongIDs) == 0 || e.FarcasterID > MaxID {
		return false
	}
	for _, songID := range e.SongIDs {
		if songID > MaxID {
			return false
		}
	}

	switch e.Kind {
	case EventKindInstaBuy:
		return len(e.SongIDs) == 1
	case EventKindBuy:
		return true
	default:
		return false
	}
}

// MessageID returns the identifier used for broker-side de-duplication
func (e *PurchaseEvent) MessageID() string {
	return fmt.Sprintf("%s-%d", strings.ToLower(e.TxHash), e.LogIndex)
}

// ResolvedFarcasterID returns the purchaser id, deriving a synthetic one from the
// buyer address when the event carries no social identity
func (e *PurchaseEvent) ResolvedFarcasterID() uint64 {
	if e.FarcasterID != 0 || e.BuyerAddress == nil || *e.BuyerAddress == "" {
		return e.FarcasterID
	}
	return SyntheticFarcasterID(*e.BuyerAddress)
}

// SongEntityID returns the primary key of the Song aggregate for a song id
func SongEntityID(songID uint64) string {
	return strconv.FormatUint(songID, 10)
}

// CollectorID returns the composite key of a Collector record.
// At most one record exists per (song, purchaser, transaction).
func CollectorID(songID, farcasterID uint64, txHash string) string {
	return fmt.Sprintf("%d-%d-%s", songID, farcasterID, strings.ToLower(txHash))
}

// SyntheticFarcasterID derives a stable purchaser id from a wallet address.
// The top bit is cleared so the value fits a signed 64-bit column.
func SyntheticFarcasterID(address string) uint64 {
	normalized := strings.ToLower(common.HexToAddress(address).Hex())
	hash := crypto.Keccak256([]byte(normalized))
	return binary.BigEndian.Uint64(hash[:8]) &^ (1 << 63)
}

// SongMetadata is the live contract view of a song
type SongMetadata struct {
	SongID        uint64 `json:"song_id"`
	Title         string `json:"title"`
	ArtistAddress string `json:"artist_address"`
	MediaURI      string `json:"media_uri"`
	MetadataURI   string `json:"metadata_uri"`
	Price         string `json:"price"` // wei, decimal string
}

// CollectedSong is one row of the "recently collected" view
type CollectedSong struct {
	SongID   uint64       `json:"song_id"`
	Metadata SongMetadata `json:"metadata"`
	// CollectedAtBlock is 0 when the collection time is unknown
	CollectedAtBlock uint64 `json:"collected_at_block"`
	// FarcasterID is synthetic for wallet-only purchasers and 0 when the purchaser is unknown
	FarcasterID uint64 `json:"farcaster_id"`
}

// CollectedArtist is one row of the "most collected artists" view
type CollectedArtist struct {
	ArtistAddress   string       `json:"artist_address"`
	CollectionCount uint64       `json:"collection_count"`
	SongCount       uint64       `json:"song_count"`
	ExampleSong     SongMetadata `json:"example_song"`
	// CountKnown is false for rows built without event history; CollectionCount is then 0
	CountKnown bool `json:"count_known"`
}

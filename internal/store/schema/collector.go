package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Collector represents the collectors table, one row per (song, purchaser, transaction)
type Collector struct {
	// ID is the composite key "<songId>-<farcasterId>-<txHash>"
	ID string `gorm:"column:id;primaryKey;type:text"`
	// SongID references the collected song
	SongID uint64 `gorm:"column:song_id;not null;index:idx_collectors_song_id;type:bigint"`
	// FarcasterID is the purchaser account id (possibly synthetic)
	FarcasterID uint64 `gorm:"column:farcaster_id;not null;type:bigint"`
	// PurchaseTimestamp is the block timestamp in unix seconds
	PurchaseTimestamp int64 `gorm:"column:purchase_timestamp;not null;type:bigint"`
	// TxHash is the purchase transaction hash, lower-cased
	TxHash string `gorm:"column:tx_hash;not null;type:text"`
	// BlockNumber is the block containing the purchase
	BlockNumber uint64 `gorm:"column:block_number;not null;index:idx_collectors_block_number,sort:desc;type:bigint"`
	// Raw contains the purchase event as received, for debugging
	Raw datatypes.JSON `gorm:"column:raw;type:jsonb"`
	// CreatedAt is the timestamp when this record was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Collector model
func (Collector) TableName() string {
	return "collectors"
}

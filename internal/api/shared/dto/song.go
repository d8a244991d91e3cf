package dto

import (
	"time"

	"github.com/shine-music/shine-indexer/internal/domain"
	"github.com/shine-music/shine-indexer/internal/store/schema"
)

// SongResponse represents a song with its persisted counter and live metadata
type SongResponse struct {
	SongID          uint64    `json:"song_id"`
	TotalCollectors uint64    `json:"total_collectors"`
	CreatedAt       time.Time `json:"created_at,omitzero"`
	UpdatedAt       time.Time `json:"updated_at,omitzero"`

	// Metadata is omitted when the contract read fails
	Metadata *domain.SongMetadata `json:"metadata,omitempty"`
}

// CollectorResponse represents a single collection of a song
type CollectorResponse struct {
	ID                string    `json:"id"`
	SongID            uint64    `json:"song_id"`
	FarcasterID       uint64    `json:"farcaster_id"`
	TxHash            string    `json:"tx_hash"`
	BlockNumber       uint64    `json:"block_number"`
	PurchaseTimestamp time.Time `json:"purchase_timestamp"`
	IndexedAt         time.Time `json:"indexed_at"`
}

// CollectorListResponse represents a page of collectors
type CollectorListResponse struct {
	Collectors []CollectorResponse `json:"collectors"`
	Offset     *uint64             `json:"offset,omitempty"` // next offset, absent on the last page
	Total      uint64              `json:"total"`
}

// MapSongToDTO maps a persisted song and optional metadata to a response
func MapSongToDTO(song *schema.Song, metadata *domain.SongMetadata) *SongResponse {
	resp := &SongResponse{Metadata: metadata}
	if metadata != nil {
		resp.SongID = metadata.SongID
	}
	if song != nil {
		resp.SongID = song.SongID
		resp.TotalCollectors = song.TotalCollectors
		resp.CreatedAt = song.CreatedAt
		resp.UpdatedAt = song.UpdatedAt
	}
	return resp
}

// MapCollectorToDTO maps a collector record to a response
func MapCollectorToDTO(collector schema.Collector) CollectorResponse {
	return CollectorResponse{
		ID:                collector.ID,
		SongID:            collector.SongID,
		FarcasterID:       collector.FarcasterID,
		TxHash:            collector.TxHash,
		BlockNumber:       collector.BlockNumber,
		PurchaseTimestamp: time.Unix(collector.PurchaseTimestamp, 0).UTC(),
		IndexedAt:         collector.CreatedAt,
	}
}

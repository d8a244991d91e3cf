package schema

import "time"

// Song represents the songs table, one row per song that has at least one recorded collection
type Song struct {
	// ID is the primary key, the decimal string form of SongID
	ID string `gorm:"column:id;primaryKey;type:text"`
	// SongID is the on-chain song identifier
	SongID uint64 `gorm:"column:song_id;not null;uniqueIndex;type:bigint"`
	// TotalCollectors equals the number of distinct collectors recorded for this song
	TotalCollectors uint64 `gorm:"column:total_collectors;not null;default:0;type:bigint"`
	// CreatedAt is the timestamp when the song was first recorded
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp of the last counter change
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Song model
func (Song) TableName() string {
	return "songs"
}

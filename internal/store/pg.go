package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"github.com/shine-music/shine-indexer/internal/domain"
	"github.com/shine-music/shine-indexer/internal/logger"
	"github.com/shine-music/shine-indexer/internal/store/schema"
)

type pgStore struct {
	CursorStore
	db *gorm.DB
}

func hasDBResolver(db *gorm.DB) bool {
	return db != nil && db.Callback().Query().Get("gorm:db_resolver") != nil
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{
		CursorStore: NewCursorStore(db),
		db:          db,
	}
}

// Open connects to the primary database and registers any read replicas
func Open(dsn string, replicaDSNs []string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	replicas := make([]gorm.Dialector, 0, len(replicaDSNs))
	for _, replicaDSN := range replicaDSNs {
		replicas = append(replicas, postgres.Open(replicaDSN))
	}
	if err := UseReadReplicas(db, replicas); err != nil {
		return nil, fmt.Errorf("failed to register read replicas: %w", err)
	}

	return db, nil
}

// UseReadReplicas routes reads to the given replica DSNs; writes and locked reads stay on the primary
func UseReadReplicas(db *gorm.DB, replicas []gorm.Dialector) error {
	if len(replicas) == 0 {
		return nil
	}
	return db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RandomPolicy{},
	}))
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// GetSong retrieves a song by its entity ID
func (s *pgStore) GetSong(ctx context.Context, id string) (*schema.Song, error) {
	query := func(db *gorm.DB) (*schema.Song, error) {
		var song schema.Song
		err := db.WithContext(ctx).Where("id = ?", id).First(&song).Error
		if err != nil {
			return nil, err
		}
		return &song, nil
	}

	song, err := query(s.db)
	if err == nil {
		return song, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get song: %w", err)
	}
	if !hasDBResolver(s.db) {
		return nil, nil
	}

	// Replica can lag behind primary; retry on primary before returning not found.
	song, err = query(s.db.Clauses(dbresolver.Write))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get song: %w", err)
	}
	return song, nil
}

// GetCollector retrieves a collector by its composite ID
func (s *pgStore) GetCollector(ctx context.Context, id string) (*schema.Collector, error) {
	var collector schema.Collector
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&collector).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get collector: %w", err)
	}
	return &collector, nil
}

// RecordCollection records a collection and bumps the song counter in one transaction.
// The song row lock serializes concurrent increments for the same song, so the
// existence check and the increment cannot interleave with another writer.
func (s *pgStore) RecordCollection(ctx context.Context, input RecordCollectionInput) (bool, error) {
	songEntityID := domain.SongEntityID(input.SongID)
	collectorID := domain.CollectorID(input.SongID, input.FarcasterID, input.TxHash)

	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Make sure the song exists so there is a row to lock
		song := schema.Song{
			ID:     songEntityID,
			SongID: input.SongID,
		}
		// No conflict target: id and song_id are both unique and either may fire first
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&song).Error; err != nil {
			return fmt.Errorf("failed to ensure song: %w", err)
		}

		// 2. Lock the song row (SELECT ... FOR UPDATE)
		var locked schema.Song
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", songEntityID).
			First(&locked).Error; err != nil {
			return fmt.Errorf("failed to lock song: %w", err)
		}

		// 3. Idempotence guard
		var existing int64
		if err := tx.Model(&schema.Collector{}).
			Where("id = ?", collectorID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check collector: %w", err)
		}
		if existing > 0 {
			return nil
		}

		// 4. Insert the collector and increment the counter
		collector := schema.Collector{
			ID:                collectorID,
			SongID:            input.SongID,
			FarcasterID:       input.FarcasterID,
			PurchaseTimestamp: input.PurchaseTimestamp.Unix(),
			TxHash:            strings.ToLower(input.TxHash),
			BlockNumber:       input.BlockNumber,
			Raw:               input.Raw,
		}
		if err := tx.Create(&collector).Error; err != nil {
			return fmt.Errorf("failed to create collector: %w", err)
		}

		if err := tx.Model(&schema.Song{}).
			Where("id = ?", songEntityID).
			Updates(map[string]any{
				"total_collectors": gorm.Expr("total_collectors + ?", 1),
				"updated_at":       gorm.Expr("now()"),
			}).Error; err != nil {
			return fmt.Errorf("failed to increment total collectors: %w", err)
		}

		created = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if created {
		logger.DebugCtx(ctx, "Recorded collection",
			zap.String("collectorID", collectorID),
			zap.Uint64("blockNumber", input.BlockNumber))
	}

	return created, nil
}

// ListCollectorsBySong lists collectors of a song ordered by block number descending
func (s *pgStore) ListCollectorsBySong(ctx context.Context, songID uint64, limit int, offset uint64) ([]schema.Collector, uint64, error) {
	var total int64
	if err := s.db.WithContext(ctx).
		Model(&schema.Collector{}).
		Where("song_id = ?", songID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count collectors: %w", err)
	}

	var collectors []schema.Collector
	if err := s.db.WithContext(ctx).
		Where("song_id = ?", songID).
		Order("block_number DESC").
		Order("id ASC").
		Limit(limit).
		Offset(int(offset)). //nolint:gosec,G115
		Find(&collectors).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list collectors: %w", err)
	}

	return collectors, uint64(total), nil //nolint:gosec,G115
}

// ListRecentCollectors lists the latest collector records across songs
func (s *pgStore) ListRecentCollectors(ctx context.Context, limit int) ([]schema.Collector, error) {
	var collectors []schema.Collector
	if err := s.db.WithContext(ctx).
		Order("block_number DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&collectors).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent collectors: %w", err)
	}
	return collectors, nil
}

// Ping checks that the database is reachable
func (s *pgStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

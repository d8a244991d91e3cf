package executor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/shine-music/shine-indexer/internal/adapter"
	"github.com/shine-music/shine-indexer/internal/aggregator"
	"github.com/shine-music/shine-indexer/internal/api/shared/constants"
	"github.com/shine-music/shine-indexer/internal/api/shared/dto"
	apierrors "github.com/shine-music/shine-indexer/internal/api/shared/errors"
	"github.com/shine-music/shine-indexer/internal/domain"
	"github.com/shine-music/shine-indexer/internal/logger"
	"github.com/shine-music/shine-indexer/internal/store"
)

const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"
)

// Executor is the interface for the API executor
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// RecentlyCollected returns the "recently collected" view; it never fails
	RecentlyCollected(ctx context.Context, limit int) *dto.RecentlyCollectedResponse

	// MostCollectedArtists returns the "most collected artists" view; it never fails
	MostCollectedArtists(ctx context.Context, limit int) *dto.MostCollectedArtistsResponse

	// GetSong retrieves a song's persisted counter with its live metadata; nil when unknown
	GetSong(ctx context.Context, songID uint64) (*dto.SongResponse, error)

	// ListSongCollectors lists the collectors of a song, newest first
	ListSongCollectors(ctx context.Context, songID uint64, limit *int, offset *uint64) (*dto.CollectorListResponse, error)

	// ListRecentCollections lists the latest indexed collections across all songs
	ListRecentCollections(ctx context.Context, limit *int) (*dto.RecentCollectionsResponse, error)

	// Health reports the reachability of the API dependencies
	Health(ctx context.Context) *dto.HealthResponse
}

type executor struct {
	store store.Store
	views aggregator.Aggregator
	songs aggregator.SongReader
	redis adapter.RedisClient
}

// NewExecutor creates an executor; redis may be nil when the view cache is disabled
func NewExecutor(store store.Store, views aggregator.Aggregator, songs aggregator.SongReader, redis adapter.RedisClient) Executor {
	return &executor{
		store: store,
		views: views,
		songs: songs,
		redis: redis,
	}
}

func (e *executor) RecentlyCollected(ctx context.Context, limit int) *dto.RecentlyCollectedResponse {
	songs := e.views.RecentlyCollected(ctx, limit)
	if songs == nil {
		songs = []domain.CollectedSong{}
	}
	return &dto.RecentlyCollectedResponse{Songs: songs}
}

func (e *executor) MostCollectedArtists(ctx context.Context, limit int) *dto.MostCollectedArtistsResponse {
	artists := e.views.MostCollectedArtists(ctx, limit)
	if artists == nil {
		artists = []domain.CollectedArtist{}
	}
	return &dto.MostCollectedArtistsResponse{Artists: artists}
}

func (e *executor) GetSong(ctx context.Context, songID uint64) (*dto.SongResponse, error) {
	song, err := e.store.GetSong(ctx, domain.SongEntityID(songID))
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get song: %v", err))
	}

	metadata, err := e.songs.SongMetadata(ctx, songID)
	if err != nil {
		if !errors.Is(err, domain.ErrSongNotFound) {
			logger.WarnCtx(ctx, "Failed to read song metadata",
				zap.Uint64("songID", songID),
				zap.Error(err))
			if song == nil {
				return nil, apierrors.NewServiceError(fmt.Sprintf("Failed to read song metadata: %v", err))
			}
		}
		metadata = nil
	}

	if song == nil && metadata == nil {
		return nil, nil
	}

	return dto.MapSongToDTO(song, metadata), nil
}

func (e *executor) ListSongCollectors(ctx context.Context, songID uint64, limit *int, offset *uint64) (*dto.CollectorListResponse, error) {
	// Use defaults if not provided
	if limit == nil {
		defaultLimit := constants.DEFAULT_COLLECTORS_LIMIT
		limit = &defaultLimit
	}
	if offset == nil {
		defaultOffset := constants.DEFAULT_OFFSET
		offset = &defaultOffset
	}

	collectors, total, err := e.store.ListCollectorsBySong(ctx, songID, *limit, *offset)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list collectors: %v", err))
	}

	collectorDTOs := make([]dto.CollectorResponse, len(collectors))
	for i, collector := range collectors {
		collectorDTOs[i] = dto.MapCollectorToDTO(collector)
	}

	// Build response with pagination
	var nextOffset *uint64
	if *offset+uint64(len(collectors)) < total { //nolint:gosec,G115
		next := *offset + uint64(len(collectors)) //nolint:gosec,G115
		nextOffset = &next
	}

	return &dto.CollectorListResponse{
		Collectors: collectorDTOs,
		Offset:     nextOffset,
		Total:      total,
	}, nil
}

func (e *executor) ListRecentCollections(ctx context.Context, limit *int) (*dto.RecentCollectionsResponse, error) {
	if limit == nil {
		defaultLimit := constants.DEFAULT_COLLECTORS_LIMIT
		limit = &defaultLimit
	}

	collectors, err := e.store.ListRecentCollectors(ctx, *limit)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list recent collections: %v", err))
	}

	collectorDTOs := make([]dto.CollectorResponse, len(collectors))
	for i, collector := range collectors {
		collectorDTOs[i] = dto.MapCollectorToDTO(collector)
	}

	return &dto.RecentCollectionsResponse{Collectors: collectorDTOs}, nil
}

func (e *executor) Health(ctx context.Context) *dto.HealthResponse {
	resp := &dto.HealthResponse{
		Status:  HealthStatusOK,
		Service: "shine-indexer-api",
		Checks:  map[string]string{},
	}

	check := func(name string, ping func(context.Context) error) {
		if err := ping(ctx); err != nil {
			logger.WarnCtx(ctx, "Health check failed", zap.String("dependency", name), zap.Error(err))
			resp.Checks[name] = err.Error()
			resp.Status = HealthStatusDegraded
			return
		}
		resp.Checks[name] = HealthStatusOK
	}

	check("database", e.store.Ping)
	if e.redis != nil {
		check("redis", e.redis.Ping)
	}

	return resp
}

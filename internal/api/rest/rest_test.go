package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shine-music/shine-indexer/internal/api/rest"
	"github.com/shine-music/shine-indexer/internal/api/shared/dto"
	"github.com/shine-music/shine-indexer/internal/api/shared/executor"
	"github.com/shine-music/shine-indexer/internal/domain"
	"github.com/shine-music/shine-indexer/internal/mocks"
	"github.com/shine-music/shine-indexer/internal/store/schema"
)

type testMocks struct {
	store *mocks.MockStore
	views *mocks.MockAggregator
	songs *mocks.MockSongReader
	redis *mocks.MockRedisClient
}

func setupRouter(t *testing.T) (*gin.Engine, *testMocks) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	m := &testMocks{
		store: mocks.NewMockStore(ctrl),
		views: mocks.NewMockAggregator(ctrl),
		songs: mocks.NewMockSongReader(ctrl),
		redis: mocks.NewMockRedisClient(ctrl),
	}

	router := gin.New()
	exec := executor.NewExecutor(m.store, m.views, m.songs, m.redis)
	rest.SetupRoutes(router, rest.NewHandler(exec), nil)
	return router, m
}

func doGet(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRecentlyCollected(t *testing.T) {
	router, m := setupRouter(t)

	songs := []domain.CollectedSong{
		{SongID: 42, CollectedAtBlock: 1001, FarcasterID: 7, Metadata: domain.SongMetadata{SongID: 42, Title: "Night Drive"}},
		{SongID: 7, CollectedAtBlock: 990, FarcasterID: 9, Metadata: domain.SongMetadata{SongID: 7, Title: "Tides"}},
	}
	m.views.EXPECT().RecentlyCollected(gomock.Any(), 2).Return(songs)

	rec := doGet(router, "/api/v1/songs/recently-collected?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.RecentlyCollectedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, songs, got.Songs)
}

func TestRecentlyCollected_DefaultLimit(t *testing.T) {
	router, m := setupRouter(t)

	m.views.EXPECT().RecentlyCollected(gomock.Any(), 10).Return(nil)

	rec := doGet(router, "/api/v1/songs/recently-collected")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"songs":[]}`, rec.Body.String())
}

func TestRecentlyCollected_InvalidLimit(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doGet(router, "/api/v1/songs/recently-collected?limit=0")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doGet(router, "/api/v1/songs/recently-collected?limit=abc")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMostCollectedArtists(t *testing.T) {
	router, m := setupRouter(t)

	artists := []domain.CollectedArtist{
		{ArtistAddress: "0xaaaa", CollectionCount: 10, SongCount: 2, CountKnown: true},
		{ArtistAddress: "0xbbbb", CollectionCount: 3, SongCount: 1, CountKnown: true},
	}
	m.views.EXPECT().MostCollectedArtists(gomock.Any(), 5).Return(artists)

	rec := doGet(router, "/api/v1/artists/most-collected?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.MostCollectedArtistsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, artists, got.Artists)
}

func TestMostCollectedArtists_LimitCapped(t *testing.T) {
	router, m := setupRouter(t)

	m.views.EXPECT().MostCollectedArtists(gomock.Any(), 100).Return([]domain.CollectedArtist{})

	rec := doGet(router, "/api/v1/artists/most-collected?limit=1000")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetSong(t *testing.T) {
	router, m := setupRouter(t)

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m.store.EXPECT().GetSong(gomock.Any(), "42").Return(&schema.Song{
		ID:              "42",
		SongID:          42,
		TotalCollectors: 3,
		CreatedAt:       created,
		UpdatedAt:       created,
	}, nil)
	m.songs.EXPECT().SongMetadata(gomock.Any(), uint64(42)).Return(&domain.SongMetadata{
		SongID:        42,
		Title:         "Night Drive",
		ArtistAddress: "0xaaaa",
	}, nil)

	rec := doGet(router, "/api/v1/songs/42")
	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.SongResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(42), got.SongID)
	assert.Equal(t, uint64(3), got.TotalCollectors)
	require.NotNil(t, got.Metadata)
	assert.Equal(t, "Night Drive", got.Metadata.Title)
}

func TestGetSong_MetadataFailureKeepsCounter(t *testing.T) {
	router, m := setupRouter(t)

	m.store.EXPECT().GetSong(gomock.Any(), "42").Return(&schema.Song{ID: "42", SongID: 42, TotalCollectors: 1}, nil)
	m.songs.EXPECT().SongMetadata(gomock.Any(), uint64(42)).Return(nil, errors.New("rpc timeout"))

	rec := doGet(router, "/api/v1/songs/42")
	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.SongResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(1), got.TotalCollectors)
	assert.Nil(t, got.Metadata)
}

func TestGetSong_NeverCollected(t *testing.T) {
	router, m := setupRouter(t)

	m.store.EXPECT().GetSong(gomock.Any(), "8").Return(nil, nil)
	m.songs.EXPECT().SongMetadata(gomock.Any(), uint64(8)).Return(&domain.SongMetadata{SongID: 8, Title: "New"}, nil)

	rec := doGet(router, "/api/v1/songs/8")
	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.SongResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(8), got.SongID)
	assert.Zero(t, got.TotalCollectors)
}

func TestGetSong_NotFound(t *testing.T) {
	router, m := setupRouter(t)

	m.store.EXPECT().GetSong(gomock.Any(), "999").Return(nil, nil)
	m.songs.EXPECT().SongMetadata(gomock.Any(), uint64(999)).Return(nil, domain.ErrSongNotFound)

	rec := doGet(router, "/api/v1/songs/999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSong_UpstreamFailure(t *testing.T) {
	router, m := setupRouter(t)

	m.store.EXPECT().GetSong(gomock.Any(), "5").Return(nil, nil)
	m.songs.EXPECT().SongMetadata(gomock.Any(), uint64(5)).Return(nil, errors.New("rpc down"))

	rec := doGet(router, "/api/v1/songs/5")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetSong_DatabaseError(t *testing.T) {
	router, m := setupRouter(t)

	m.store.EXPECT().GetSong(gomock.Any(), "5").Return(nil, errors.New("connection refused"))

	rec := doGet(router, "/api/v1/songs/5")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "database_error")
}

func TestGetSong_InvalidID(t *testing.T) {
	router, _ := setupRouter(t)

	for _, path := range []string{"/api/v1/songs/abc", "/api/v1/songs/0", "/api/v1/songs/-1"} {
		rec := doGet(router, path)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestListSongCollectors(t *testing.T) {
	router, m := setupRouter(t)

	collectors := []schema.Collector{
		{ID: "42-7-0xabc", SongID: 42, FarcasterID: 7, TxHash: "0xabc", BlockNumber: 1001, PurchaseTimestamp: 1700000000},
		{ID: "42-9-0xdef", SongID: 42, FarcasterID: 9, TxHash: "0xdef", BlockNumber: 1000, PurchaseTimestamp: 1699999990},
	}
	m.store.EXPECT().ListCollectorsBySong(gomock.Any(), uint64(42), 2, uint64(0)).Return(collectors, uint64(5), nil)

	rec := doGet(router, "/api/v1/songs/42/collectors?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.CollectorListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Collectors, 2)
	assert.Equal(t, "42-7-0xabc", got.Collectors[0].ID)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), got.Collectors[0].PurchaseTimestamp)
	assert.Equal(t, uint64(5), got.Total)
	require.NotNil(t, got.Offset)
	assert.Equal(t, uint64(2), *got.Offset)
}

func TestListSongCollectors_LastPage(t *testing.T) {
	router, m := setupRouter(t)

	m.store.EXPECT().ListCollectorsBySong(gomock.Any(), uint64(42), 20, uint64(4)).
		Return([]schema.Collector{{ID: "42-7-0xabc", SongID: 42}}, uint64(5), nil)

	rec := doGet(router, "/api/v1/songs/42/collectors?offset=4")
	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.CollectorListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Nil(t, got.Offset)
}

func TestListSongCollectors_StoreError(t *testing.T) {
	router, m := setupRouter(t)

	m.store.EXPECT().ListCollectorsBySong(gomock.Any(), uint64(42), 20, uint64(0)).
		Return(nil, uint64(0), errors.New("boom"))

	rec := doGet(router, "/api/v1/songs/42/collectors")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListRecentCollections(t *testing.T) {
	router, m := setupRouter(t)

	m.store.EXPECT().ListRecentCollectors(gomock.Any(), 3).
		Return([]schema.Collector{{ID: "1-2-0xaa", SongID: 1, BlockNumber: 77}}, nil)

	rec := doGet(router, "/api/v1/collections/recent?limit=3")
	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.RecentCollectionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Collectors, 1)
	assert.Equal(t, uint64(77), got.Collectors[0].BlockNumber)
}

func TestHealthCheck(t *testing.T) {
	router, m := setupRouter(t)

	m.store.EXPECT().Ping(gomock.Any()).Return(nil)
	m.redis.EXPECT().Ping(gomock.Any()).Return(nil)

	rec := doGet(router, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, executor.HealthStatusOK, got.Status)
	assert.Equal(t, map[string]string{"database": "ok", "redis": "ok"}, got.Checks)
}

func TestHealthCheck_Degraded(t *testing.T) {
	router, m := setupRouter(t)

	m.store.EXPECT().Ping(gomock.Any()).Return(nil)
	m.redis.EXPECT().Ping(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		return errors.New("redis: connection refused")
	})

	rec := doGet(router, "/health")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var got dto.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, executor.HealthStatusDegraded, got.Status)
	assert.Equal(t, "redis: connection refused", got.Checks["redis"])
}

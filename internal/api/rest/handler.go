package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shine-music/shine-indexer/internal/api/shared/executor"
)

// Handler defines the interface for REST API handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/rest_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	HealthCheck(c *gin.Context)
	RecentlyCollected(c *gin.Context)
	MostCollectedArtists(c *gin.Context)
	GetSong(c *gin.Context)
	ListSongCollectors(c *gin.Context)
	ListRecentCollections(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor) Handler {
	return &handler{
		executor: exec,
	}
}

// RecentlyCollected returns songs ordered by most recent collection
func (h *handler) RecentlyCollected(c *gin.Context) {
	queryParams, err := ParseViewQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}
	if err := queryParams.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, h.executor.RecentlyCollected(c.Request.Context(), queryParams.Limit))
}

// MostCollectedArtists returns artists ranked by collections in the recent window
func (h *handler) MostCollectedArtists(c *gin.Context) {
	queryParams, err := ParseViewQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}
	if err := queryParams.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, h.executor.MostCollectedArtists(c.Request.Context(), queryParams.Limit))
}

// GetSong retrieves a single song by its on-chain id
func (h *handler) GetSong(c *gin.Context) {
	songID, err := parseSongID(c.Param("song_id"))
	if err != nil {
		respondBadRequest(c, "Invalid song ID", err.Error())
		return
	}

	song, err := h.executor.GetSong(c.Request.Context(), songID)
	if err != nil {
		respondError(c, err, "Failed to get song")
		return
	}

	if song == nil {
		respondNotFound(c, "Song not found")
		return
	}

	c.JSON(http.StatusOK, song)
}

// ListSongCollectors lists the collectors of a song with pagination
func (h *handler) ListSongCollectors(c *gin.Context) {
	songID, err := parseSongID(c.Param("song_id"))
	if err != nil {
		respondBadRequest(c, "Invalid song ID", err.Error())
		return
	}

	queryParams, err := ParseListCollectorsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}
	if err := queryParams.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	response, err := h.executor.ListSongCollectors(
		c.Request.Context(),
		songID,
		&queryParams.Limit,
		&queryParams.Offset,
	)
	if err != nil {
		respondError(c, err, "Failed to list collectors")
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListRecentCollections lists the latest indexed collections across songs
func (h *handler) ListRecentCollections(c *gin.Context) {
	queryParams, err := ParseRecentCollectionsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	response, err := h.executor.ListRecentCollections(c.Request.Context(), &queryParams.Limit)
	if err != nil {
		respondError(c, err, "Failed to list recent collections")
		return
	}

	c.JSON(http.StatusOK, response)
}

// HealthCheck returns the health status of the API and its dependencies
func (h *handler) HealthCheck(c *gin.Context) {
	health := h.executor.Health(c.Request.Context())

	status := http.StatusOK
	if health.Status != executor.HealthStatusOK {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, health)
}

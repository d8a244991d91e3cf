package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, limiter gin.HandlerFunc) {
	// Health check endpoint (no rate limit, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	if limiter != nil {
		v1.Use(limiter)
	}
	{
		// Aggregated views
		v1.GET("/songs/recently-collected", handler.RecentlyCollected)
		v1.GET("/artists/most-collected", handler.MostCollectedArtists)

		// Persisted records
		v1.GET("/songs/:song_id", handler.GetSong)
		v1.GET("/songs/:song_id/collectors", handler.ListSongCollectors)
		v1.GET("/collections/recent", handler.ListRecentCollections)
	}
}

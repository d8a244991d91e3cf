package rest

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shine-music/shine-indexer/internal/api/shared/constants"
)

// ViewQueryParams holds query parameters for the aggregated views
type ViewQueryParams struct {
	Limit int `form:"limit,default=10"`
}

// ListCollectorsQueryParams holds query parameters for GET /songs/:song_id/collectors
type ListCollectorsQueryParams struct {
	Limit  int    `form:"limit,default=20"`
	Offset uint64 `form:"offset,default=0"`
}

// RecentCollectionsQueryParams holds query parameters for GET /collections/recent
type RecentCollectionsQueryParams struct {
	Limit int `form:"limit,default=20"`
}

// ParseViewQuery parses query parameters for the aggregated views
func ParseViewQuery(c *gin.Context) (*ViewQueryParams, error) {
	var params ViewQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	// Cap limit
	if params.Limit > constants.MAX_PAGE_SIZE {
		params.Limit = constants.MAX_PAGE_SIZE
	}

	return &params, nil
}

// Validate validates the view query parameters
func (p *ViewQueryParams) Validate() error {
	if p.Limit < 1 {
		return fmt.Errorf("limit must be at least 1")
	}
	return nil
}

// ParseListCollectorsQuery parses query parameters for GET /songs/:song_id/collectors
func ParseListCollectorsQuery(c *gin.Context) (*ListCollectorsQueryParams, error) {
	var params ListCollectorsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Limit > constants.MAX_PAGE_SIZE {
		params.Limit = constants.MAX_PAGE_SIZE
	}

	return &params, nil
}

// Validate validates the collectors query parameters
func (p *ListCollectorsQueryParams) Validate() error {
	if p.Limit < 1 {
		return fmt.Errorf("limit must be at least 1")
	}
	return nil
}

// ParseRecentCollectionsQuery parses query parameters for GET /collections/recent
func ParseRecentCollectionsQuery(c *gin.Context) (*RecentCollectionsQueryParams, error) {
	var params RecentCollectionsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Limit > constants.MAX_PAGE_SIZE {
		params.Limit = constants.MAX_PAGE_SIZE
	}
	if params.Limit < 1 {
		return nil, fmt.Errorf("limit must be at least 1")
	}

	return &params, nil
}

// parseSongID parses a positive decimal song id
func parseSongID(raw string) (uint64, error) {
	songID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("song id must be a decimal integer: %w", err)
	}
	if songID == 0 {
		return 0, fmt.Errorf("song id must be positive")
	}
	return songID, nil
}

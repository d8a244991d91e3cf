package dto

import "github.com/shine-music/shine-indexer/internal/domain"

// RecentlyCollectedResponse represents the "recently collected" view
type RecentlyCollectedResponse struct {
	Songs []domain.CollectedSong `json:"songs"`
}

// MostCollectedArtistsResponse represents the "most collected artists" view
type MostCollectedArtistsResponse struct {
	Artists []domain.CollectedArtist `json:"artists"`
}

// RecentCollectionsResponse represents the latest indexed collections across songs
type RecentCollectionsResponse struct {
	Collectors []CollectorResponse `json:"collectors"`
}

// HealthResponse represents the health of the API and its dependencies
type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks,omitempty"`
}

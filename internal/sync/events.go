package sync

import "time"

const (
	EventCatalogUpdated = "catalog.updated"
	EventOrganizeFailed = "catalog.organize_failed"
)

// CatalogEvent is pushed to every TCP and websocket client after an
// organize run.
type CatalogEvent struct {
	Type             string    `json:"type"`
	RunID            string    `json:"run_id,omitempty"`
	Trigger          string    `json:"trigger,omitempty"` // "admin", "watch", "startup"
	TotalMovies      int       `json:"total_movies"`
	TotalEpisodes    int       `json:"total_episodes"`
	TotalComingSoon  int       `json:"total_coming_soon"`
	SeriesCount      int       `json:"series_count"`
	ValidationErrors int       `json:"validation_errors"`
	Error            string    `json:"error,omitempty"`
	At               time.Time `json:"at"`
}

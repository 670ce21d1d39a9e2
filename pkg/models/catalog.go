package models

// CatalogVersion is written into every organized catalog.
const CatalogVersion = "1.0"

type Metadata struct {
	TotalMovies     int    `json:"total_movies"`
	TotalEpisodes   int    `json:"total_episodes"`
	TotalComingSoon int    `json:"total_coming_soon"`
	OrganizedAt     string `json:"organized_at"`
	Version         string `json:"version"`
}

type Categories struct {
	Movies     []Item `json:"movies"`
	Episodes   []Item `json:"episodes"`
	ComingSoon []Item `json:"coming_soon"`
}

// Catalog is the document written to organized_data.json.
type Catalog struct {
	Metadata   Metadata     `json:"metadata"`
	Series     *SeriesIndex `json:"series"`
	Categories Categories   `json:"categories"`
}

// Summary is the document written to data_summary.json.
type Summary struct {
	TotalMovies     int      `json:"total_movies"`
	TotalEpisodes   int      `json:"total_episodes"`
	TotalComingSoon int      `json:"total_coming_soon"`
	SeriesCount     int      `json:"series_count"`
	SeriesList      []string `json:"series_list"`
	LastUpdated     string   `json:"last_updated"`
}

package organizer

import (
	"fmt"

	"lpfcatalog/pkg/models"
)

// Counts are the raw input collection lengths reported in the metadata.
// For episodes this is the number of series records, not episodes.
type Counts struct {
	Movies     int
	Episodes   int
	ComingSoon int
}

// Assemble builds the catalog and groups movies then episodes by series in
// first-seen order. Coming-soon items are not grouped.
func Assemble(movies, episodes, comingSoon []models.Item, counts Counts, stamp string) models.Catalog {
	cat := models.Catalog{
		Metadata: models.Metadata{
			TotalMovies:     counts.Movies,
			TotalEpisodes:   counts.Episodes,
			TotalComingSoon: counts.ComingSoon,
			OrganizedAt:     stamp,
			Version:         models.CatalogVersion,
		},
		Series: models.NewSeriesIndex(),
		Categories: models.Categories{
			Movies:     nonNil(movies),
			Episodes:   nonNil(episodes),
			ComingSoon: nonNil(comingSoon),
		},
	}

	for _, it := range cat.Categories.Movies {
		cat.Series.GetOrCreate(it.Series).Add(it)
	}
	for _, it := range cat.Categories.Episodes {
		cat.Series.GetOrCreate(it.Series).Add(it)
	}
	return cat
}

// Validate lists items missing a title, id or thumbnail. Category order is
// movies, episodes, coming_soon.
func Validate(cat models.Catalog) []string {
	var errs []string
	groups := []struct {
		name  string
		items []models.Item
	}{
		{"movies", cat.Categories.Movies},
		{"episodes", cat.Categories.Episodes},
		{"coming_soon", cat.Categories.ComingSoon},
	}

	for _, g := range groups {
		for i, it := range g.items {
			if it.Title == "" {
				errs = append(errs, fmt.Sprintf("Missing title in %s[%d]", g.name, i))
			}
			if it.ID == "" {
				errs = append(errs, fmt.Sprintf("Missing ID in %s[%d]", g.name, i))
			}
			if it.Thumbnail == "" {
				errs = append(errs, fmt.Sprintf("Missing thumbnail in %s[%d]", g.name, i))
			}
		}
	}
	return errs
}

func Summarize(cat models.Catalog) models.Summary {
	return models.Summary{
		TotalMovies:     cat.Metadata.TotalMovies,
		TotalEpisodes:   cat.Metadata.TotalEpisodes,
		TotalComingSoon: cat.Metadata.TotalComingSoon,
		SeriesCount:     cat.Series.Len(),
		SeriesList:      cat.Series.Names(),
		LastUpdated:     cat.Metadata.OrganizedAt,
	}
}

func nonNil(items []models.Item) []models.Item {
	if items == nil {
		return []models.Item{}
	}
	return items
}

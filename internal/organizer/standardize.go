package organizer

import (
	"fmt"
	"sort"
	"strings"

	"lpfcatalog/pkg/models"
)

// StandardizeMovies maps raw movie records to items with ids movie_001...
// in input order, then sorts them by series and episode number.
func StandardizeMovies(records []models.Record, stamp string) []models.Item {
	out := make([]models.Item, 0, len(records))

	for i, r := range records {
		title := strings.TrimSpace(r.String("title"))
		it := models.Item{
			ID:            fmt.Sprintf("movie_%03d", i+1),
			Title:         title,
			Description:   strings.TrimSpace(r.String("description")),
			VideoURL:      strings.TrimSpace(r.String("video_url")),
			Thumbnail:     strings.TrimSpace(r.String("thumbnail")),
			EmbedLink:     strings.TrimSpace(r.String("embed_link")),
			Category:      models.CategoryMovie,
			Series:        ExtractSeriesName(title),
			EpisodeNumber: ExtractEpisodeNumber(title),
			IsExtended:    IsExtended(title),
			Year:          ExtractYear(title),
			LastUpdated:   stamp,
		}
		if it.Description == "" {
			it.Description = "Watch " + it.Title
		}
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Series != out[j].Series {
			return out[i].Series < out[j].Series
		}
		return orZero(out[i].EpisodeNumber) < orZero(out[j].EpisodeNumber)
	})
	return out
}

// StandardizeEpisodes flattens series records into one item per embedded
// episode. Ids run episode_001... across all series in input order.
func StandardizeEpisodes(records []models.Record, stamp string) []models.Item {
	out := make([]models.Item, 0, len(records))

	for _, series := range records {
		seriesTitle := strings.TrimSpace(series.String("title"))
		seriesThumb := strings.TrimSpace(series.String("thumbnail"))

		for _, ep := range embedEntries(series["embed_links"]) {
			title := strings.TrimSpace(ep.String("title"))
			thumb := strings.TrimSpace(ep.String("thumbnail"))
			if thumb == "" {
				thumb = seriesThumb
			}

			it := models.Item{
				ID:            fmt.Sprintf("episode_%03d", len(out)+1),
				Title:         title,
				Description:   strings.TrimSpace(ep.String("description")),
				Thumbnail:     thumb,
				EmbedLink:     strings.TrimSpace(ep.String("embed_link")),
				Category:      models.CategoryEpisode,
				Series:        seriesTitle,
				EpisodeNumber: ExtractEpisodeNumber(title),
				SeasonNumber:  ExtractSeasonNumber(title),
				LastUpdated:   stamp,
			}
			if it.Description == "" {
				it.Description = "Episode of " + seriesTitle
			}
			out = append(out, it)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Series != b.Series {
			return a.Series < b.Series
		}
		if sa, sb := orZero(a.SeasonNumber), orZero(b.SeasonNumber); sa != sb {
			return sa < sb
		}
		return orZero(a.EpisodeNumber) < orZero(b.EpisodeNumber)
	})
	return out
}

// StandardizeComingSoon maps announcements to items sorted by title. Year
// and release dates come from the description.
func StandardizeComingSoon(records []models.Record, stamp string) []models.Item {
	out := make([]models.Item, 0, len(records))

	for i, r := range records {
		title := strings.TrimSpace(r.String("title"))
		rawDesc := r.String("description")

		it := models.Item{
			ID:           fmt.Sprintf("coming_soon_%03d", i+1),
			Title:        title,
			Description:  strings.TrimSpace(rawDesc),
			Thumbnail:    strings.TrimSpace(r.String("thumbnail")),
			Category:     models.CategoryComingSoon,
			Series:       ExtractSeriesName(title),
			Year:         ExtractYear(rawDesc),
			ReleaseDates: ExtractReleaseDates(rawDesc),
			LastUpdated:  stamp,
		}
		if it.Description == "" {
			it.Description = "Coming soon: " + it.Title
		}
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

// embedEntries accepts a list of episode objects or a single object; any
// other shape yields nothing. Non-object list elements are dropped.
func embedEntries(v any) []models.Record {
	switch t := v.(type) {
	case []any:
		return models.Records(t)
	case map[string]any:
		return []models.Record{models.Record(t)}
	default:
		return nil
	}
}

func orZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

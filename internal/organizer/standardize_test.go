package organizer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lpfcatalog/pkg/models"
)

const stamp = "2025-03-01T12:00:00.000000"

func decodeRecords(t *testing.T, s string) []models.Record {
	t.Helper()
	var raw []any
	require.NoError(t, json.Unmarshal([]byte(s), &raw))
	return models.Records(raw)
}

func TestStandardizeMovies(t *testing.T) {
	recs := decodeRecords(t, `[
		{"title": "  Timmy Vs Jimmy Part 2 ", "thumbnail": "t2.png", "video_url": " https://v/2 "},
		{"title": "Hammy and Olivia Part 3", "description": "  Olivia returns  ", "thumbnail": "h3.png"},
		{"title": "Timmy Vs Jimmy Part 1 Extended", "thumbnail": "t1.png"},
		"not an object",
		{"title": "Random Short 2024"}
	]`)

	got := StandardizeMovies(recs, stamp)
	require.Len(t, got, 4)

	ids := make([]string, len(got))
	for i, it := range got {
		ids[i] = it.ID
		assert.Equal(t, models.CategoryMovie, it.Category)
		assert.Equal(t, stamp, it.LastUpdated)
		assert.Nil(t, it.SeasonNumber)
		assert.Nil(t, it.ReleaseDates)
	}
	// sorted by series then episode number
	assert.Equal(t, []string{"movie_002", "movie_004", "movie_003", "movie_001"}, ids)

	h := got[0]
	assert.Equal(t, "Hammy and Olivia", h.Series)
	assert.Equal(t, intp(3), h.EpisodeNumber)
	assert.Equal(t, "Olivia returns", h.Description)

	other := got[1]
	assert.Equal(t, "Other", other.Series)
	assert.Equal(t, "Watch Random Short 2024", other.Description)
	assert.Equal(t, intp(2024), other.Year)
	assert.Equal(t, intp(2024), other.EpisodeNumber)

	ext := got[2]
	assert.True(t, ext.IsExtended)
	assert.Equal(t, intp(1), ext.EpisodeNumber)

	t2 := got[3]
	assert.Equal(t, "Timmy Vs Jimmy Part 2", t2.Title)
	assert.Equal(t, "https://v/2", t2.VideoURL)
	assert.False(t, t2.IsExtended)
}

func TestStandardizeEpisodes(t *testing.T) {
	recs := decodeRecords(t, `[
		{
			"title": "Dystopian Cats ",
			"thumbnail": "dc.png",
			"embed_links": [
				{"title": "S2E1 Return", "embed_link": "https://e/3"},
				{"title": "S1E2 Second", "embed_link": "https://e/2", "thumbnail": "own.png"},
				"junk",
				{"title": "S1E1 Pilot", "description": "The start", "thumbnail": "   "}
			]
		},
		{
			"title": "Beluga Show",
			"embed_links": {"title": "Episode 1", "embed_link": "https://b/1"}
		},
		{"title": "No Episodes", "embed_links": "nothing"},
		{"title": "Absent Links"}
	]`)

	got := StandardizeEpisodes(recs, stamp)
	require.Len(t, got, 4)

	// Beluga Show < Dystopian Cats; then by season, episode
	assert.Equal(t, "episode_004", got[0].ID)
	assert.Equal(t, "Beluga Show", got[0].Series)
	assert.Equal(t, "Episode of Beluga Show", got[0].Description)
	assert.Equal(t, intp(1), got[0].EpisodeNumber)
	assert.Nil(t, got[0].SeasonNumber)
	assert.Equal(t, "", got[0].Thumbnail)

	assert.Equal(t, []string{"episode_003", "episode_002", "episode_001"},
		[]string{got[1].ID, got[2].ID, got[3].ID})

	pilot := got[1]
	assert.Equal(t, "Dystopian Cats", pilot.Series)
	assert.Equal(t, "The start", pilot.Description)
	assert.Equal(t, "dc.png", pilot.Thumbnail, "blank thumbnail falls back to series")
	assert.Equal(t, intp(1), pilot.SeasonNumber)
	assert.Equal(t, intp(1), pilot.EpisodeNumber)

	assert.Equal(t, "own.png", got[2].Thumbnail)
	assert.Equal(t, intp(2), got[3].SeasonNumber)

	for _, it := range got {
		assert.Equal(t, models.CategoryEpisode, it.Category)
		assert.Empty(t, it.VideoURL)
		assert.False(t, it.IsExtended)
		assert.Nil(t, it.Year)
	}
}

func TestStandardizeComingSoon(t *testing.T) {
	recs := decodeRecords(t, `[
		{"title": "Zebra Special", "thumbnail": "z.png"},
		{"title": "Evil Cat 3", "description": "Releasing on YT March 2025\nReleasing on LPF+ April 2025", "thumbnail": "e.png"}
	]`)

	got := StandardizeComingSoon(recs, stamp)
	require.Len(t, got, 2)

	e := got[0]
	assert.Equal(t, "coming_soon_002", e.ID)
	assert.Equal(t, "Evil Cat", e.Series)
	assert.Nil(t, e.EpisodeNumber)
	assert.Equal(t, intp(2025), e.Year)
	assert.Equal(t, map[string]string{"youtube": "March 2025", "lpf_plus": "April 2025"}, e.ReleaseDates)

	z := got[1]
	assert.Equal(t, "coming_soon_001", z.ID)
	assert.Equal(t, "Coming soon: Zebra Special", z.Description)
	assert.Equal(t, map[string]string{}, z.ReleaseDates)
	assert.Empty(t, z.EmbedLink)
	assert.Empty(t, z.VideoURL)
}

func TestAssembleAndSummarize(t *testing.T) {
	movies := []models.Item{
		{ID: "movie_001", Title: "a", Thumbnail: "x", Category: models.CategoryMovie, Series: "Gorilla Tag"},
		{ID: "movie_002", Title: "b", Thumbnail: "x", Category: models.CategoryMovie, Series: "Other"},
	}
	episodes := []models.Item{
		{ID: "episode_001", Title: "c", Thumbnail: "x", Category: models.CategoryEpisode, Series: "Beluga"},
		{ID: "episode_002", Title: "d", Category: models.CategoryEpisode, Series: "Gorilla Tag"},
	}
	soon := []models.Item{{ID: "coming_soon_001", Category: models.CategoryComingSoon, Series: "Zed", Thumbnail: "x"}}

	cat := Assemble(movies, episodes, soon, Counts{Movies: 2, Episodes: 1, ComingSoon: 1}, stamp)

	assert.Equal(t, []string{"Gorilla Tag", "Other", "Beluga"}, cat.Series.Names())
	total := 0
	for _, name := range cat.Series.Names() {
		g, _ := cat.Series.Get(name)
		total += g.TotalItems
	}
	assert.Equal(t, len(movies)+len(episodes), total)

	g, _ := cat.Series.Get("Gorilla Tag")
	assert.Len(t, g.Movies, 1)
	assert.Len(t, g.Episodes, 1)
	_, ok := cat.Series.Get("Zed")
	assert.False(t, ok, "coming soon items are not grouped")

	assert.Equal(t, 1, cat.Metadata.TotalEpisodes, "raw series record count")
	assert.Equal(t, models.CatalogVersion, cat.Metadata.Version)
	assert.Equal(t, stamp, cat.Metadata.OrganizedAt)

	errs := Validate(cat)
	assert.Equal(t, []string{
		"Missing thumbnail in episodes[1]",
		"Missing title in coming_soon[0]",
	}, errs)

	sum := Summarize(cat)
	assert.Equal(t, 3, sum.SeriesCount)
	assert.Equal(t, cat.Series.Names(), sum.SeriesList)
	assert.Equal(t, stamp, sum.LastUpdated)
	assert.Equal(t, 2, sum.TotalMovies)
}

func TestAssemble_EmptyInputs(t *testing.T) {
	cat := Assemble(nil, nil, nil, Counts{}, stamp)
	b, err := json.Marshal(cat)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"metadata": {"total_movies":0,"total_episodes":0,"total_coming_soon":0,"organized_at":"`+stamp+`","version":"1.0"},
		"series": {},
		"categories": {"movies": [], "episodes": [], "coming_soon": []}
	}`, string(b))
	assert.Empty(t, Validate(cat))
}

package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemMarshal_FieldsPerCategory(t *testing.T) {
	tests := []struct {
		name        string
		item        Item
		wantSeason  bool
		wantRelease string
	}{
		{
			name: "movie has neither season nor release dates",
			item: Item{ID: "movie_001", Category: CategoryMovie},
		},
		{
			name:       "episode carries null season",
			item:       Item{ID: "episode_001", Category: CategoryEpisode},
			wantSeason: true,
		},
		{
			name:        "coming soon carries empty release dates",
			item:        Item{ID: "coming_soon_001", Category: CategoryComingSoon},
			wantRelease: "{}",
		},
		{
			name: "coming soon carries release dates",
			item: Item{
				ID:           "coming_soon_002",
				Category:     CategoryComingSoon,
				ReleaseDates: map[string]string{"youtube": "March 2025"},
			},
			wantRelease: `{"youtube":"March 2025"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.item)
			require.NoError(t, err)

			var m map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(b, &m))

			season, ok := m["season_number"]
			assert.Equal(t, tt.wantSeason, ok)
			if ok {
				assert.Equal(t, "null", string(season))
			}

			release, ok := m["release_dates"]
			assert.Equal(t, tt.wantRelease != "", ok)
			if ok {
				assert.JSONEq(t, tt.wantRelease, string(release))
			}

			assert.Equal(t, "null", string(m["episode_number"]))
			assert.Equal(t, "null", string(m["year"]))
		})
	}
}

func TestItemMarshal_FieldOrder(t *testing.T) {
	it := Item{ID: "episode_001", Title: "A & B", Category: CategoryEpisode, SeasonNumber: IntPtr(2)}
	b, err := MarshalPlain(it)
	require.NoError(t, err)

	s := string(b)
	order := []string{`"id"`, `"title"`, `"description"`, `"video_url"`, `"thumbnail"`,
		`"embed_link"`, `"category"`, `"series"`, `"episode_number"`, `"season_number"`,
		`"is_extended"`, `"year"`, `"last_updated"`}
	last := -1
	for _, key := range order {
		i := strings.Index(s, key)
		require.Greater(t, i, last, "key %s out of order in %s", key, s)
		last = i
	}
	assert.Contains(t, s, `"A & B"`)
}

func TestSeriesIndex_KeepsInsertionOrder(t *testing.T) {
	idx := NewSeriesIndex()
	idx.GetOrCreate("Timmy Vs Jimmy").Add(Item{ID: "movie_002", Category: CategoryMovie})
	idx.GetOrCreate("Gorilla Tag").Add(Item{ID: "movie_001", Category: CategoryMovie})
	idx.GetOrCreate("Timmy Vs Jimmy").Add(Item{ID: "episode_001", Category: CategoryEpisode})
	idx.GetOrCreate("Gorilla Tag").Add(Item{ID: "coming_soon_001", Category: CategoryComingSoon})

	assert.Equal(t, []string{"Timmy Vs Jimmy", "Gorilla Tag"}, idx.Names())

	g, ok := idx.Get("Timmy Vs Jimmy")
	require.True(t, ok)
	assert.Equal(t, 2, g.TotalItems)
	assert.Len(t, g.Movies, 1)
	assert.Len(t, g.Episodes, 1)

	g, _ = idx.Get("Gorilla Tag")
	assert.Equal(t, 1, g.TotalItems)

	b, err := json.Marshal(idx)
	require.NoError(t, err)
	assert.Less(t, strings.Index(string(b), "Timmy Vs Jimmy"), strings.Index(string(b), "Gorilla Tag"))

	var back SeriesIndex
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, idx.Names(), back.Names())
	bg, ok := back.Get("Timmy Vs Jimmy")
	require.True(t, ok)
	assert.Equal(t, 2, bg.TotalItems)
	assert.Equal(t, "episode_001", bg.Episodes[0].ID)
}

func TestSeriesIndex_EmptyEncodesAsObject(t *testing.T) {
	b, err := json.Marshal(Catalog{Series: NewSeriesIndex()})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"series":{}`)
}

func TestRecordString(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x","b":3,"c":true,"d":null,"e":{"k":1},"f":[1]}`), &r))

	tests := map[string]string{
		"a":       "x",
		"b":       "3",
		"c":       "true",
		"d":       "",
		"e":       "",
		"f":       "",
		"missing": "",
	}
	for key, want := range tests {
		assert.Equal(t, want, r.String(key), key)
	}
	assert.True(t, r.Has("a"))
	assert.False(t, r.Has("d"))
}

func TestRecords_SkipsNonObjects(t *testing.T) {
	raw := []any{map[string]any{"title": "a"}, "junk", 3.0, nil, map[string]any{"title": "b"}}
	got := Records(raw)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].String("title"))
}

func TestOrderedObject_PreservesOrder(t *testing.T) {
	var objs []OrderedObject
	require.NoError(t, json.Unmarshal([]byte(`[{"title":"B","embed_link":"x y","year":2024,"tags":["a"]}]`), &objs))
	require.Len(t, objs, 1)

	link, ok := objs[0].String("embed_link")
	require.True(t, ok)
	assert.Equal(t, "x y", link)

	_, ok = objs[0].String("year")
	assert.False(t, ok, "non-string member")

	require.NoError(t, objs[0].SetString("embed_link", "x%20y"))
	require.NoError(t, objs[0].SetString("extra", "<&>"))

	b, err := MarshalPlain(objs)
	require.NoError(t, err)
	assert.Equal(t, `[{"title":"B","embed_link":"x%20y","year":2024,"tags":["a"],"extra":"<&>"}]`, string(b))
}

package models

import (
	"bytes"
	"encoding/json"
)

// Category is the fixed bucket a standardized item belongs to.
type Category string

const (
	CategoryMovie      Category = "movie"
	CategoryEpisode    Category = "episode"
	CategoryComingSoon Category = "coming_soon"
)

// Item is the normalized form of a movie, episode or coming-soon entry.
//
// Every input collection is mapped into this structure first; the
// organized catalog, the summary and the sqlite store are all built
// from it.
type Item struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	VideoURL      string            `json:"video_url"`
	Thumbnail     string            `json:"thumbnail"`
	EmbedLink     string            `json:"embed_link"`
	Category      Category          `json:"category"`
	Series        string            `json:"series"`
	EpisodeNumber *int              `json:"episode_number"`
	SeasonNumber  *int              `json:"season_number,omitempty"` // episodes only
	IsExtended    bool              `json:"is_extended"`
	Year          *int              `json:"year"`
	ReleaseDates  map[string]string `json:"release_dates,omitempty"` // coming soon only
	LastUpdated   string            `json:"last_updated"`
}

// itemWire fixes the field order of an encoded Item. season_number is
// written (possibly as null) only for episodes and release_dates only for
// coming-soon entries.
type itemWire struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	VideoURL      string             `json:"video_url"`
	Thumbnail     string             `json:"thumbnail"`
	EmbedLink     string             `json:"embed_link"`
	Category      Category           `json:"category"`
	Series        string             `json:"series"`
	EpisodeNumber *int               `json:"episode_number"`
	SeasonNumber  json.RawMessage    `json:"season_number,omitempty"`
	IsExtended    bool               `json:"is_extended"`
	Year          *int               `json:"year"`
	ReleaseDates  *map[string]string `json:"release_dates,omitempty"`
	LastUpdated   string             `json:"last_updated"`
}

func (it Item) MarshalJSON() ([]byte, error) {
	w := itemWire{
		ID:            it.ID,
		Title:         it.Title,
		Description:   it.Description,
		VideoURL:      it.VideoURL,
		Thumbnail:     it.Thumbnail,
		EmbedLink:     it.EmbedLink,
		Category:      it.Category,
		Series:        it.Series,
		EpisodeNumber: it.EpisodeNumber,
		IsExtended:    it.IsExtended,
		Year:          it.Year,
		LastUpdated:   it.LastUpdated,
	}

	switch it.Category {
	case CategoryEpisode:
		raw, err := MarshalPlain(it.SeasonNumber)
		if err != nil {
			return nil, err
		}
		w.SeasonNumber = raw
	case CategoryComingSoon:
		dates := it.ReleaseDates
		if dates == nil {
			dates = map[string]string{}
		}
		w.ReleaseDates = &dates
	}

	return MarshalPlain(w)
}

// MarshalPlain encodes v like json.Marshal but leaves <, > and & unescaped
// and drops the trailing newline the encoder adds.
func MarshalPlain(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// IntPtr is a small helper for optional integer fields.
func IntPtr(n int) *int { return &n }

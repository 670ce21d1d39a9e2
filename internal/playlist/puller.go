package playlist

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"lpfcatalog/pkg/models"
)

// WatchURLPrefix is joined with a video id to build video_url.
const WatchURLPrefix = "https://www.youtube.com/watch?v="

// Rehoster copies a remote image to a permanent host.
type Rehoster interface {
	Rehost(ctx context.Context, imageURL string) (string, error)
}

// Puller turns a playlist into catalog-ready entries. With a nil Rehost the
// source thumbnail URL is kept as is.
type Puller struct {
	Extractor Extractor
	Rehost    Rehoster
	Log       zerolog.Logger
}

func NewPuller(ex Extractor, rh Rehoster, log zerolog.Logger) *Puller {
	return &Puller{Extractor: ex, Rehost: rh, Log: log}
}

// Pull lists the playlist and resolves every video in order. A video whose
// metadata cannot be read is skipped; a thumbnail that cannot be re-hosted
// becomes null. Neither aborts the run.
func (p *Puller) Pull(ctx context.Context, playlistURL string) ([]models.PlaylistEntry, error) {
	log := p.Log
	log.Info().Str("playlist", playlistURL).Str("extractor", p.Extractor.Name()).Msg("extracting playlist")

	entries, err := p.Extractor.Playlist(ctx, playlistURL)
	if err != nil {
		return nil, fmt.Errorf("extract playlist: %w", err)
	}

	results := make([]models.PlaylistEntry, 0, len(entries))
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		videoURL := WatchURLPrefix + e.ID
		log.Info().Int("n", i+1).Int("of", len(entries)).Str("video", videoURL).Msg("processing video")

		info, err := p.Extractor.Video(ctx, videoURL)
		if err != nil {
			log.Error().Err(err).Str("video", videoURL).Msg("video metadata failed, skipping")
			continue
		}

		results = append(results, models.PlaylistEntry{
			Title:       info.Title,
			Description: info.Description,
			VideoURL:    videoURL,
			Thumbnail:   p.thumbnail(ctx, info),
		})
	}
	return results, nil
}

func (p *Puller) thumbnail(ctx context.Context, info VideoInfo) *string {
	if info.Thumbnail == "" {
		p.Log.Warn().Str("title", info.Title).Msg("no thumbnail")
		return nil
	}
	if p.Rehost == nil {
		u := info.Thumbnail
		return &u
	}
	u, err := p.Rehost.Rehost(ctx, info.Thumbnail)
	if err != nil {
		p.Log.Error().Err(err).Str("title", info.Title).Msg("thumbnail upload failed")
		return nil
	}
	return &u
}

package playlist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var ErrNoEntries = errors.New("no videos found in the playlist")

// FlatEntry is one item of a flat playlist listing.
type FlatEntry struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// VideoInfo is the subset of per-video metadata the puller keeps.
type VideoInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

// Extractor lists a playlist and resolves each video's metadata.
type Extractor interface {
	Name() string
	Playlist(ctx context.Context, url string) ([]FlatEntry, error)
	Video(ctx context.Context, url string) (VideoInfo, error)
}

// Runner executes a command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// YtDlp shells out to the yt-dlp binary and reads its -J output.
type YtDlp struct {
	Binary string
	Run    Runner
}

func NewYtDlp(binary string) *YtDlp {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &YtDlp{Binary: binary, Run: execRunner}
}

func (y *YtDlp) Name() string { return "yt-dlp" }

func (y *YtDlp) Playlist(ctx context.Context, url string) ([]FlatEntry, error) {
	out, err := y.run(ctx, "-J", "--flat-playlist", "--quiet", "--no-warnings", url)
	if err != nil {
		return nil, err
	}
	return parsePlaylist(out)
}

func (y *YtDlp) Video(ctx context.Context, url string) (VideoInfo, error) {
	out, err := y.run(ctx, "-J", "--no-playlist", "--quiet", "--no-warnings", url)
	if err != nil {
		return VideoInfo{}, err
	}
	return parseVideo(out)
}

func (y *YtDlp) run(ctx context.Context, args ...string) ([]byte, error) {
	run := y.Run
	if run == nil {
		run = execRunner
	}
	out, err := run(ctx, y.Binary, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", y.Binary, err)
	}
	return out, nil
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("binary not found: %w", err)
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

type playlistOutput struct {
	Entries *[]FlatEntry `json:"entries"`
}

func parsePlaylist(data []byte) ([]FlatEntry, error) {
	var p playlistOutput
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse playlist output: %w", err)
	}
	if p.Entries == nil {
		return nil, ErrNoEntries
	}
	out := make([]FlatEntry, 0, len(*p.Entries))
	for _, e := range *p.Entries {
		if e.ID == "" {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func parseVideo(data []byte) (VideoInfo, error) {
	var v VideoInfo
	if err := json.Unmarshal(data, &v); err != nil {
		return VideoInfo{}, fmt.Errorf("parse video output: %w", err)
	}
	return v, nil
}

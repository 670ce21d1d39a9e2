package models

// PlaylistEntry is one video pulled from a remote playlist. Thumbnail is
// nil when the image could not be re-hosted.
type PlaylistEntry struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	VideoURL    string  `json:"video_url"`
	Thumbnail   *string `json:"thumbnail"`
}

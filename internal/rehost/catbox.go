package rehost

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint is the catbox.moe upload API.
const DefaultEndpoint = "https://catbox.moe/user/api.php"

// maxImage caps downloaded thumbnails.
const maxImage = 20 << 20

var ErrUploadFailed = errors.New("upload failed")

// Catbox downloads an image and re-uploads it to a catbox-compatible file
// host, returning the hosted URL.
type Catbox struct {
	Endpoint string
	Client   *http.Client
	UserHash string // optional account hash
}

func NewCatbox(endpoint string, timeout time.Duration) *Catbox {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Catbox{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: timeout},
	}
}

func (c *Catbox) Name() string { return "catbox" }

// Rehost fetches imageURL and uploads it.
func (c *Catbox) Rehost(ctx context.Context, imageURL string) (string, error) {
	data, err := c.Download(ctx, imageURL)
	if err != nil {
		return "", err
	}
	return c.Upload(ctx, "thumbnail.jpg", data)
}

func (c *Catbox) Download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("download: build request: %w", err)
	}

	resp, err := c.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: request: %w", err)
	}
	defer resp.Body.Close()

	// redirects are already followed by the client
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("download: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImage+1))
	if err != nil {
		return nil, fmt.Errorf("download: read: %w", err)
	}
	if len(data) > maxImage {
		return nil, fmt.Errorf("download: image larger than %d bytes", maxImage)
	}
	return data, nil
}

// Upload posts data as a multipart fileupload and returns the trimmed
// response body, which is the hosted URL.
func (c *Catbox) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("reqtype", "fileupload"); err != nil {
		return "", fmt.Errorf("upload: form: %w", err)
	}
	if c.UserHash != "" {
		if err := mw.WriteField("userhash", c.UserHash); err != nil {
			return "", fmt.Errorf("upload: form: %w", err)
		}
	}
	fw, err := mw.CreateFormFile("fileToUpload", filename)
	if err != nil {
		return "", fmt.Errorf("upload: form file: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return "", fmt.Errorf("upload: form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("upload: form close: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("upload: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("upload: request: %w", err)
	}
	respBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	text := strings.TrimSpace(string(respBody))
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrUploadFailed, resp.StatusCode, text)
	}
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrUploadFailed)
	}
	return text, nil
}

func (c *Catbox) client() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return http.DefaultClient
}

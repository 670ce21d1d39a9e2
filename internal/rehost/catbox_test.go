package rehost

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatbox_Rehost(t *testing.T) {
	img := []byte("\xff\xd8\xff fake jpeg")

	var gotReqType, gotFilename string
	var gotFile []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/thumb.jpg":
			_, _ = w.Write(img)
		case "/api.php":
			assert.Equal(t, http.MethodPost, r.Method)
			if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
				return
			}
			gotReqType = r.FormValue("reqtype")
			f, hdr, err := r.FormFile("fileToUpload")
			if !assert.NoError(t, err) {
				return
			}
			defer f.Close()
			gotFilename = hdr.Filename
			gotFile, _ = io.ReadAll(f)
			_, _ = io.WriteString(w, "https://files.catbox.moe/abc123.jpg\n")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewCatbox(srv.URL+"/api.php", 5*time.Second)
	got, err := c.Rehost(context.Background(), srv.URL+"/thumb.jpg")
	require.NoError(t, err)

	assert.Equal(t, "https://files.catbox.moe/abc123.jpg", got)
	assert.Equal(t, "fileupload", gotReqType)
	assert.Equal(t, "thumbnail.jpg", gotFilename)
	assert.Equal(t, img, gotFile)
}

func TestCatbox_UploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewCatbox(srv.URL, time.Second)
	_, err := c.Upload(context.Background(), "x.jpg", []byte("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUploadFailed)
}

func TestCatbox_DownloadFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := NewCatbox(srv.URL, time.Second)
	_, err := c.Rehost(context.Background(), srv.URL+"/missing.jpg")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUploadFailed)
}

func TestCatbox_DownloadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/moved.jpg":
			http.Redirect(w, r, "/thumb.jpg", http.StatusFound)
		case "/thumb.jpg":
			_, _ = w.Write([]byte("img"))
		case "/partial.jpg":
			w.WriteHeader(http.StatusNonAuthoritativeInfo)
			_, _ = w.Write([]byte("img"))
		case "/nocontent.jpg":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "gone", http.StatusGone)
		}
	}))
	defer srv.Close()

	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"/moved.jpg", "img", false},
		{"/partial.jpg", "img", false},
		{"/nocontent.jpg", "", false},
		{"/gone.jpg", "", true},
	}
	c := NewCatbox(srv.URL, time.Second)
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := c.Download(context.Background(), srv.URL+tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestNewCatbox_Defaults(t *testing.T) {
	c := NewCatbox("", 0)
	assert.Equal(t, DefaultEndpoint, c.Endpoint)
	assert.Equal(t, 60*time.Second, c.Client.Timeout)
}

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lpfcatalog/pkg/models"
)

func TestFetchItems_Pages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	all := make([]models.Item, 120)
	for i := range all {
		all[i] = models.Item{ID: "movie_" + strconv.Itoa(i+1), Category: models.CategoryMovie}
	}

	var seenCategory string
	r := gin.New()
	r.GET("/catalog/items", func(c *gin.Context) {
		seenCategory = c.Query("category")
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		end := offset + limit
		if end > len(all) {
			end = len(all)
		}
		c.JSON(http.StatusOK, gin.H{"total": len(all), "limit": limit, "offset": offset, "items": all[offset:end]})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	got, err := fetchItems(context.Background(), srv.Client(), srv.URL, url.Values{"category": {"movie"}}, 1000)
	require.NoError(t, err)
	assert.Len(t, got, 120)
	assert.Equal(t, "movie", seenCategory)

	got, err = fetchItems(context.Background(), srv.Client(), srv.URL, nil, 70)
	require.NoError(t, err)
	assert.Len(t, got, 70)

	_, err = fetchItems(context.Background(), srv.Client(), srv.URL, nil, 0)
	assert.Error(t, err)
}

func TestDoJSON_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	err := doJSON(context.Background(), srv.Client(), http.MethodPost, srv.URL+"/admin/organize", "tok", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forbidden")
}

func TestTokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")

	_, err := readToken(path)
	assert.ErrorContains(t, err, "not logged in")

	require.NoError(t, saveToken(path, tokenData{Token: "abc", ExpiresAt: "2025-03-02T00:00:00Z"}))
	tok, err := readToken(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	require.NoError(t, clearToken(path))
	require.NoError(t, clearToken(path))
	assert.Error(t, saveToken(path, tokenData{}))
}

func TestWebsocketURL(t *testing.T) {
	tests := map[string]string{
		"http://localhost:8080":   "ws://localhost:8080/ws",
		"https://catalog.example": "wss://catalog.example/ws",
	}
	for in, want := range tests {
		got, err := websocketURL(in, "/ws")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestWriteItemsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeItemsCSV(&buf, []models.Item{
		{ID: "episode_001", Title: "S1E2, the return", Category: models.CategoryEpisode, Series: "Gorilla Tag",
			EpisodeNumber: models.IntPtr(2), SeasonNumber: models.IntPtr(1)},
	}))
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Equal(t, `episode_001,"S1E2, the return",episode,Gorilla Tag,2,1,,false,,,`, string(lines[1]))
}

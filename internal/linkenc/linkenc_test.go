package linkenc

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lpfcatalog/pkg/models"
)

func TestEncodePathOnly(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "spaces and parens",
			in:   "https://cdn.example.com/movies/Evil Cat (Extended).mp4",
			want: "https://cdn.example.com/movies/Evil%20Cat%20%28Extended%29.mp4",
		},
		{
			name: "query and fragment untouched",
			in:   "https://h.example/a b/c?x=1 2&y=3#frag ment",
			want: "https://h.example/a%20b/c?x=1 2&y=3#frag ment",
		},
		{
			name: "existing escapes are encoded again",
			in:   "https://h.example/a%20b",
			want: "https://h.example/a%2520b",
		},
		{
			name: "unicode and reserved",
			in:   "https://h.example/café/a+b:c@d",
			want: "https://h.example/caf%C3%A9/a%2Bb%3Ac%40d",
		},
		{
			name: "unreserved kept",
			in:   "https://h.example/A-z_0.9~",
			want: "https://h.example/A-z_0.9~",
		},
		{
			name: "host only",
			in:   "https://h.example",
			want: "https://h.example",
		},
		{
			name: "relative path",
			in:   "videos/my clip.mp4",
			want: "videos/my%20clip.mp4",
		},
		{
			name: "port and trailing slash",
			in:   "http://h.example:8080/dir name/",
			want: "http://h.example:8080/dir%20name/",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodePathOnly(tt.in))
		})
	}
}

func decode(t *testing.T, s string) []models.OrderedObject {
	t.Helper()
	var out []models.OrderedObject
	require.NoError(t, json.Unmarshal([]byte(s), &out))
	return out
}

func TestEncodeRecords(t *testing.T) {
	recs := decode(t, `[
		{"title": "A", "embed_link": "https://h.example/a b"},
		{"title": "B"},
		{"title": "C", "embed_link": "https://h.example/plain"},
		{"title": "D", "embed_link": 7}
	]`)

	n, err := EncodeRecords(recs)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	link, _ := recs[0].String(EmbedLinkField)
	assert.Equal(t, "https://h.example/a%20b", link)
	_, ok := recs[1].String(EmbedLinkField)
	assert.False(t, ok)
}

func TestAttachLinks(t *testing.T) {
	recs := decode(t, `[{"title": "A"}, {"title": "B", "embed_link": "old"}]`)

	attached, leftover, err := AttachLinks(recs, []string{"https://x/1", "  https://x/2 \r", "https://x/3", ""})
	require.NoError(t, err)
	assert.Equal(t, 2, attached)
	assert.Equal(t, 2, leftover)

	a, _ := recs[0].String(EmbedLinkField)
	b, _ := recs[1].String(EmbedLinkField)
	assert.Equal(t, "https://x/1", a)
	assert.Equal(t, "https://x/2", b)

	out, err := models.MarshalPlain(recs[1])
	require.NoError(t, err)
	assert.Equal(t, `{"title":"B","embed_link":"https://x/2"}`, string(out))
}

func TestLoadSaveRecords(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "data.json")
	out := filepath.Join(dir, "updated_data.json")
	links := filepath.Join(dir, "data.txt")

	require.NoError(t, os.WriteFile(in, []byte(`[{"title":"Gorilla Tag & Friends","embed_link":"https://h/x y"}]`), 0o644))
	require.NoError(t, os.WriteFile(links, []byte("https://h/new one\r\n"), 0o644))

	recs, err := LoadRecords(in)
	require.NoError(t, err)

	lines, err := ReadLines(links)
	require.NoError(t, err)
	_, _, err = AttachLinks(recs, lines)
	require.NoError(t, err)
	_, err = EncodeRecords(recs)
	require.NoError(t, err)
	require.NoError(t, SaveRecords(out, recs))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"title\": \"Gorilla Tag & Friends\",\n    \"embed_link\": \"https://h/new%20one\"\n  }\n]\n", string(b))
}

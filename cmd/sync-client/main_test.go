package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	synchub "lpfcatalog/internal/sync"
)

func TestFormatEvent(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)
	encode := func(ev synchub.CatalogEvent) []byte {
		b, err := json.Marshal(ev)
		require.NoError(t, err)
		return b
	}

	tests := []struct {
		name string
		line []byte
		want string
	}{
		{
			name: "updated",
			line: encode(synchub.CatalogEvent{Type: synchub.EventCatalogUpdated, RunID: "r1", Trigger: "watch",
				TotalMovies: 3, TotalEpisodes: 5, TotalComingSoon: 1, SeriesCount: 2, ValidationErrors: 4, At: at}),
			want: "2025-03-01 12:00:00 run=r1 trigger=watch movies=3 episodes=5 coming_soon=1 series=2 validation_errors=4",
		},
		{
			name: "updated without store or errors",
			line: encode(synchub.CatalogEvent{Type: synchub.EventCatalogUpdated, Trigger: "admin", At: at}),
			want: "2025-03-01 12:00:00 run=(not stored) trigger=admin movies=0 episodes=0 coming_soon=0 series=0",
		},
		{
			name: "failed",
			line: encode(synchub.CatalogEvent{Type: synchub.EventOrganizeFailed, Trigger: "watch", Error: "disk full", At: at}),
			want: `2025-03-01 12:00:00 FAILED trigger=watch error="disk full"`,
		},
		{
			name: "welcome",
			line: []byte(`{"type":"welcome","transport":"tcp","clients":2}`),
			want: "connected over tcp (2 clients)",
		},
		{
			name: "unknown type passes through",
			line: []byte(`{"type":"other"}`),
			want: `{"type":"other"}`,
		},
		{
			name: "not json",
			line: []byte("hello"),
			want: "hello",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatEvent(tt.line))
		})
	}
}

func TestFollow(t *testing.T) {
	hub := synchub.NewHub(zerolog.Nop())
	srv := synchub.NewServer("", hub, zerolog.Nop())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.Serve(ln) }()
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out syncBuffer
	done := make(chan error, 1)
	go func() { done <- follow(ctx, ln.Addr().String(), &out, false, zerolog.Nop()) }()

	require.Eventually(t, func() bool { return hub.Stats().TCPClients == 1 }, 2*time.Second, 10*time.Millisecond)
	hub.Publish(synchub.CatalogEvent{Type: synchub.EventCatalogUpdated, RunID: "r9", Trigger: "admin", TotalMovies: 7})

	require.Eventually(t, func() bool { return strings.Contains(out.String(), "run=r9") }, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "connected over tcp")
	assert.Contains(t, out.String(), "movies=7")

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("follow did not return after cancel")
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

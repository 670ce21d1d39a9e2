// sync-client tails the TCP sync listener and prints one line per organize
// run, reconnecting when the server goes away.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	synchub "lpfcatalog/internal/sync"
	"lpfcatalog/pkg/logger"
)

type welcomeMsg struct {
	Type      string `json:"type"`
	Transport string `json:"transport"`
	Clients   int    `json:"clients"`
}

func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "TCP sync server address")
	raw := flag.Bool("raw", false, "print events as received")
	retry := flag.Duration("retry", time.Second, "delay before reconnecting")
	flag.Parse()

	log := logger.Component(logger.New(logger.Config{Level: "info"}), "sync-client")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		err := follow(ctx, *addr, os.Stdout, *raw, log)
		if ctx.Err() != nil {
			return
		}
		log.Warn().Err(err).Dur("retry", *retry).Msg("disconnected")

		select {
		case <-ctx.Done():
			return
		case <-time.After(*retry):
		}
	}
}

func follow(ctx context.Context, addr string, out io.Writer, raw bool, log zerolog.Logger) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	log.Info().Str("addr", addr).Msg("connected")

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		if raw {
			fmt.Fprintln(out, sc.Text())
			continue
		}
		fmt.Fprintln(out, formatEvent(sc.Bytes()))
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return io.EOF
}

// formatEvent renders one line from the sync server. Lines that are not
// catalog events are returned unchanged.
func formatEvent(line []byte) string {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(line, &head); err != nil {
		return string(line)
	}

	switch head.Type {
	case "welcome":
		var w welcomeMsg
		_ = json.Unmarshal(line, &w)
		return fmt.Sprintf("connected over %s (%d clients)", w.Transport, w.Clients)

	case synchub.EventCatalogUpdated, synchub.EventOrganizeFailed:
		var ev synchub.CatalogEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return string(line)
		}
		return formatCatalogEvent(ev)

	default:
		return string(line)
	}
}

func formatCatalogEvent(ev synchub.CatalogEvent) string {
	var b strings.Builder
	at := "-"
	if !ev.At.IsZero() {
		at = ev.At.Local().Format(time.DateTime)
	}
	trigger := ev.Trigger
	if trigger == "" {
		trigger = "?"
	}

	if ev.Type == synchub.EventOrganizeFailed {
		fmt.Fprintf(&b, "%s FAILED trigger=%s error=%q", at, trigger, ev.Error)
		return b.String()
	}

	runID := ev.RunID
	if runID == "" {
		runID = "(not stored)"
	}
	fmt.Fprintf(&b, "%s run=%s trigger=%s movies=%d episodes=%d coming_soon=%d series=%d",
		at, runID, trigger, ev.TotalMovies, ev.TotalEpisodes, ev.TotalComingSoon, ev.SeriesCount)
	if ev.ValidationErrors > 0 {
		fmt.Fprintf(&b, " validation_errors=%d", ev.ValidationErrors)
	}
	return b.String()
}

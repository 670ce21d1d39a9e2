// Package watch re-runs the organizer when an input file in the data
// directory changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"lpfcatalog/internal/organizer"
)

const DefaultDebounce = 500 * time.Millisecond

// Trigger is called once per burst of changes.
type Trigger func(ctx context.Context) error

type Watcher struct {
	Dir      string
	Debounce time.Duration
	Files    []string
	Trigger  Trigger
	Log      zerolog.Logger
}

func New(dir string, debounce time.Duration, trigger Trigger, log zerolog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		Dir:      dir,
		Debounce: debounce,
		Files:    organizer.InputFiles,
		Trigger:  trigger,
		Log:      log,
	}
}

// Run watches until ctx is done. Output files and backup folders written
// by the organizer itself are ignored, so a run never re-triggers itself.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}
	w.Log.Info().Str("dir", w.Dir).Dur("debounce", w.Debounce).Msg("watching inputs")

	timer := time.NewTimer(w.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.Log.Debug().Str("file", filepath.Base(ev.Name)).Str("op", ev.Op.String()).Msg("input changed")
			timer.Reset(w.Debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Log.Error().Err(err).Msg("watch error")

		case <-timer.C:
			if err := w.Trigger(ctx); err != nil {
				w.Log.Error().Err(err).Msg("organize after change failed")
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(ev.Name)
	for _, f := range w.Files {
		if f == name {
			return true
		}
	}
	return false
}

package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"lpfcatalog/internal/organizer"
	"lpfcatalog/internal/store"
	synchub "lpfcatalog/internal/sync"
)

// Publisher receives an event after every organize attempt.
type Publisher interface {
	Publish(ev synchub.CatalogEvent)
}

// Service runs organize passes one at a time, persists the result and
// notifies connected clients.
type Service struct {
	Organizer *organizer.Organizer
	Repo      *store.Repo
	Publisher Publisher
	Log       zerolog.Logger

	mu sync.Mutex
}

func NewService(org *organizer.Organizer, repo *store.Repo, pub Publisher, log zerolog.Logger) *Service {
	return &Service{Organizer: org, Repo: repo, Publisher: pub, Log: log}
}

// Outcome is what one Organize call produced.
type Outcome struct {
	Result organizer.Result
	Run    store.Run
}

// Organize runs the organizer, stores the catalog and publishes an event.
// trigger names the caller ("admin", "watch", "startup").
func (s *Service) Organize(ctx context.Context, trigger string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.Log.With().Str("trigger", trigger).Logger()

	res, err := s.Organizer.Run(ctx)
	if err != nil {
		s.publish(synchub.CatalogEvent{Type: synchub.EventOrganizeFailed, Trigger: trigger, Error: err.Error()})
		return Outcome{Result: res}, fmt.Errorf("organize: %w", err)
	}

	out := Outcome{Result: res}
	if s.Repo != nil {
		run, err := s.Repo.SaveCatalog(ctx, res.Catalog, len(res.ValidationErrors))
		if err != nil {
			s.publish(synchub.CatalogEvent{Type: synchub.EventOrganizeFailed, Trigger: trigger, Error: err.Error()})
			return out, fmt.Errorf("persist catalog: %w", err)
		}
		out.Run = run
	}

	meta := res.Catalog.Metadata
	s.publish(synchub.CatalogEvent{
		Type:             synchub.EventCatalogUpdated,
		RunID:            out.Run.ID,
		Trigger:          trigger,
		TotalMovies:      meta.TotalMovies,
		TotalEpisodes:    meta.TotalEpisodes,
		TotalComingSoon:  meta.TotalComingSoon,
		SeriesCount:      res.Summary.SeriesCount,
		ValidationErrors: len(res.ValidationErrors),
	})
	log.Info().Str("run_id", out.Run.ID).Int("validation_errors", len(res.ValidationErrors)).Msg("catalog updated")
	return out, nil
}

func (s *Service) publish(ev synchub.CatalogEvent) {
	if s.Publisher != nil {
		s.Publisher.Publish(ev)
	}
}

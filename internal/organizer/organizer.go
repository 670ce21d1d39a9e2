package organizer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"lpfcatalog/pkg/models"
	"lpfcatalog/pkg/utils"
)

// TimestampLayout is used for organized_at and every last_updated field.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Organizer normalizes the three catalog inputs in DataDir into
// organized_data.json and data_summary.json.
type Organizer struct {
	DataDir string
	Now     func() time.Time
	Log     zerolog.Logger
}

func New(dataDir string, log zerolog.Logger) *Organizer {
	return &Organizer{DataDir: dataDir, Now: time.Now, Log: log}
}

// Result describes one run.
type Result struct {
	Catalog          models.Catalog
	Summary          models.Summary
	BackupDir        string
	BackedUp         []string
	Issues           []LoadIssue
	ValidationErrors []string
}

// Run backs up the inputs, rebuilds the catalog and overwrites both output
// files. Only backup and write failures are returned as errors.
func (o *Organizer) Run(ctx context.Context) (Result, error) {
	now := o.now()
	stamp := now.Format(TimestampLayout)
	log := o.Log

	log.Info().Str("data_dir", o.DataDir).Msg("starting catalog organization")

	res := Result{BackupDir: filepath.Join(o.DataDir, BackupDirName(now))}
	copied, err := Backup(o.DataDir, res.BackupDir)
	if err != nil {
		return res, err
	}
	res.BackedUp = copied
	for _, name := range copied {
		log.Info().Str("file", name).Str("backup_dir", res.BackupDir).Msg("backed up input")
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	loaded := make(map[string][]models.Record, len(InputFiles))
	var counts Counts
	for _, name := range InputFiles {
		records, n, issue := LoadCollection(o.DataDir, name)
		if issue != nil {
			res.Issues = append(res.Issues, *issue)
			if issue.Kind == IssueMissing {
				log.Warn().Str("file", name).Msg("input not found")
			} else {
				log.Error().Err(issue.Err).Str("file", name).Msg("error reading input")
			}
		}
		loaded[name] = records
		switch name {
		case MoviesFile:
			counts.Movies = n
		case EpisodesFile:
			counts.Episodes = n
		case ComingSoonFile:
			counts.ComingSoon = n
		}
	}

	cat := Assemble(
		StandardizeMovies(loaded[MoviesFile], stamp),
		StandardizeEpisodes(loaded[EpisodesFile], stamp),
		StandardizeComingSoon(loaded[ComingSoonFile], stamp),
		counts,
		stamp,
	)
	res.Catalog = cat

	res.ValidationErrors = Validate(cat)
	if len(res.ValidationErrors) > 0 {
		for _, msg := range res.ValidationErrors {
			log.Warn().Msg(msg)
		}
		log.Warn().Int("count", len(res.ValidationErrors)).Msg("validation errors found")
	} else {
		log.Info().Msg("data validation passed")
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	res.Summary = Summarize(cat)
	if err := utils.WriteJSON(filepath.Join(o.DataDir, CatalogFile), cat); err != nil {
		return res, fmt.Errorf("save organized data: %w", err)
	}
	if err := utils.WriteJSON(filepath.Join(o.DataDir, SummaryFile), res.Summary); err != nil {
		return res, fmt.Errorf("save summary: %w", err)
	}

	log.Info().
		Int("movies", cat.Metadata.TotalMovies).
		Int("episodes", cat.Metadata.TotalEpisodes).
		Int("coming_soon", cat.Metadata.TotalComingSoon).
		Int("series", cat.Series.Len()).
		Msg("organization complete")
	for _, name := range cat.Series.Names() {
		g, _ := cat.Series.Get(name)
		log.Debug().Str("series", name).Int("items", g.TotalItems).Msg("series")
	}

	return res, nil
}

func (o *Organizer) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"lpfcatalog/pkg/database"
	"lpfcatalog/pkg/logger"
	"lpfcatalog/pkg/utils"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (default $LPF_CONFIG)")
		itemsOut   = flag.String("items", "data/catalog_items.csv", "output CSV path for items")
		seriesOut  = flag.String("series", "data/catalog_series.csv", "output CSV path for series")
	)
	flag.Parse()

	cfg, err := utils.Load(*configPath)
	log := logger.New(cfg.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbCfg := database.DefaultConfig()
	if cfg.Database.Path != "" {
		dbCfg = database.ConfigFor(cfg.Database.Path)
	}
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	n, err := exportItems(ctx, db, *itemsOut)
	if err != nil {
		log.Fatal().Err(err).Msg("export items failed")
	}
	s, err := exportSeries(ctx, db, *seriesOut)
	if err != nil {
		log.Fatal().Err(err).Msg("export series failed")
	}

	log.Info().Int("items", n).Str("items_csv", *itemsOut).Int("series", s).Str("series_csv", *seriesOut).Msg("exported")
}

func createCSV(outPath string) (*os.File, *csv.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return f, csv.NewWriter(f), nil
}

func exportItems(ctx context.Context, db *sql.DB, outPath string) (int, error) {
	f, w, err := createCSV(outPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := w.Write([]string{
		"id", "category", "title", "series", "episode_number", "season_number", "year",
		"is_extended", "video_url", "embed_link", "thumbnail", "release_dates", "last_updated",
	}); err != nil {
		return 0, err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT id, category, title, series, episode_number, season_number, year,
               is_extended, video_url, embed_link, thumbnail, release_dates, last_updated
        FROM items
        ORDER BY CASE category WHEN 'movie' THEN 0 WHEN 'episode' THEN 1 ELSE 2 END, position
    `)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var (
			id, category, title, series string
			episode, season, year       sql.NullInt64
			extended                    bool
			videoURL, embedLink, thumb  string
			releaseDates                sql.NullString
			lastUpdated                 string
		)
		if err := rows.Scan(&id, &category, &title, &series, &episode, &season, &year,
			&extended, &videoURL, &embedLink, &thumb, &releaseDates, &lastUpdated); err != nil {
			return n, err
		}

		if err := w.Write([]string{
			id,
			category,
			title,
			series,
			nullIntCell(episode),
			nullIntCell(season),
			nullIntCell(year),
			strconv.FormatBool(extended),
			videoURL,
			embedLink,
			thumb,
			releaseDates.String,
			lastUpdated,
		}); err != nil {
			return n, err
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, err
	}

	w.Flush()
	return n, w.Error()
}

func exportSeries(ctx context.Context, db *sql.DB, outPath string) (int, error) {
	f, w, err := createCSV(outPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := w.Write([]string{"name", "movies", "episodes", "total_items"}); err != nil {
		return 0, err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT name, movies, episodes, total_items
        FROM series
        ORDER BY position
    `)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var (
			name                    string
			movies, episodes, total int
		)
		if err := rows.Scan(&name, &movies, &episodes, &total); err != nil {
			return n, err
		}
		if err := w.Write([]string{
			name,
			strconv.Itoa(movies),
			strconv.Itoa(episodes),
			strconv.Itoa(total),
		}); err != nil {
			return n, err
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, err
	}

	w.Flush()
	return n, w.Error()
}

func nullIntCell(n sql.NullInt64) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatInt(n.Int64, 10)
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"lpfcatalog/pkg/models"
)

var ErrNotFound = errors.New("not found")

// Run is one persisted organize pass.
type Run struct {
	ID               string `json:"id"`
	OrganizedAt      string `json:"organized_at"`
	TotalMovies      int    `json:"total_movies"`
	TotalEpisodes    int    `json:"total_episodes"`
	TotalComingSoon  int    `json:"total_coming_soon"`
	SeriesCount      int    `json:"series_count"`
	ValidationErrors int    `json:"validation_errors"`
	CreatedAt        string `json:"created_at"`
}

type SeriesRow struct {
	Name       string `json:"name"`
	Movies     int    `json:"movies"`
	Episodes   int    `json:"episodes"`
	TotalItems int    `json:"total_items"`
}

type ItemQuery struct {
	Category string // movie | episode | coming_soon
	Series   string
	Q        string // keyword search in title/description
	Limit    int
	Offset   int
}

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// SaveCatalog stores cat as the current catalog under a new run id. Items
// and series are upserted, then rows left over from earlier runs are removed.
func (r *Repo) SaveCatalog(ctx context.Context, cat models.Catalog, validationErrors int) (Run, error) {
	run := Run{
		ID:               uuid.NewString(),
		OrganizedAt:      cat.Metadata.OrganizedAt,
		TotalMovies:      cat.Metadata.TotalMovies,
		TotalEpisodes:    cat.Metadata.TotalEpisodes,
		TotalComingSoon:  cat.Metadata.TotalComingSoon,
		SeriesCount:      cat.Series.Len(),
		ValidationErrors: validationErrors,
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, organized_at, total_movies, total_episodes, total_coming_soon, series_count, validation_errors)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.OrganizedAt, run.TotalMovies, run.TotalEpisodes, run.TotalComingSoon, run.SeriesCount, run.ValidationErrors); err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	if err := saveItems(ctx, tx, run.ID, cat.Categories); err != nil {
		return Run{}, err
	}
	if err := saveSeries(ctx, tx, run.ID, cat.Series); err != nil {
		return Run{}, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE run_id <> ?`, run.ID); err != nil {
		return Run{}, fmt.Errorf("prune items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM series WHERE run_id <> ?`, run.ID); err != nil {
		return Run{}, fmt.Errorf("prune series: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit tx: %w", err)
	}
	return run, nil
}

func saveItems(ctx context.Context, tx *sql.Tx, runID string, cats models.Categories) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO items (id, position, category, title, description, video_url, thumbnail, embed_link,
		                   series, episode_number, season_number, is_extended, year, release_dates, last_updated, run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  position = excluded.position,
		  category = excluded.category,
		  title = excluded.title,
		  description = excluded.description,
		  video_url = excluded.video_url,
		  thumbnail = excluded.thumbnail,
		  embed_link = excluded.embed_link,
		  series = excluded.series,
		  episode_number = excluded.episode_number,
		  season_number = excluded.season_number,
		  is_extended = excluded.is_extended,
		  year = excluded.year,
		  release_dates = excluded.release_dates,
		  last_updated = excluded.last_updated,
		  run_id = excluded.run_id
	`)
	if err != nil {
		return fmt.Errorf("prepare item upsert: %w", err)
	}
	defer stmt.Close()

	for _, group := range [][]models.Item{cats.Movies, cats.Episodes, cats.ComingSoon} {
		for pos, it := range group {
			var dates sql.NullString
			if it.Category == models.CategoryComingSoon {
				b, err := json.Marshal(nonNilDates(it.ReleaseDates))
				if err != nil {
					return fmt.Errorf("marshal release dates for %s: %w", it.ID, err)
				}
				dates = sql.NullString{String: string(b), Valid: true}
			}

			if _, err := stmt.ExecContext(ctx,
				it.ID, pos, string(it.Category), it.Title, it.Description, it.VideoURL, it.Thumbnail, it.EmbedLink,
				it.Series, nullInt(it.EpisodeNumber), nullInt(it.SeasonNumber), it.IsExtended, nullInt(it.Year),
				dates, it.LastUpdated, runID,
			); err != nil {
				return fmt.Errorf("exec item upsert for %s: %w", it.ID, err)
			}
		}
	}
	return nil
}

func saveSeries(ctx context.Context, tx *sql.Tx, runID string, idx *models.SeriesIndex) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO series (name, position, movies, episodes, total_items, run_id)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
		  position = excluded.position,
		  movies = excluded.movies,
		  episodes = excluded.episodes,
		  total_items = excluded.total_items,
		  run_id = excluded.run_id
	`)
	if err != nil {
		return fmt.Errorf("prepare series upsert: %w", err)
	}
	defer stmt.Close()

	for pos, name := range idx.Names() {
		g, _ := idx.Get(name)
		if _, err := stmt.ExecContext(ctx, name, pos, len(g.Movies), len(g.Episodes), g.TotalItems, runID); err != nil {
			return fmt.Errorf("exec series upsert for %q: %w", name, err)
		}
	}
	return nil
}

const itemColumns = `id, category, title, description, video_url, thumbnail, embed_link,
	series, episode_number, season_number, is_extended, year, release_dates, last_updated`

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (models.Item, error) {
	var (
		it       models.Item
		category string
		episode  sql.NullInt64
		season   sql.NullInt64
		year     sql.NullInt64
		dates    sql.NullString
	)
	if err := s.Scan(
		&it.ID, &category, &it.Title, &it.Description, &it.VideoURL, &it.Thumbnail, &it.EmbedLink,
		&it.Series, &episode, &season, &it.IsExtended, &year, &dates, &it.LastUpdated,
	); err != nil {
		return models.Item{}, err
	}
	it.Category = models.Category(category)
	it.EpisodeNumber = intFromNull(episode)
	it.SeasonNumber = intFromNull(season)
	it.Year = intFromNull(year)
	if dates.Valid {
		_ = json.Unmarshal([]byte(dates.String), &it.ReleaseDates)
	}
	return it, nil
}

func (r *Repo) GetItem(ctx context.Context, id string) (models.Item, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Item{}, ErrNotFound
		}
		return models.Item{}, fmt.Errorf("scan item: %w", err)
	}
	return it, nil
}

func (r *Repo) CountItems(ctx context.Context, q ItemQuery) (int, error) {
	sqlStr, args := buildItemSQL(q, true)
	var total int
	if err := r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) ListItems(ctx context.Context, q ItemQuery) ([]models.Item, error) {
	sqlStr, args := buildItemSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// buildItemSQL builds either COUNT(*) or the paged SELECT. Items come back
// in catalog order: movies, episodes, coming soon, each by position.
func buildItemSQL(q ItemQuery, countOnly bool) (string, []any) {
	base := `SELECT ` + itemColumns + ` FROM items`
	if countOnly {
		base = `SELECT COUNT(*) FROM items`
	}

	var where []string
	var args []any

	if c := strings.TrimSpace(q.Category); c != "" {
		where = append(where, "category = ?")
		args = append(args, strings.ToLower(c))
	}
	if s := strings.TrimSpace(q.Series); s != "" {
		where = append(where, "LOWER(series) = ?")
		args = append(args, strings.ToLower(s))
	}
	if kw := strings.TrimSpace(q.Q); kw != "" {
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)")
		like := "%" + strings.ToLower(kw) + "%"
		args = append(args, like, like)
	}

	sqlStr := base
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += ` ORDER BY CASE category WHEN 'movie' THEN 0 WHEN 'episode' THEN 1 ELSE 2 END, position`
		sqlStr += " LIMIT ? OFFSET ?"
		limit := q.Limit
		if limit <= 0 || limit > 200 {
			limit = 50
		}
		offset := q.Offset
		if offset < 0 {
			offset = 0
		}
		args = append(args, limit, offset)
	}
	return sqlStr, args
}

// ListSeries returns the groups in first-seen order.
func (r *Repo) ListSeries(ctx context.Context) ([]SeriesRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT name, movies, episodes, total_items
		FROM series
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	out := make([]SeriesRow, 0)
	for rows.Next() {
		var s SeriesRow
		if err := rows.Scan(&s.Name, &s.Movies, &s.Episodes, &s.TotalItems); err != nil {
			return nil, fmt.Errorf("series scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LatestRun returns ErrNotFound before the first SaveCatalog.
func (r *Repo) LatestRun(ctx context.Context) (Run, error) {
	var run Run
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, organized_at, total_movies, total_episodes, total_coming_soon, series_count, validation_errors, created_at
		FROM runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`).Scan(&run.ID, &run.OrganizedAt, &run.TotalMovies, &run.TotalEpisodes, &run.TotalComingSoon,
		&run.SeriesCount, &run.ValidationErrors, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrNotFound
		}
		return Run{}, fmt.Errorf("latest run: %w", err)
	}
	return run, nil
}

// Summary rebuilds the data_summary.json document from the stored catalog.
func (r *Repo) Summary(ctx context.Context) (models.Summary, error) {
	run, err := r.LatestRun(ctx)
	if err != nil {
		return models.Summary{}, err
	}
	series, err := r.ListSeries(ctx)
	if err != nil {
		return models.Summary{}, err
	}
	names := make([]string, len(series))
	for i, s := range series {
		names[i] = s.Name
	}
	return models.Summary{
		TotalMovies:     run.TotalMovies,
		TotalEpisodes:   run.TotalEpisodes,
		TotalComingSoon: run.TotalComingSoon,
		SeriesCount:     len(names),
		SeriesList:      names,
		LastUpdated:     run.OrganizedAt,
	}, nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nonNilDates(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

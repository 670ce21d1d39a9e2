package organizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"lpfcatalog/pkg/models"
	"lpfcatalog/pkg/utils"
)

// Input and output file names inside the data directory.
const (
	MoviesFile     = "movie_data.json"
	EpisodesFile   = "episodes_data.json"
	ComingSoonFile = "comingsoon_data.json"
	CatalogFile    = "organized_data.json"
	SummaryFile    = "data_summary.json"
)

// InputFiles in processing order.
var InputFiles = []string{MoviesFile, EpisodesFile, ComingSoonFile}

var ErrMissingInput = errors.New("input file not found")

type IssueKind string

const (
	IssueMissing   IssueKind = "missing"
	IssueMalformed IssueKind = "malformed"
)

// LoadIssue records why an input collection was treated as empty.
type LoadIssue struct {
	File string    `json:"file"`
	Kind IssueKind `json:"kind"`
	Err  error     `json:"-"`
}

func (i LoadIssue) Error() string {
	return fmt.Sprintf("%s: %s: %v", i.File, i.Kind, i.Err)
}

func (i LoadIssue) Unwrap() error { return i.Err }

// BackupDirName is the directory name used for the copy taken at stamp.
func BackupDirName(t time.Time) string {
	return "backup_" + t.Format("20060102_150405")
}

// Backup creates dir and copies every existing input file into it
// verbatim. It returns the names of the files copied.
func Backup(dataDir, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	var copied []string
	for _, name := range InputFiles {
		src := filepath.Join(dataDir, name)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := copyFile(src, filepath.Join(dir, name)); err != nil {
			return copied, fmt.Errorf("backup %s: %w", name, err)
		}
		copied = append(copied, name)
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// LoadCollection reads a JSON array of records. A missing, unreadable or
// malformed file yields an empty collection and a LoadIssue, never an error.
// rawCount is the length of the decoded array, object or not.
func LoadCollection(dataDir, name string) (records []models.Record, rawCount int, issue *LoadIssue) {
	b, err := os.ReadFile(filepath.Join(dataDir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, &LoadIssue{File: name, Kind: IssueMissing, Err: ErrMissingInput}
		}
		return nil, 0, &LoadIssue{File: name, Kind: IssueMalformed, Err: err}
	}

	var raw []any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, 0, &LoadIssue{File: name, Kind: IssueMalformed, Err: err}
	}
	return models.Records(raw), len(raw), nil
}

// ReadCatalog loads a previously written organized_data.json.
func ReadCatalog(path string) (models.Catalog, error) {
	var cat models.Catalog
	if err := utils.ReadJSON(path, &cat); err != nil {
		return models.Catalog{}, err
	}
	if cat.Series == nil {
		cat.Series = models.NewSeriesIndex()
	}
	return cat, nil
}

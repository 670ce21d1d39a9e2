package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lpfcatalog/internal/organizer"
	"lpfcatalog/internal/store"
	"lpfcatalog/pkg/database"
	"lpfcatalog/pkg/utils"
)

func TestRun_Persist(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, organizer.MoviesFile),
		[]byte(`[{"title":"Evil Cat 1","thumbnail":"t"}]`), 0o644))
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	err := run(context.Background(), utils.Defaults(), options{dataDir: dataDir, persist: true, dbPath: dbPath}, zerolog.Nop())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dataDir, organizer.CatalogFile))

	db, err := database.Open(database.Config{Path: dbPath})
	require.NoError(t, err)
	defer db.Close()
	n, err := store.NewRepo(db).CountItems(context.Background(), store.ItemQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRun_ReturnsErrors(t *testing.T) {
	dataDir := t.TempDir()
	// a file where the database directory should be
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := run(context.Background(), utils.Defaults(),
		options{dataDir: dataDir, persist: true, dbPath: filepath.Join(blocker, "catalog.db")}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open database")
}

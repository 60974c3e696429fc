package artifact

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadflowhq/leadflow/internal/leads"
)

func TestWriteLeads(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewCSVStore(dir)
	require.NoError(t, err)

	batch := []leads.Lead{
		{Name: "Kawiarnia A", Address: "ul. Prosta 1", Website: "https://a.pl", Email: "a@a.pl", Phone: "123 456 789", PlaceID: "p1"},
		{Name: "Kawiarnia B"},
	}
	url, err := store.WriteLeads(context.Background(), "job-1", batch)
	require.NoError(t, err)
	assert.Equal(t, "/download/job-1.csv", url)

	f, err := os.Open(filepath.Join(dir, "job-1.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"name", "address", "website", "email", "phone", "place_id"}, rows[0])
	assert.Equal(t, "Kawiarnia A", rows[1][0])
	assert.Equal(t, "a@a.pl", rows[1][3])
	assert.Equal(t, "Kawiarnia B", rows[2][0])
	assert.Equal(t, "", rows[2][3])
}

func TestWriteLeads_EmptyBatch(t *testing.T) {
	t.Parallel()

	store, err := NewCSVStore(t.TempDir())
	require.NoError(t, err)

	url, err := store.WriteLeads(context.Background(), "job-empty", nil)
	require.NoError(t, err)
	assert.Equal(t, "/download/job-empty.csv", url)

	f, err := os.Open(filepath.Join(store.Dir(), "job-empty.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1, "empty batch still yields a header-only artifact")
}

func TestNewCSVStore_CreatesDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "results")
	store, err := NewCSVStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewCSVStore_RejectsEmptyAndFilePaths(t *testing.T) {
	t.Parallel()

	_, err := NewCSVStore("  ")
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	_, err = NewCSVStore(file)
	assert.Error(t, err)
}

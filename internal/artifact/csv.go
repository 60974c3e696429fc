// Package artifact persists job results as downloadable CSV files.
package artifact

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/leadflowhq/leadflow/internal/leads"
)

// DownloadPathPrefix is the URL prefix result files are served under.
const DownloadPathPrefix = "/download"

// Header mirrors the Lead attributes, one column each.
var header = []string{"name", "address", "website", "email", "phone", "place_id"}

// CSVStore writes one CSV file per completed job into a local directory.
type CSVStore struct {
	dir string
}

// NewCSVStore validates the results directory, creating it if needed.
func NewCSVStore(dir string) (*CSVStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, eris.New("results directory is required")
	}
	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return nil, eris.Errorf("results path %s is not a directory", dir)
		}
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(dir, 0o750); mkErr != nil {
			return nil, eris.Wrap(mkErr, "create results directory")
		}
	default:
		return nil, eris.Wrap(err, "stat results directory")
	}
	return &CSVStore{dir: dir}, nil
}

// Dir returns the directory result files are written to.
func (s *CSVStore) Dir() string {
	return s.dir
}

// WriteLeads writes the batch as <job-id>.csv and returns its download URL.
// An empty batch still produces a valid file with only the header row.
func (s *CSVStore) WriteLeads(_ context.Context, jobID string, batch []leads.Lead) (string, error) {
	name := jobID + ".csv"
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", eris.Wrap(err, "create result file")
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return "", eris.Wrap(err, "write header")
	}
	for _, lead := range batch {
		row := []string{lead.Name, lead.Address, lead.Website, lead.Email, lead.Phone, lead.PlaceID}
		if err := w.Write(row); err != nil {
			_ = f.Close()
			return "", eris.Wrap(err, "write lead row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return "", eris.Wrap(err, "flush result file")
	}
	if err := f.Close(); err != nil {
		return "", eris.Wrap(err, "close result file")
	}
	return DownloadPathPrefix + "/" + name, nil
}

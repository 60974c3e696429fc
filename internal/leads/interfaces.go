package leads

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

// ErrJobNotFound is returned by JobStore lookups for unknown identifiers.
var ErrJobNotFound = eris.New("job not found")

// JobStore persists job records for status polling. Update applies the given
// mutation atomically; implementations must reject updates to terminal jobs
// and never let progress move backwards.
type JobStore interface {
	CreateJob(ctx context.Context, job Job) error
	GetJob(ctx context.Context, jobID string) (Job, error)
	UpdateJob(ctx context.Context, jobID string, apply func(*Job)) error
}

// LeadSource turns a search query into raw business records.
type LeadSource interface {
	CollectLeads(ctx context.Context, query string, maxResults int) ([]Lead, error)
}

// Enricher augments a batch of leads with contact details. The returned slice
// has the same length and order as the input.
type Enricher interface {
	Enrich(ctx context.Context, batch []Lead) ([]Lead, error)
}

// ArtifactStore writes the result artifact for a finished job and returns the
// URL it will be served from.
type ArtifactStore interface {
	WriteLeads(ctx context.Context, jobID string, batch []Lead) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces job IDs.
type IDGenerator interface {
	NewID() (string, error)
}

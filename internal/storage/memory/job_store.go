// Package memory provides a process-lifetime job registry.
package memory

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/leadflowhq/leadflow/internal/leads"
)

// JobStore is an in-memory leads.JobStore. Each running job mutates only its
// own entry, so a single RWMutex over the map is all the coordination needed.
// Entries live for the process lifetime; there is no eviction.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]leads.Job
}

// NewJobStore constructs a JobStore.
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]leads.Job)}
}

// CreateJob registers a new job record.
func (s *JobStore) CreateJob(_ context.Context, job leads.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[job.ID]; exists {
		return eris.Errorf("job %s already exists", job.ID)
	}
	s.jobs[job.ID] = job
	return nil
}

// GetJob fetches a snapshot of a job by ID.
func (s *JobStore) GetJob(_ context.Context, jobID string) (leads.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return leads.Job{}, leads.ErrJobNotFound
	}
	return job, nil
}

// UpdateJob applies the mutation under the lock. Terminal jobs are immutable
// and progress never moves backwards, whatever the mutation does.
func (s *JobStore) UpdateJob(_ context.Context, jobID string, apply func(*leads.Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return leads.ErrJobNotFound
	}
	if job.Status.Terminal() {
		return eris.Errorf("job %s is already %s", jobID, job.Status)
	}
	prevProgress := job.Progress
	apply(&job)
	if job.Progress < prevProgress {
		job.Progress = prevProgress
	}
	s.jobs[jobID] = job
	return nil
}

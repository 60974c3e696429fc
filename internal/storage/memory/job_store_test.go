package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadflowhq/leadflow/internal/leads"
)

func TestJobStore_CreateAndGet(t *testing.T) {
	t.Parallel()

	s := NewJobStore()
	job := leads.Job{ID: "job-1", Status: leads.JobStatusPending, Query: "cafes warsaw"}
	require.NoError(t, s.CreateJob(context.Background(), job))

	got, err := s.GetJob(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, job, got)

	assert.Error(t, s.CreateJob(context.Background(), job), "duplicate create must fail")
}

func TestJobStore_GetUnknownID(t *testing.T) {
	t.Parallel()

	s := NewJobStore()
	_, err := s.GetJob(context.Background(), "missing")
	assert.ErrorIs(t, err, leads.ErrJobNotFound)

	err = s.UpdateJob(context.Background(), "missing", func(*leads.Job) {})
	assert.ErrorIs(t, err, leads.ErrJobNotFound)
}

func TestJobStore_UpdateAppliesMutation(t *testing.T) {
	t.Parallel()

	s := NewJobStore()
	require.NoError(t, s.CreateJob(context.Background(), leads.Job{ID: "job-1", Status: leads.JobStatusPending}))

	err := s.UpdateJob(context.Background(), "job-1", func(j *leads.Job) {
		j.Status = leads.JobStatusRunning
		j.Progress = 50
		j.ResultsCount = 7
	})
	require.NoError(t, err)

	got, err := s.GetJob(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, leads.JobStatusRunning, got.Status)
	assert.Equal(t, 50, got.Progress)
	assert.Equal(t, 7, got.ResultsCount)
}

func TestJobStore_TerminalJobsAreImmutable(t *testing.T) {
	t.Parallel()

	for _, status := range []leads.JobStatus{leads.JobStatusCompleted, leads.JobStatusFailed} {
		s := NewJobStore()
		require.NoError(t, s.CreateJob(context.Background(), leads.Job{ID: "job-1", Status: leads.JobStatusPending}))
		require.NoError(t, s.UpdateJob(context.Background(), "job-1", func(j *leads.Job) {
			j.Status = status
		}))

		err := s.UpdateJob(context.Background(), "job-1", func(j *leads.Job) {
			j.Status = leads.JobStatusRunning
		})
		assert.Error(t, err, "terminal status %s must reject updates", status)
		assert.False(t, errors.Is(err, leads.ErrJobNotFound))
	}
}

func TestJobStore_ProgressNeverRegresses(t *testing.T) {
	t.Parallel()

	s := NewJobStore()
	require.NoError(t, s.CreateJob(context.Background(), leads.Job{ID: "job-1", Progress: 50}))

	require.NoError(t, s.UpdateJob(context.Background(), "job-1", func(j *leads.Job) {
		j.Progress = 10
	}))

	got, err := s.GetJob(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, 50, got.Progress)
}

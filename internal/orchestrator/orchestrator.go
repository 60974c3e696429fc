// Package orchestrator owns the job state machine from submission to a
// terminal state.
package orchestrator

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadflowhq/leadflow/internal/leads"
	"github.com/leadflowhq/leadflow/internal/metrics"
)

// Orchestrator runs lead-generation jobs: discover leads, enrich them, write
// the result artifact, and record progress along the way.
type Orchestrator struct {
	store     leads.JobStore
	source    leads.LeadSource
	enricher  leads.Enricher
	artifacts leads.ArtifactStore
	idGen     leads.IDGenerator
	clock     leads.Clock
	logger    *zap.Logger
}

// New constructs an Orchestrator.
func New(
	store leads.JobStore,
	source leads.LeadSource,
	enricher leads.Enricher,
	artifacts leads.ArtifactStore,
	idGen leads.IDGenerator,
	clock leads.Clock,
	logger *zap.Logger,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		store:     store,
		source:    source,
		enricher:  enricher,
		artifacts: artifacts,
		idGen:     idGen,
		clock:     clock,
		logger:    logger,
	}
}

// Submit registers a new job and starts its run in the background. The job ID
// is returned immediately; all later failures surface through the job status,
// never to the submitter.
func (o *Orchestrator) Submit(ctx context.Context, query string, maxResults int) (string, error) {
	jobID, err := o.idGen.NewID()
	if err != nil {
		return "", eris.Wrap(err, "generate job id")
	}
	job := leads.Job{
		ID:         jobID,
		Status:     leads.JobStatusPending,
		Query:      query,
		MaxResults: maxResults,
		Submitted:  o.clock.Now(),
	}
	if err := o.store.CreateJob(ctx, job); err != nil {
		return "", eris.Wrap(err, "create job")
	}

	// The run outlives the submission request; jobs are not cancelable once
	// accepted.
	go o.run(context.Background(), jobID, query, maxResults)
	return jobID, nil
}

func (o *Orchestrator) run(ctx context.Context, jobID, query string, maxResults int) {
	log := o.logger.With(zap.String("job_id", jobID))
	defer func() {
		if rec := recover(); rec != nil {
			o.fail(ctx, jobID, eris.Errorf("panic: %v", rec))
		}
	}()

	o.update(ctx, jobID, func(j *leads.Job) {
		j.Status = leads.JobStatusRunning
		j.ErrorText = ""
	})
	log.Info("job started", zap.String("query", query), zap.Int("max_results", maxResults))

	batch, err := o.source.CollectLeads(ctx, query, maxResults)
	if err != nil {
		o.fail(ctx, jobID, err)
		return
	}
	if len(batch) == 0 {
		// Zero results is a normal outcome, the job still completes.
		log.Info("lead source returned no results")
	}
	o.update(ctx, jobID, func(j *leads.Job) {
		j.ResultsCount = len(batch)
		j.Progress = leads.ProgressLeadsFetched
	})

	o.update(ctx, jobID, func(j *leads.Job) {
		j.Status = leads.JobStatusEnriching
	})
	log.Info("enriching leads", zap.Int("count", len(batch)))
	enriched, err := o.enricher.Enrich(ctx, batch)
	if err != nil {
		o.fail(ctx, jobID, err)
		return
	}
	o.update(ctx, jobID, func(j *leads.Job) {
		j.Progress = leads.ProgressEnriched
	})

	csvURL, err := o.artifacts.WriteLeads(ctx, jobID, enriched)
	if err != nil {
		o.fail(ctx, jobID, err)
		return
	}

	now := o.clock.Now()
	o.update(ctx, jobID, func(j *leads.Job) {
		j.Status = leads.JobStatusCompleted
		j.Progress = leads.ProgressDone
		j.CSVURL = csvURL
		j.Finished = &now
	})
	metrics.ObserveJob(string(leads.JobStatusCompleted))
	log.Info("job completed", zap.Int("results", len(enriched)), zap.String("csv_url", csvURL))
}

// fail moves the job to its failure terminal state, keeping whatever progress
// was last recorded.
func (o *Orchestrator) fail(ctx context.Context, jobID string, cause error) {
	now := o.clock.Now()
	o.update(ctx, jobID, func(j *leads.Job) {
		j.Status = leads.JobStatusFailed
		j.ErrorText = cause.Error()
		j.Finished = &now
	})
	metrics.ObserveJob(string(leads.JobStatusFailed))
	o.logger.Error("job failed", zap.String("job_id", jobID), zap.Error(cause))
}

func (o *Orchestrator) update(ctx context.Context, jobID string, apply func(*leads.Job)) {
	if err := o.store.UpdateJob(ctx, jobID, apply); err != nil {
		o.logger.Error("job store update failed", zap.String("job_id", jobID), zap.Error(err))
	}
}

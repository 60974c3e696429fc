// Package leads defines core types shared across subsystems.
package leads

import "time"

// JobStatus represents the lifecycle state of a lead-generation job.
type JobStatus string

// Job status values held in the job store.
const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusEnriching JobStatus = "enriching"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Coarse progress markers recorded as a job advances. The lead-source call
// and the enrichment fan-out are opaque, so progress moves in large steps.
const (
	ProgressLeadsFetched = 50
	ProgressEnriched     = 90
	ProgressDone         = 100
)

// Lead is one discovered business entity. Email and Phone stay empty until
// enrichment runs; enrichment sets each at most once.
type Lead struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Website string `json:"website,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	PlaceID string `json:"place_id,omitempty"`
}

// Job is the metadata tracked for each submitted scrape request.
type Job struct {
	ID           string     `json:"task_id"`
	Status       JobStatus  `json:"status"`
	Progress     int        `json:"progress"`
	Query        string     `json:"query"`
	MaxResults   int        `json:"max_results"`
	ResultsCount int        `json:"results_count"`
	CSVURL       string     `json:"csv_url,omitempty"`
	ErrorText    string     `json:"error,omitempty"`
	Submitted    time.Time  `json:"submitted_at"`
	Finished     *time.Time `json:"finished_at,omitempty"`
}

package model

import "time"

// Run statuses reported by the scraping platform.
const (
	RunStatusReady     = "READY"
	RunStatusRunning   = "RUNNING"
	RunStatusSucceeded = "SUCCEEDED"
	RunStatusFailed    = "FAILED"
	RunStatusAborting  = "ABORTING"
	RunStatusAborted   = "ABORTED"
	RunStatusTimingOut = "TIMING-OUT"
	RunStatusTimedOut  = "TIMED-OUT"
)

// ScraperRun is one execution of a scraping task. It is never stored in Postgres.
type ScraperRun struct {
	ID               string     `json:"id"`
	ActID            string     `json:"actId"`
	Status           string     `json:"status"`
	DefaultDatasetID string     `json:"defaultDatasetId"`
	StartedAt        *time.Time `json:"startedAt,omitempty"`
	FinishedAt       *time.Time `json:"finishedAt,omitempty"`
}

// Terminal reports whether the run has stopped and will not change status again.
func (r *ScraperRun) Terminal() bool {
	switch r.Status {
	case RunStatusSucceeded, RunStatusFailed, RunStatusAborted, RunStatusTimedOut:
		return true
	}
	return false
}

// DatasetItem is one raw JSON object from a run's output dataset.
type DatasetItem = map[string]interface{}

// SyncEvent describes the progress of a competitor sync for realtime and async consumers.
type SyncEvent struct {
	Type         string    `json:"type"`
	UserID       string    `json:"user_id"`
	CompetitorID string    `json:"competitor_id"`
	Handle       string    `json:"handle"`
	Action       string    `json:"action"`
	Status       string    `json:"status"` // started | succeeded | failed
	Count        int       `json:"count"`
	Error        *string   `json:"error,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

const (
	SyncStatusStarted   = "started"
	SyncStatusSucceeded = "succeeded"
	SyncStatusFailed    = "failed"
)

package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind names the pipeline a job runs.
type Kind string

const (
	KindDataset            Kind = "dataset"
	KindAnnotationHistory  Kind = "annotation-history"
	KindDiscrepancyHistory Kind = "discrepancy-history"
	KindPerspectiveHistory Kind = "perspective-history"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusRetrying  Status = "retrying"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Done reports whether s is terminal.
func (s Status) Done() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Result locates the artifact a succeeded job produced.
// StorageKey is set when the artifact was also uploaded to blob storage.
type Result struct {
	Path       string `json:"path"`
	StorageKey string `json:"storage_key,omitempty"`
}

// Job is a snapshot of a submitted job.
type Job struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	ProjectID int64     `json:"project_id"`
	Status    Status    `json:"status"`
	Attempts  int       `json:"attempts"`
	Result    *Result   `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	ErrorKind string    `json:"error_kind,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Task is the unit of work a job runs. Every call must start from scratch:
// a retried Task is invoked again with the same context.
type Task func(ctx context.Context) (Result, error)

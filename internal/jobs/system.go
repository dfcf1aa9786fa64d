// Package jobs runs export and report pipelines as asynchronous, retryable
// background jobs and keeps their results for a bounded time.
package jobs

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/annex/pkg/lifecycle"
	"github.com/JaimeStill/annex/pkg/retry"
	"github.com/JaimeStill/annex/pkg/storage"
)

// Config holds the runner settings. OutputDir is the directory task
// artifacts are written under; eviction and sweeping only touch entries there.
type Config struct {
	Workers       int
	QueueSize     int
	Timeout       time.Duration
	ResultTTL     time.Duration
	SweepInterval time.Duration
	Retry         retry.Policy
	OutputDir     string
}

// System defines the public contract for submitting and tracking jobs.
type System interface {
	Handler(store storage.System) *Handler

	// Start launches the dispatcher and sweeper and stops them when lc shuts down.
	Start(lc *lifecycle.Coordinator) error

	// Submit queues task and returns the pending job. It fails with
	// ErrQueueFull when the queue is at capacity and ErrStopped after shutdown.
	Submit(kind Kind, projectID int64, task Task) (Job, error)

	// Poll returns the current snapshot of a job.
	Poll(id uuid.UUID) (Job, error)

	// Sweep drops expired jobs and removes stale artifacts no live job references.
	Sweep() (int, error)
}

// Package reports builds the tabular history reports of a project: who
// annotated what, where annotators disagree and how perspective questions
// were answered. Each report is a CSV file in its own job directory.
package reports

import (
	"context"

	"github.com/JaimeStill/annex/internal/jobs"
	"github.com/JaimeStill/annex/pkg/pagination"
	"github.com/JaimeStill/annex/pkg/record"
)

// System defines the public contract for history reports. Each report
// method returns the path of the written CSV file.
type System interface {
	Handler(runner jobs.System, page pagination.Config, maxRequestSize int64) *Handler

	// Validate checks req against the project without touching the filesystem.
	Validate(ctx context.Context, req Request) error

	AnnotationHistory(ctx context.Context, req Request) (string, error)
	DiscrepancyHistory(ctx context.Context, req Request) (string, error)
	PerspectiveHistory(ctx context.Context, req Request) (string, error)

	// Task adapts the report of the given kind to a job task.
	Task(kind jobs.Kind, req Request) (jobs.Task, error)

	// Rows reads one page of a finished report back into typed rows.
	Rows(path string, page pagination.PageRequest) (pagination.PageResult[*record.Record], error)
}

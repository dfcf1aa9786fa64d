// Package exports orchestrates dataset exports: it resolves the formatter
// chain and writer for a project, writes one file per export unit into a
// job-scoped directory and archives the directory.
package exports

import (
	"context"

	"github.com/JaimeStill/annex/internal/formatters"
	"github.com/JaimeStill/annex/internal/jobs"
)

// System defines the public contract for dataset exports.
type System interface {
	Handler(runner jobs.System, maxRequestSize int64) *Handler

	// Formats lists the formats the project can be exported in.
	Formats(ctx context.Context, projectID int64) ([]formatters.Format, error)

	// Validate checks req against the project without touching the filesystem.
	Validate(ctx context.Context, req Request) error

	// Export writes the archive for req. On error no job directory or
	// partial archive is left behind.
	Export(ctx context.Context, req Request) (*Result, error)

	// Task adapts Export to a job task.
	Task(req Request) jobs.Task
}

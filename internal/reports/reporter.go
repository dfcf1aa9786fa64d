package reports

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/JaimeStill/annex/internal/examples"
	"github.com/JaimeStill/annex/internal/faults"
	"github.com/JaimeStill/annex/internal/jobs"
	"github.com/JaimeStill/annex/internal/labels"
	"github.com/JaimeStill/annex/internal/perspectives"
	"github.com/JaimeStill/annex/internal/projects"
	"github.com/JaimeStill/annex/internal/writers"
	"github.com/JaimeStill/annex/pkg/pagination"
	"github.com/JaimeStill/annex/pkg/record"
)

// Sources groups the read systems reports draw from.
type Sources struct {
	Projects     projects.System
	Examples     examples.System
	Labels       labels.System
	Perspectives perspectives.System
}

// Options holds the report output directory and the default discrepancy threshold.
type Options struct {
	OutputDir string
	Threshold float64
}

type reporter struct {
	src    Sources
	opts   Options
	logger *slog.Logger
}

// New creates a report builder implementing the System interface.
func New(src Sources, opts Options, logger *slog.Logger) System {
	return &reporter{
		src:    src,
		opts:   opts,
		logger: logger.With("system", "reports"),
	}
}

func (r *reporter) Handler(runner jobs.System, page pagination.Config, maxRequestSize int64) *Handler {
	return NewHandler(r, runner, r.logger, page, maxRequestSize)
}

func (r *reporter) Validate(ctx context.Context, req Request) error {
	if err := req.validate(); err != nil {
		return err
	}
	_, err := r.project(ctx, req.ProjectID)
	return err
}

func (r *reporter) Task(kind jobs.Kind, req Request) (jobs.Task, error) {
	var build func(context.Context, Request) (string, error)

	switch kind {
	case jobs.KindAnnotationHistory:
		build = r.AnnotationHistory
	case jobs.KindDiscrepancyHistory:
		build = r.DiscrepancyHistory
	case jobs.KindPerspectiveHistory:
		build = r.PerspectiveHistory
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownReport, kind)
	}

	return func(ctx context.Context) (jobs.Result, error) {
		path, err := build(ctx, req)
		if err != nil {
			return jobs.Result{}, err
		}
		return jobs.Result{Path: path}, nil
	}, nil
}

func (r *reporter) AnnotationHistory(ctx context.Context, req Request) (string, error) {
	return r.write(ctx, req, jobs.KindAnnotationHistory, r.annotationRows)
}

func (r *reporter) DiscrepancyHistory(ctx context.Context, req Request) (string, error) {
	return r.write(ctx, req, jobs.KindDiscrepancyHistory, r.discrepancyRows)
}

func (r *reporter) PerspectiveHistory(ctx context.Context, req Request) (string, error) {
	return r.write(ctx, req, jobs.KindPerspectiveHistory, r.perspectiveRows)
}

// rowsFunc builds the rows of one report for the filtered examples.
type rowsFunc func(ctx context.Context, p *projects.Project, exs []examples.Example, req Request) ([]*record.Record, error)

// write runs the query and enrichment for one report and writes its CSV into
// a fresh job directory. The directory is removed when any step fails.
func (r *reporter) write(ctx context.Context, req Request, kind jobs.Kind, rows rowsFunc) (path string, err error) {
	if err := req.validate(); err != nil {
		return "", err
	}

	p, err := r.project(ctx, req.ProjectID)
	if err != nil {
		return "", err
	}

	exs, err := r.src.Examples.List(ctx, p.ID, examples.Filters{DatasetName: req.DatasetName})
	if err != nil {
		return "", fmt.Errorf("list examples: %w", err)
	}

	recs, err := rows(ctx, p, exs, req)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return "", faults.Write("create output dir", err)
	}

	dir := filepath.Join(r.opts.OutputDir, uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", faults.Write("create job dir", err)
	}
	defer func() {
		if err != nil {
			os.RemoveAll(dir)
		}
	}()

	s := schemas[kind]
	path = filepath.Join(dir, s.file)
	if err := (writers.CSV{Header: s.header()}).Write(path, values(recs)); err != nil {
		return "", err
	}

	r.logger.Info(
		"report written",
		"kind", kind,
		"project_id", p.ID,
		"examples", len(exs),
		"rows", len(recs),
		"path", path,
	)
	return path, nil
}

func (r *reporter) project(ctx context.Context, id int64) (*projects.Project, error) {
	p, err := r.src.Projects.Find(ctx, id)
	if errors.Is(err, projects.ErrNotFound) {
		return nil, faults.NotFound("find project", fmt.Errorf("%w: %d", err, id))
	}
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}
	return p, nil
}

func values(recs []*record.Record) iter.Seq2[*record.Record, error] {
	return func(yield func(*record.Record, error) bool) {
		for _, rec := range recs {
			if !yield(rec, nil) {
				return
			}
		}
	}
}

func exampleIDs(exs []examples.Example) []int64 {
	ids := make([]int64, len(exs))
	for i, ex := range exs {
		ids[i] = ex.ID
	}
	return ids
}

package exports

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/JaimeStill/annex/internal/comments"
	"github.com/JaimeStill/annex/internal/dataset"
	"github.com/JaimeStill/annex/internal/examples"
	"github.com/JaimeStill/annex/internal/faults"
	"github.com/JaimeStill/annex/internal/formatters"
	"github.com/JaimeStill/annex/internal/jobs"
	"github.com/JaimeStill/annex/internal/labels"
	"github.com/JaimeStill/annex/internal/projects"
	"github.com/JaimeStill/annex/internal/writers"
	"github.com/JaimeStill/annex/pkg/archive"
	"github.com/JaimeStill/annex/pkg/formatting"
	"github.com/JaimeStill/annex/pkg/storage"
)

// Sources groups the read systems an export draws from.
type Sources struct {
	Projects projects.System
	Examples examples.System
	Labels   labels.System
	Comments comments.System
}

// Options controls where archives go. Upload requires a non-nil store;
// Key maps an archive file name to its storage key.
type Options struct {
	OutputDir string
	Upload    bool
	Key       func(name string) string
}

type exporter struct {
	src    Sources
	store  storage.System
	opts   Options
	logger *slog.Logger
}

// New creates an export orchestrator implementing the System interface.
// store may be nil when uploads are disabled.
func New(src Sources, store storage.System, opts Options, logger *slog.Logger) System {
	if opts.Key == nil {
		opts.Key = func(name string) string { return name }
	}
	return &exporter{
		src:    src,
		store:  store,
		opts:   opts,
		logger: logger.With("system", "exports"),
	}
}

func (e *exporter) Handler(runner jobs.System, maxRequestSize int64) *Handler {
	return NewHandler(e, runner, e.logger, maxRequestSize)
}

func (e *exporter) Formats(ctx context.Context, projectID int64) ([]formatters.Format, error) {
	p, err := e.project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return formatters.Options(p.Type, p.UseRelation), nil
}

func (e *exporter) Validate(ctx context.Context, req Request) error {
	p, err := e.project(ctx, req.ProjectID)
	if err != nil {
		return err
	}
	return validate(p, req)
}

func (e *exporter) Task(req Request) jobs.Task {
	return func(ctx context.Context) (jobs.Result, error) {
		res, err := e.Export(ctx, req)
		if err != nil {
			return jobs.Result{}, err
		}
		return jobs.Result{Path: res.Path, StorageKey: res.StorageKey}, nil
	}
}

func (e *exporter) Export(ctx context.Context, req Request) (result *Result, err error) {
	p, err := e.project(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := validate(p, req); err != nil {
		return nil, err
	}

	chain, err := formatters.Select(p.Type, req.Format, p.UseRelation)
	if err != nil {
		return nil, err
	}
	w, err := writers.New(string(req.Format))
	if err != nil {
		return nil, err
	}

	units, err := e.units(ctx, p, req.ConfirmedOnly)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(e.opts.OutputDir, 0o755); err != nil {
		return nil, faults.Write("create output dir", err)
	}

	dir := filepath.Join(e.opts.OutputDir, uuid.NewString())
	zipPath := dir + ".zip"
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, faults.Write("create job dir", err)
	}
	defer func() {
		os.RemoveAll(dir)
		if err != nil {
			os.Remove(zipPath)
		}
	}()

	version := max(p.CurrentVersion, 1)
	if req.Version != nil {
		version = *req.Version
	}

	files := make([]string, 0, len(units))
	for _, u := range units {
		name := u.name + "." + w.Extension()
		if err := e.write(ctx, p, chain, w, version, u, filepath.Join(dir, name)); err != nil {
			return nil, err
		}
		files = append(files, name)
	}

	if err := archive.ZipDir(dir, zipPath); err != nil {
		return nil, faults.Write("archive export", err)
	}
	if err := os.RemoveAll(dir); err != nil {
		return nil, faults.Write("remove job dir", err)
	}

	info, err := os.Stat(zipPath)
	if err != nil {
		return nil, faults.Write("stat archive", err)
	}

	slices.Sort(files)
	result = &Result{Path: zipPath, Files: files, Size: info.Size()}

	if e.opts.Upload && e.store != nil {
		if result.StorageKey, err = e.upload(ctx, zipPath); err != nil {
			return nil, err
		}
	}

	e.logger.Info(
		"dataset exported",
		"project_id", p.ID,
		"format", req.Format,
		"files", len(files),
		"size", formatting.FormatBytes(result.Size, 1),
		"path", zipPath,
	)

	return result, nil
}

// unit is one output file: a scope of users and the examples it covers.
type unit struct {
	name    string
	users   []int64
	filters examples.Filters
}

func (e *exporter) units(ctx context.Context, p *projects.Project, confirmedOnly bool) ([]unit, error) {
	if p.Collaborative {
		return []unit{{
			name:    "all",
			filters: examples.Filters{ConfirmedOnly: confirmedOnly},
		}}, nil
	}

	members, err := e.src.Projects.Members(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	units := make([]unit, 0, len(members))
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		f := examples.Filters{ConfirmedOnly: confirmedOnly}
		if confirmedOnly {
			f.ConfirmedBy = &m.UserID
		}

		name := FileName(m)
		if seen[name] {
			name = fmt.Sprintf("%s-%d", name, m.UserID)
		}
		seen[name] = true

		units = append(units, unit{
			name:    name,
			users:   []int64{m.UserID},
			filters: f,
		})
	}

	return units, nil
}

func (e *exporter) write(
	ctx context.Context,
	p *projects.Project,
	chain *formatters.Chain,
	w writers.Writer,
	version int,
	u unit,
	path string,
) error {
	exs, err := e.src.Examples.List(ctx, p.ID, u.filters)
	if err != nil {
		return fmt.Errorf("list examples: %w", err)
	}

	ids := make([]int64, len(exs))
	for i, ex := range exs {
		ids[i] = ex.ID
	}

	lbls, err := e.src.Labels.Normalize(ctx, ids, chain.Kinds, labels.Scope{Users: u.users, Version: version})
	if err != nil {
		return fmt.Errorf("normalize labels: %w", err)
	}

	cmts, err := e.src.Comments.Collect(ctx, ids, u.users)
	if err != nil {
		return fmt.Errorf("collect comments: %w", err)
	}

	ds := dataset.New(exs, lbls, cmts, p.Type.IsText())
	if err := w.Write(path, chain.Records(ds.All())); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}

	e.logger.Debug("export unit written", "project_id", p.ID, "file", filepath.Base(path), "examples", ds.Len())
	return nil
}

func (e *exporter) upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", faults.Write("open archive", err)
	}
	defer f.Close()

	key := e.opts.Key(filepath.Base(path))
	if err := e.store.Upload(ctx, key, f, "application/zip"); err != nil {
		return "", faults.Transient("upload archive", err)
	}
	return key, nil
}

func (e *exporter) project(ctx context.Context, id int64) (*projects.Project, error) {
	p, err := e.src.Projects.Find(ctx, id)
	if errors.Is(err, projects.ErrNotFound) {
		return nil, faults.NotFound("find project", fmt.Errorf("%w: %d", err, id))
	}
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}
	return p, nil
}

func validate(p *projects.Project, req Request) error {
	if !slices.Contains(formatters.Options(p.Type, p.UseRelation), req.Format) {
		return fmt.Errorf("%w: %q for %s", formatters.ErrUnsupportedFormat, req.Format, p.Type)
	}
	if v := req.Version; v != nil && (*v < 1 || *v > max(p.CurrentVersion, 1)) {
		return fmt.Errorf("%w: %d", ErrInvalidVersion, *v)
	}
	return nil
}

// FileName returns the per-member file stem: the username with path
// separators and other unsafe characters replaced by '_'.
func FileName(m projects.Member) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("-_.@+", r) {
			return r
		}
		return '_'
	}, m.Username)

	if strings.Trim(name, ".") == "" {
		return fmt.Sprintf("user-%d", m.UserID)
	}
	return name
}

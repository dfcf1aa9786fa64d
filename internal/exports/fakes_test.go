package exports_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"slices"

	"github.com/google/uuid"

	"github.com/JaimeStill/annex/internal/comments"
	"github.com/JaimeStill/annex/internal/examples"
	"github.com/JaimeStill/annex/internal/jobs"
	"github.com/JaimeStill/annex/internal/labels"
	"github.com/JaimeStill/annex/internal/projects"
	"github.com/JaimeStill/annex/pkg/lifecycle"
	"github.com/JaimeStill/annex/pkg/storage"
)

type fakeProjects struct {
	projects map[int64]*projects.Project
	members  []projects.Member
}

func (f *fakeProjects) Find(_ context.Context, id int64) (*projects.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, projects.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjects) Members(_ context.Context, _ int64) ([]projects.Member, error) {
	return f.members, nil
}

// fakeExamples applies confirmation filters using a map of example id to the
// users that confirmed it.
type fakeExamples struct {
	examples    []examples.Example
	confirmedBy map[int64][]int64
}

func (f *fakeExamples) List(_ context.Context, _ int64, filters examples.Filters) ([]examples.Example, error) {
	var out []examples.Example
	for _, ex := range f.examples {
		users := f.confirmedBy[ex.ID]
		if filters.ConfirmedOnly {
			if len(users) == 0 {
				continue
			}
			if filters.ConfirmedBy != nil && !slices.Contains(users, *filters.ConfirmedBy) {
				continue
			}
		}
		out = append(out, ex)
	}
	return out, nil
}

type fakeLabels struct {
	labels []labels.Label
	calls  int
	failOn int
	err    error
}

func (f *fakeLabels) Normalize(_ context.Context, ids []int64, kinds []labels.Kind, scope labels.Scope) (map[int64][]labels.Label, error) {
	f.calls++
	if f.failOn > 0 && f.calls == f.failOn {
		return nil, f.err
	}

	out := make(map[int64][]labels.Label)
	for _, l := range f.labels {
		if !slices.Contains(ids, l.ExampleID) || !slices.Contains(kinds, l.Kind) {
			continue
		}
		if scope.Users != nil && !slices.Contains(scope.Users, l.UserID) {
			continue
		}
		if scope.Version != 0 && l.Version != scope.Version {
			continue
		}
		out[l.ExampleID] = append(out[l.ExampleID], l)
	}
	return out, nil
}

type fakeComments struct {
	comments []comments.Comment
}

func (f *fakeComments) Collect(_ context.Context, ids []int64, users []int64) (map[int64][]comments.Comment, error) {
	out := make(map[int64][]comments.Comment)
	for _, c := range f.comments {
		if !slices.Contains(ids, c.ExampleID) {
			continue
		}
		if users != nil && !slices.Contains(users, c.UserID) {
			continue
		}
		out[c.ExampleID] = append(out[c.ExampleID], c)
	}
	return out, nil
}

type fakeStore struct {
	blobs map[string][]byte
	err   error
}

func (s *fakeStore) Start(*lifecycle.Coordinator) error { return nil }

func (s *fakeStore) Upload(_ context.Context, key string, r io.Reader, _ string) error {
	if s.err != nil {
		return s.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.blobs[key] = data
	return nil
}

func (s *fakeStore) Download(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// fakeRunner records submitted tasks instead of running them.
type fakeRunner struct {
	jobs.System
	tasks []jobs.Task
	err   error
}

func (f *fakeRunner) Submit(kind jobs.Kind, projectID int64, task jobs.Task) (jobs.Job, error) {
	if f.err != nil {
		return jobs.Job{}, f.err
	}
	f.tasks = append(f.tasks, task)
	return jobs.Job{ID: uuid.New(), Kind: kind, ProjectID: projectID, Status: jobs.StatusPending}, nil
}

var errConnReset = errors.New("connection reset by peer")

package reports_test

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/annex/internal/examples"
	"github.com/JaimeStill/annex/internal/jobs"
	"github.com/JaimeStill/annex/internal/labels"
	"github.com/JaimeStill/annex/internal/perspectives"
	"github.com/JaimeStill/annex/internal/projects"
)

type fakeProjects struct {
	projects map[int64]*projects.Project
}

func (f *fakeProjects) Find(_ context.Context, id int64) (*projects.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, projects.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjects) Members(context.Context, int64) ([]projects.Member, error) {
	return nil, nil
}

type fakeExamples struct {
	examples []examples.Example
	err      error
}

func (f *fakeExamples) List(_ context.Context, _ int64, filters examples.Filters) ([]examples.Example, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []examples.Example
	for _, ex := range f.examples {
		if filters.DatasetName != nil && !strings.Contains(ex.DatasetName(), *filters.DatasetName) {
			continue
		}
		out = append(out, ex)
	}
	return out, nil
}

// fakeLabels filters by kind and user. Labels in extra are returned for their
// example whatever the scope.
type fakeLabels struct {
	labels []labels.Label
	extra  []labels.Label
}

func (f *fakeLabels) Normalize(_ context.Context, ids []int64, kinds []labels.Kind, scope labels.Scope) (map[int64][]labels.Label, error) {
	out := make(map[int64][]labels.Label)
	for _, l := range f.labels {
		if !slices.Contains(ids, l.ExampleID) || !slices.Contains(kinds, l.Kind) {
			continue
		}
		if scope.Users != nil && !slices.Contains(scope.Users, l.UserID) {
			continue
		}
		out[l.ExampleID] = append(out[l.ExampleID], l)
	}
	for _, l := range f.extra {
		if slices.Contains(ids, l.ExampleID) {
			out[l.ExampleID] = append(out[l.ExampleID], l)
		}
	}
	return out, nil
}

// fakePerspectives resolves filters from a table of question id to answer to
// the users who gave it.
type fakePerspectives struct {
	answers map[int64][]perspectives.Answer
	users   map[int64]map[string][]int64
}

func (f *fakePerspectives) Answers(_ context.Context, _ int64, ids []int64) (map[int64][]perspectives.Answer, error) {
	out := make(map[int64][]perspectives.Answer)
	for _, id := range ids {
		if as, ok := f.answers[id]; ok {
			out[id] = as
		}
	}
	return out, nil
}

func (f *fakePerspectives) MatchingUsers(_ context.Context, _ int64, filters perspectives.Filters) ([]int64, error) {
	active := filters.Active()
	if len(active) == 0 {
		return nil, nil
	}

	var matched []int64
	for i, q := range active {
		var users []int64
		for _, accepted := range filters[q] {
			users = append(users, f.users[q][accepted]...)
		}
		if i == 0 {
			matched = users
			continue
		}
		matched = slices.DeleteFunc(matched, func(u int64) bool { return !slices.Contains(users, u) })
	}

	if matched == nil {
		matched = []int64{}
	}
	return matched, nil
}

// fakeRunner records submitted tasks and serves Poll from a fixed table.
type fakeRunner struct {
	jobs.System
	kinds []jobs.Kind
	tasks []jobs.Task
	jobs  map[uuid.UUID]jobs.Job
	err   error
}

func (f *fakeRunner) Submit(kind jobs.Kind, projectID int64, task jobs.Task) (jobs.Job, error) {
	if f.err != nil {
		return jobs.Job{}, f.err
	}
	f.kinds = append(f.kinds, kind)
	f.tasks = append(f.tasks, task)
	return jobs.Job{ID: uuid.New(), Kind: kind, ProjectID: projectID, Status: jobs.StatusPending}, nil
}

func (f *fakeRunner) Poll(id uuid.UUID) (jobs.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return jobs.Job{}, jobs.ErrNotFound
	}
	return j, nil
}

package reports_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/annex/internal/jobs"
	"github.com/JaimeStill/annex/internal/reports"
	"github.com/JaimeStill/annex/pkg/pagination"
	"github.com/JaimeStill/annex/pkg/routes"
)

var pageConfig = pagination.Config{DefaultPageSize: 5, MaxPageSize: 10}

func newMux(f *fixture, runner *fakeRunner) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, f.system().Handler(runner, pageConfig, 1<<10).Routes())
	return mux
}

func TestHandlerSubmit(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		runnerErr  error
		wantStatus int
		wantKind   jobs.Kind
	}{
		{"annotation history", "/projects/1/reports/annotation-history", `{"annotation_status":"Finished"}`, nil, http.StatusAccepted, jobs.KindAnnotationHistory},
		{"empty body", "/projects/1/reports/perspective-history", "", nil, http.StatusAccepted, jobs.KindPerspectiveHistory},
		{"perspective filters", "/projects/1/reports/discrepancy-history", `{"perspective_filters":{"1":"30"},"threshold":60}`, nil, http.StatusAccepted, jobs.KindDiscrepancyHistory},
		{"unknown report", "/projects/1/reports/summary", "", nil, http.StatusNotFound, ""},
		{"invalid project", "/projects/x/reports/annotation-history", "", nil, http.StatusBadRequest, ""},
		{"malformed body", "/projects/1/reports/annotation-history", `{"annotation_status":`, nil, http.StatusBadRequest, ""},
		{"bad filter key", "/projects/1/reports/discrepancy-history", `{"perspective_filters":{"age":"30"}}`, nil, http.StatusBadRequest, ""},
		{"invalid status", "/projects/1/reports/annotation-history", `{"annotation_status":"Done"}`, nil, http.StatusUnprocessableEntity, ""},
		{"zero threshold", "/projects/1/reports/discrepancy-history", `{"threshold":0}`, nil, http.StatusUnprocessableEntity, ""},
		{"threshold out of range", "/projects/1/reports/discrepancy-history", `{"threshold":101}`, nil, http.StatusUnprocessableEntity, ""},
		{"missing project", "/projects/99/reports/annotation-history", "", nil, http.StatusNotFound, ""},
		{"runner stopped", "/projects/1/reports/annotation-history", "", jobs.ErrStopped, http.StatusServiceUnavailable, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			runner := &fakeRunner{err: tt.runnerErr}

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			newMux(f, runner).ServeHTTP(rec, req)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus != http.StatusAccepted {
				assert.Empty(t, runner.tasks)
				return
			}

			var sub reports.Submission
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&sub))
			assert.NotEmpty(t, sub.JobID)
			assert.Equal(t, jobs.StatusPending, sub.Status)

			require.Len(t, runner.tasks, 1)
			assert.Equal(t, tt.wantKind, runner.kinds[0])

			res, err := runner.tasks[0](context.Background())
			require.NoError(t, err)
			assert.FileExists(t, res.Path)
		})
	}
}

func TestHandlerRows(t *testing.T) {
	f := newFixture(t)

	path, err := f.system().AnnotationHistory(context.Background(), reports.Request{ProjectID: project})
	require.NoError(t, err)

	var (
		done     = uuid.New()
		running  = uuid.New()
		dataset  = uuid.New()
		gone     = uuid.New()
		finished = &jobs.Result{Path: path}
	)

	runner := &fakeRunner{jobs: map[uuid.UUID]jobs.Job{
		done:    {ID: done, Kind: jobs.KindAnnotationHistory, Status: jobs.StatusSucceeded, Result: finished},
		running: {ID: running, Kind: jobs.KindAnnotationHistory, Status: jobs.StatusRunning},
		dataset: {ID: dataset, Kind: jobs.KindDataset, Status: jobs.StatusSucceeded, Result: &jobs.Result{Path: "/tmp/x.zip"}},
		gone: {
			ID:     gone,
			Kind:   jobs.KindPerspectiveHistory,
			Status: jobs.StatusSucceeded,
			Result: &jobs.Result{Path: filepath.Join(t.TempDir(), "perspective_history.csv")},
		},
	}}
	mux := newMux(f, runner)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantLen    int
		wantPage   int
	}{
		{"default page", "/jobs/" + done.String() + "/rows", http.StatusOK, 5, 1},
		{"last page", "/jobs/" + done.String() + "/rows?page=3&page_size=10", http.StatusOK, 1, 3},
		{"clamped page size", "/jobs/" + done.String() + "/rows?page_size=500", http.StatusOK, 10, 1},
		{"running", "/jobs/" + running.String() + "/rows", http.StatusConflict, 0, 0},
		{"not a report", "/jobs/" + dataset.String() + "/rows", http.StatusConflict, 0, 0},
		{"artifact gone", "/jobs/" + gone.String() + "/rows", http.StatusGone, 0, 0},
		{"unknown job", "/jobs/" + uuid.NewString() + "/rows", http.StatusNotFound, 0, 0},
		{"invalid id", "/jobs/abc/rows", http.StatusBadRequest, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus != http.StatusOK {
				return
			}

			var page pagination.PageResult[map[string]any]
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
			assert.Equal(t, 21, page.Total)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Len(t, page.Data, tt.wantLen)
		})
	}
}

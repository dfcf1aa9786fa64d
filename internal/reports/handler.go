package reports

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/annex/internal/jobs"
	"github.com/JaimeStill/annex/pkg/handlers"
	"github.com/JaimeStill/annex/pkg/pagination"
	"github.com/JaimeStill/annex/pkg/routes"
)

// Handler provides HTTP endpoints for report submission and paginated rows.
type Handler struct {
	sys            System
	runner         jobs.System
	logger         *slog.Logger
	page           pagination.Config
	maxRequestSize int64
}

// Submission is the response to an accepted report job.
type Submission struct {
	JobID  string      `json:"job_id"`
	Status jobs.Status `json:"status"`
}

// NewHandler creates a Handler that submits reports to runner.
func NewHandler(sys System, runner jobs.System, logger *slog.Logger, page pagination.Config, maxRequestSize int64) *Handler {
	return &Handler{
		sys:            sys,
		runner:         runner,
		logger:         logger.With("handler", "reports"),
		page:           page,
		maxRequestSize: maxRequestSize,
	}
}

// Routes returns the route group for report submission and report rows.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Children: []routes.Group{
			{
				Prefix: "/projects/{id}",
				Routes: []routes.Route{
					routes.Post("/reports/{report}", h.Submit),
				},
			},
			{
				Prefix: "/jobs",
				Routes: []routes.Route{
					routes.Get("/{id}/rows", h.Rows),
				},
			},
		},
	}
}

// Submit queues the report named by the {report} path parameter. The JSON
// body is optional; an empty body requests the unfiltered report.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidProject)
		return
	}

	kind, ok := Kinds[r.PathValue("report")]
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrUnknownReport)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}
	req.ProjectID = id

	if err := h.sys.Validate(r.Context(), req); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	task, err := h.sys.Task(kind, req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	job, err := h.runner.Submit(kind, id, task)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, Submission{JobID: job.ID.String(), Status: job.Status})
}

// Rows returns a page of a succeeded report job's rows.
func (h *Handler) Rows(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, jobs.ErrInvalidID)
		return
	}

	job, err := h.runner.Poll(id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if _, ok := schemas[job.Kind]; !ok {
		handlers.RespondError(w, h.logger, http.StatusConflict, ErrNotReport)
		return
	}
	if job.Status != jobs.StatusSucceeded || job.Result == nil {
		handlers.RespondError(w, h.logger, http.StatusConflict, jobs.ErrNotReady)
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.page)

	result, err := h.sys.Rows(job.Result.Path, page)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = jobs.ErrArtifactGone
		}
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

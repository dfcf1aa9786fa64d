package exports

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/annex/internal/jobs"
	"github.com/JaimeStill/annex/pkg/handlers"
	"github.com/JaimeStill/annex/pkg/routes"
)

// Handler provides HTTP endpoints for the format catalog and export submission.
type Handler struct {
	sys            System
	runner         jobs.System
	logger         *slog.Logger
	maxRequestSize int64
}

// Submission is the response to an accepted job.
type Submission struct {
	JobID  string      `json:"job_id"`
	Status jobs.Status `json:"status"`
}

// NewHandler creates a Handler that submits exports to runner.
func NewHandler(sys System, runner jobs.System, logger *slog.Logger, maxRequestSize int64) *Handler {
	return &Handler{
		sys:            sys,
		runner:         runner,
		logger:         logger.With("handler", "exports"),
		maxRequestSize: maxRequestSize,
	}
}

// Routes returns the route group definition for export endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/projects/{id}",
		Routes: []routes.Route{
			routes.Get("/formats", h.Formats),
			routes.Post("/exports", h.Submit),
		},
	}
}

// Formats returns the formats the project can be exported in.
func (h *Handler) Formats(w http.ResponseWriter, r *http.Request) {
	id, err := ProjectID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	formats, err := h.sys.Formats(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, formats)
}

// Submit validates a JSON export request and queues it as a dataset job.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := ProjectID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}
	req.ProjectID = id

	if err := h.sys.Validate(r.Context(), req); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	job, err := h.runner.Submit(jobs.KindDataset, id, h.sys.Task(req))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, Submission{JobID: job.ID.String(), Status: job.Status})
}

// ProjectID parses the {id} path parameter.
func ProjectID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, ErrInvalidProject
	}
	return id, nil
}

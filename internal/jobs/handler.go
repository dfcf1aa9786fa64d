package jobs

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/JaimeStill/annex/pkg/handlers"
	"github.com/JaimeStill/annex/pkg/routes"
	"github.com/JaimeStill/annex/pkg/storage"
)

// Handler provides HTTP endpoints for polling jobs and downloading artifacts.
type Handler struct {
	sys    System
	store  storage.System
	logger *slog.Logger
}

// NewHandler creates a Handler. store may be nil when no blob storage is configured.
func NewHandler(sys System, store storage.System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		store:  store,
		logger: logger.With("handler", "jobs"),
	}
}

// Routes returns the route group definition for job endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/jobs",
		Routes: []routes.Route{
			routes.Get("/{id}", h.Poll),
			routes.Get("/{id}/download", h.Download),
		},
	}
}

// Poll returns the job snapshot for the UUID path parameter.
func (h *Handler) Poll(w http.ResponseWriter, r *http.Request) {
	job, err := h.find(r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, job)
}

// Download streams a succeeded job's artifact from local disk, falling back
// to blob storage when the local copy is gone.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	job, err := h.find(r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if job.Status != StatusSucceeded || job.Result == nil {
		handlers.RespondError(w, h.logger, http.StatusConflict, ErrNotReady)
		return
	}

	path := job.Result.Path
	contentType := ContentType(path)

	if _, err := os.Stat(path); err == nil {
		if err := handlers.RespondFile(w, path, contentType); err != nil {
			h.logger.Error("stream artifact", "job_id", job.ID, "error", err)
		}
		return
	} else if !errors.Is(err, fs.ErrNotExist) {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	if h.store == nil || job.Result.StorageKey == "" {
		handlers.RespondError(w, h.logger, http.StatusGone, ErrArtifactGone)
		return
	}

	body, err := h.store.Download(r.Context(), job.Result.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			err = ErrArtifactGone
		}
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	if err := handlers.RespondStream(w, body, filepath.Base(path), contentType, 0); err != nil {
		h.logger.Error("stream artifact", "job_id", job.ID, "key", job.Result.StorageKey, "error", err)
	}
}

func (h *Handler) find(r *http.Request) (Job, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return Job{}, ErrInvalidID
	}
	return h.sys.Poll(id)
}

// ContentType returns the media type served for an artifact path.
func ContentType(path string) string {
	switch filepath.Ext(path) {
	case ".zip":
		return "application/zip"
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	case ".jsonl":
		return "application/x-ndjson"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".txt", ".conll":
		return "text/plain"
	}
	return "application/octet-stream"
}

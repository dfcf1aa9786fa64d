package reports

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/annex/internal/jobs"
	"github.com/JaimeStill/annex/internal/projects"
)

// Domain errors for report operations.
var (
	ErrInvalidRequest   = errors.New("invalid report request")
	ErrInvalidProject   = errors.New("invalid project id")
	ErrInvalidThreshold = errors.New("threshold must be in (0, 100]")
	ErrUnknownReport    = errors.New("unknown report")
	ErrNotReport        = errors.New("job did not produce a report")
)

// MapHTTPStatus maps report domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInvalidProject):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnknownReport), errors.Is(err, projects.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidThreshold):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotReport):
		return http.StatusConflict
	}
	return jobs.MapHTTPStatus(err)
}

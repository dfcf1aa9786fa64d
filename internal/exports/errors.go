package exports

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/annex/internal/formatters"
	"github.com/JaimeStill/annex/internal/jobs"
	"github.com/JaimeStill/annex/internal/projects"
)

// Domain errors for export operations.
var (
	ErrInvalidRequest = errors.New("invalid export request")
	ErrInvalidProject = errors.New("invalid project id")
	ErrInvalidVersion = errors.New("version outside the project's history")
)

// MapHTTPStatus maps export domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInvalidProject):
		return http.StatusBadRequest
	case errors.Is(err, projects.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidVersion),
		errors.Is(err, formatters.ErrUnsupportedFormat),
		errors.Is(err, projects.ErrInvalidType):
		return http.StatusUnprocessableEntity
	}
	return jobs.MapHTTPStatus(err)
}

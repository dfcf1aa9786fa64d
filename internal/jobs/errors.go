package jobs

import (
	"errors"
	"net/http"
)

// Domain errors for job operations.
var (
	ErrNotFound     = errors.New("job not found")
	ErrInvalidID    = errors.New("invalid job id")
	ErrNotReady     = errors.New("job has not succeeded")
	ErrArtifactGone = errors.New("job artifact no longer available")
	ErrQueueFull    = errors.New("job queue is full")
	ErrStopped      = errors.New("job runner stopped")
)

// MapHTTPStatus maps job domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotReady):
		return http.StatusConflict
	case errors.Is(err, ErrArtifactGone):
		return http.StatusGone
	case errors.Is(err, ErrQueueFull), errors.Is(err, ErrStopped):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

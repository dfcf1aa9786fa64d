package projects

import (
	"errors"
	"net/http"
)

// Domain errors for project operations.
var (
	ErrNotFound    = errors.New("project not found")
	ErrInvalidType = errors.New("invalid project type")
)

// MapHTTPStatus maps project domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidType) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

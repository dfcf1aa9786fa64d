package reports

import (
	"errors"
	"fmt"

	"github.com/JaimeStill/annex/internal/perspectives"
)

// Status selects examples by annotation progress in the annotation history.
type Status string

const (
	StatusAll        Status = "All"
	StatusFinished   Status = "Finished"
	StatusNotStarted Status = "Not started"
	StatusInProgress Status = "In progress"
)

// ErrInvalidStatus indicates an unknown annotation status filter.
var ErrInvalidStatus = errors.New("invalid annotation status")

// Valid reports whether s is a known status. The empty status means All.
func (s Status) Valid() bool {
	switch s {
	case "", StatusAll, StatusFinished, StatusNotStarted, StatusInProgress:
		return true
	}
	return false
}

// Matches reports whether an example with the given confirmation and
// annotation state passes s. Finished means confirmed, Not started means no
// annotations, In progress means annotated but not yet confirmed.
func (s Status) Matches(confirmed, annotated bool) bool {
	switch s {
	case StatusFinished:
		return confirmed
	case StatusNotStarted:
		return !annotated
	case StatusInProgress:
		return annotated && !confirmed
	}
	return true
}

// Request carries the filters of a history report. Status applies to the
// annotation history; Threshold and PerspectiveFilters to the discrepancy
// history. A nil Threshold uses the configured default.
type Request struct {
	ProjectID          int64                `json:"-"`
	DatasetName        *string              `json:"dataset_name,omitempty"`
	Status             Status               `json:"annotation_status,omitempty"`
	Threshold          *float64             `json:"threshold,omitempty"`
	PerspectiveFilters perspectives.Filters `json:"perspective_filters,omitempty"`
}

func (r Request) validate() error {
	if !r.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, r.Status)
	}
	if t := r.Threshold; t != nil && (*t <= 0 || *t > 100) {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, *t)
	}
	return nil
}

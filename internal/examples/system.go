// Package examples queries the examples of a project with export filters applied.
package examples

import "context"

// System lists examples for export and reporting.
type System interface {
	List(ctx context.Context, projectID int64, filters Filters) ([]Example, error)
}

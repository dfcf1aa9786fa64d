// Package perspectives reads perspective answers and resolves perspective filters
// into the set of users whose answers satisfy them.
package perspectives

import "context"

// System reads perspective answers for reporting.
type System interface {
	// Answers returns the project's answers for exampleIDs grouped by example id.
	Answers(ctx context.Context, projectID int64, exampleIDs []int64) (map[int64][]Answer, error)

	// MatchingUsers returns the project members who answered every active
	// question in filters with one of its accepted values. The result is nil
	// when filters has no active question and empty when nobody matches.
	MatchingUsers(ctx context.Context, projectID int64, filters Filters) ([]int64, error)
}

// Package comments collects the comments attached to a set of examples.
package comments

import "context"

// System collects comments grouped by example id.
type System interface {
	// Collect returns comments for exampleIDs in creation order. users narrows
	// the authors: nil means everyone and an empty slice means nobody.
	Collect(ctx context.Context, exampleIDs []int64, users []int64) (map[int64][]Comment, error)
}

// Package labels reads the six annotation tables of a project and normalizes
// their rows into a single Label variant grouped by example.
package labels

import "context"

// Scope restricts which labels Normalize returns.
// Users nil means every user; an empty non-nil slice matches nobody.
// Version zero means every project version.
type Scope struct {
	Users   []int64
	Version int
}

// System normalizes stored annotations into labels grouped by example id.
type System interface {
	// Normalize returns labels of the given kinds for exampleIDs, grouped by
	// example id in storage order. Examples without labels are absent.
	Normalize(ctx context.Context, exampleIDs []int64, kinds []Kind, scope Scope) (map[int64][]Label, error)
}

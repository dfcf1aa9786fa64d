// Package projects reads project settings and membership.
package projects

import "context"

// System defines the read operations the export pipeline needs from projects.
type System interface {
	Find(ctx context.Context, id int64) (*Project, error)
	Members(ctx context.Context, projectID int64) ([]Member, error)
}

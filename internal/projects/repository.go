package projects

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/annex/pkg/query"
	"github.com/JaimeStill/annex/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a project repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "projects"),
	}
}

func (r *repo) Find(ctx context.Context, id int64) (*Project, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProject)
	if err != nil {
		return nil, repository.MapNotFound(err, ErrNotFound)
	}

	if !p.Type.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidType, p.Type)
	}

	return &p, nil
}

// Members returns the project's members ordered by username.
func (r *repo) Members(ctx context.Context, projectID int64) ([]Member, error) {
	q, args := query.
		NewBuilder(memberProjection, memberSort).
		WhereEquals("ProjectID", projectID).
		Build()

	members, err := repository.QueryMany(ctx, r.db, q, args, scanMember)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}

	r.logger.Debug("members loaded", "project_id", projectID, "count", len(members))
	return members, nil
}

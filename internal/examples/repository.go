package examples

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

// New creates an example repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "examples"),
	}
}

// List returns the project's examples in id order.
func (r *repo) List(ctx context.Context, projectID int64, filters Filters) ([]Example, error) {
	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("ProjectID", projectID)

	filters.Apply(qb)

	q, args := qb.Build()
	items, err := repository.QueryMany(ctx, r.db, q, args, scanExample)
	if err != nil {
		return nil, fmt.Errorf("query examples: %w", err)
	}

	r.logger.Debug("examples loaded", "project_id", projectID, "count", len(items))
	return items, nil
}

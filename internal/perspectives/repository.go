package perspectives

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"

	"github.com/JaimeStill/annex/pkg/query"
	"github.com/JaimeStill/annex/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a perspective repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "perspectives"),
	}
}

func (r *repo) Answers(ctx context.Context, projectID int64, exampleIDs []int64) (map[int64][]Answer, error) {
	result := make(map[int64][]Answer)
	if len(exampleIDs) == 0 {
		return result, nil
	}

	q, args := query.
		NewBuilder(answerProjection, answerSort).
		WhereEquals("ProjectID", projectID).
		WhereAny("ExampleID", exampleIDs).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanAnswer)
	if err != nil {
		return nil, fmt.Errorf("query perspective answers: %w", err)
	}

	for _, a := range items {
		result[a.ExampleID] = append(result[a.ExampleID], a)
	}

	return result, nil
}

func (r *repo) MatchingUsers(ctx context.Context, projectID int64, filters Filters) ([]int64, error) {
	active := filters.Active()
	if len(active) == 0 {
		return nil, nil
	}

	qb := query.
		NewBuilder(memberProjection, memberSort).
		WhereEquals("ProjectID", projectID)

	for _, id := range active {
		qb.WhereExists(answeredWith, id, filters[id])
	}

	q, args := qb.Build()
	ids, err := repository.QueryMany(ctx, r.db, q, args, scanUserID)
	if err != nil {
		return nil, fmt.Errorf("query matching users: %w", err)
	}

	ids = slices.Compact(ids)

	r.logger.Debug("perspective filters resolved", "project_id", projectID, "questions", len(active), "users", len(ids))
	return ids, nil
}

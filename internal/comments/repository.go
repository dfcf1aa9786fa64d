package comments

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

// New creates a comment repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "comments"),
	}
}

func (r *repo) Collect(ctx context.Context, exampleIDs []int64, users []int64) (map[int64][]Comment, error) {
	result := make(map[int64][]Comment)

	if len(exampleIDs) == 0 || (users != nil && len(users) == 0) {
		return result, nil
	}

	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereAny("ExampleID", exampleIDs).
		WhereAny("UserID", users).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanComment)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}

	for _, c := range items {
		result[c.ExampleID] = append(result[c.ExampleID], c)
	}

	r.logger.Debug("comments collected", "examples", len(exampleIDs), "count", len(items))
	return result, nil
}

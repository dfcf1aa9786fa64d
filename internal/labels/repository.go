package labels

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/annex/internal/faults"
	"github.com/JaimeStill/annex/pkg/query"
	"github.com/JaimeStill/annex/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a label repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "labels"),
	}
}

func (r *repo) Normalize(ctx context.Context, exampleIDs []int64, kinds []Kind, scope Scope) (map[int64][]Label, error) {
	result := make(map[int64][]Label)

	if len(exampleIDs) == 0 || (scope.Users != nil && len(scope.Users) == 0) {
		return result, nil
	}

	for _, kind := range kinds {
		t, ok := tables[kind]
		if !ok {
			return nil, faults.Malformedf("labels", "unknown label kind %q", kind)
		}

		items, err := r.query(ctx, t, exampleIDs, scope)
		if err != nil {
			return nil, err
		}

		for _, l := range items {
			result[l.ExampleID] = append(result[l.ExampleID], l)
		}

		r.logger.Debug("labels loaded", "kind", kind, "count", len(items), "version", scope.Version)
	}

	return result, nil
}

func (r *repo) query(ctx context.Context, t table, exampleIDs []int64, scope Scope) ([]Label, error) {
	qb := query.
		NewBuilder(t.projection, idSort).
		WhereAny("ExampleID", exampleIDs).
		WhereAny("UserID", scope.Users)

	if scope.Version > 0 {
		qb.WhereEquals("Version", scope.Version)
	}

	q, args := qb.Build()
	items, err := repository.QueryMany(ctx, r.db, q, args, t.scan)
	if err != nil {
		return nil, fmt.Errorf("query %s labels: %w", t.kind, err)
	}

	return items, nil
}

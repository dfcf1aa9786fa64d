package examples

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/JaimeStill/annex/pkg/query"
	"github.com/JaimeStill/annex/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "examples", "e").
	Project("id", "ID").
	Project("project_id", "ProjectID").
	ProjectExpr("COALESCE(e.text, '')", "Text").
	ProjectExpr("COALESCE(e.filename, '')", "Filename").
	ProjectExpr("COALESCE(e.upload_name, '')", "UploadName").
	ProjectExpr("COALESCE(e.meta, '{}'::jsonb)", "Meta").
	ProjectExpr("EXISTS (SELECT 1 FROM public.example_states s WHERE s.example_id = e.id)", "Confirmed").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "ID"}

const (
	confirmedAny = "SELECT 1 FROM public.example_states s WHERE s.example_id = e.id"
	confirmedBy  = "SELECT 1 FROM public.example_states s WHERE s.example_id = e.id AND s.confirmed_by = $%d"
)

// Filters narrows the examples returned by List.
// ConfirmedOnly keeps examples with a confirmation state; when ConfirmedBy is set
// the state must belong to that user. DatasetName matches the file or upload name.
type Filters struct {
	ConfirmedOnly bool    `json:"confirmed_only"`
	ConfirmedBy   *int64  `json:"confirmed_by,omitempty"`
	DatasetName   *string `json:"dataset_name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereSearch(f.DatasetName, "Filename", "UploadName")

	if f.ConfirmedOnly {
		if f.ConfirmedBy != nil {
			b.WhereExists(confirmedBy, *f.ConfirmedBy)
		} else {
			b.WhereExists(confirmedAny)
		}
	}

	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("confirmed_only"); v == "true" || v == "1" {
		f.ConfirmedOnly = true
	}

	if name := values.Get("dataset_name"); name != "" {
		f.DatasetName = &name
	}

	return f
}

func scanExample(s repository.Scanner) (Example, error) {
	var (
		e    Example
		meta []byte
	)

	err := s.Scan(
		&e.ID,
		&e.ProjectID,
		&e.Text,
		&e.Filename,
		&e.UploadName,
		&meta,
		&e.Confirmed,
		&e.CreatedAt,
	)
	if err != nil {
		return e, err
	}

	if err := json.Unmarshal(meta, &e.Meta); err != nil {
		return e, fmt.Errorf("example %d meta: %w", e.ID, err)
	}

	return e, nil
}

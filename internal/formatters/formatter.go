// Package formatters shapes dataset records into the output schema of each
// export format. A Chain flattens a dataset record and runs an ordered list of
// Formatter stages over it.
package formatters

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/JaimeStill/annex/internal/dataset"
	"github.com/JaimeStill/annex/internal/faults"
	"github.com/JaimeStill/annex/internal/labels"
	"github.com/JaimeStill/annex/pkg/record"
)

// Formatter reshapes one output record.
type Formatter interface {
	Format(r *record.Record) (*record.Record, error)
}

// Func adapts a plain function to the Formatter interface.
type Func func(r *record.Record) (*record.Record, error)

func (f Func) Format(r *record.Record) (*record.Record, error) {
	return f(r)
}

// Chain is the label kinds flattened into a record plus the stages run on it.
type Chain struct {
	Kinds  []labels.Kind
	Stages []Formatter
}

// Apply flattens rec, runs every stage in order, then appends the metadata
// keys that do not collide with the shaped columns, in sorted order.
func (c *Chain) Apply(rec dataset.Record) (*record.Record, error) {
	out := Flatten(rec, c.Kinds)

	for _, stage := range c.Stages {
		next, err := stage.Format(out)
		if err != nil {
			return nil, fmt.Errorf("format example %d: %w", rec.ExampleID, err)
		}
		out = next
	}

	for _, key := range sortedKeys(rec.Meta) {
		if !out.Has(key) {
			out.Set(key, rec.Meta[key])
		}
	}

	return out, nil
}

// Records applies the chain lazily to every record in seq. The sequence stops
// after the first error.
func (c *Chain) Records(seq iter.Seq[dataset.Record]) iter.Seq2[*record.Record, error] {
	return func(yield func(*record.Record, error) bool) {
		for rec := range seq {
			out, err := c.Apply(rec)
			if !yield(out, err) || err != nil {
				return
			}
		}
	}
}

// Column returns the flattened column that holds labels of kind k.
func Column(k labels.Kind) string {
	switch k {
	case labels.KindCategory:
		return ColumnCategories
	case labels.KindSpan:
		return ColumnSpans
	case labels.KindRelation:
		return ColumnRelations
	case labels.KindText:
		return ColumnTextLabels
	case labels.KindBoundingBox:
		return ColumnBoundingBoxes
	case labels.KindSegmentation:
		return ColumnSegments
	}
	return string(k)
}

const (
	ColumnID            = "id"
	ColumnCategories    = "categories"
	ColumnSpans         = "spans"
	ColumnRelations     = "relations"
	ColumnTextLabels    = "text_labels"
	ColumnBoundingBoxes = "bboxes"
	ColumnSegments      = "segments"
	ColumnComments      = "Comments"
	ColumnTokens        = "tokens"
	ColumnTags          = "tags"
)

type comment struct {
	Username string `json:"username"`
	Text     string `json:"text"`
}

// Flatten builds the base output record: id, the data field, one column per
// kind holding its labels (empty when there are none), then Comments.
// Metadata is left to Apply.
func Flatten(rec dataset.Record, kinds []labels.Kind) *record.Record {
	out := record.New().
		Set(ColumnID, rec.ExampleID).
		Set(rec.DataField, rec.Data)

	for _, k := range kinds {
		out.Set(Column(k), ofKind(rec.Labels, k))
	}

	cs := make([]comment, len(rec.Comments))
	for i, c := range rec.Comments {
		cs[i] = comment{Username: c.Username, Text: c.Text}
	}
	out.Set(ColumnComments, cs)

	return out
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}

func ofKind(ls []labels.Label, k labels.Kind) []labels.Label {
	out := make([]labels.Label, 0, len(ls))
	for _, l := range ls {
		if l.Kind == k {
			out = append(out, l)
		}
	}
	return out
}

// labelsAt returns the labels stored in column. A missing column is empty.
func labelsAt(r *record.Record, column string) ([]labels.Label, error) {
	v, ok := r.Get(column)
	if !ok {
		return nil, nil
	}
	ls, ok := v.([]labels.Label)
	if !ok {
		return nil, faults.Malformedf("format", "column %q holds %T, not labels", column, v)
	}
	return ls, nil
}

// mapLabels replaces the labels in column with fn's result. Missing columns
// are left absent.
func mapLabels[T any](r *record.Record, column string, fn func([]labels.Label) (T, error)) (*record.Record, error) {
	if !r.Has(column) {
		return r, nil
	}

	ls, err := labelsAt(r, column)
	if err != nil {
		return nil, err
	}

	v, err := fn(ls)
	if err != nil {
		return nil, err
	}

	return r.Set(column, v), nil
}

package formatters

import (
	"unicode/utf8"

	"github.com/JaimeStill/annex/internal/faults"
	"github.com/JaimeStill/annex/internal/labels"
	"github.com/JaimeStill/annex/pkg/record"
)

type entity struct {
	ID          int64  `json:"id"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
	Label       string `json:"label"`
}

type relation struct {
	ID     int64  `json:"id"`
	FromID int64  `json:"from_id"`
	ToID   int64  `json:"to_id"`
	Type   string `json:"type"`
}

// textLen returns the length in characters of the record's text field.
func textLen(r *record.Record) int {
	v, _ := r.Get("text")
	s, _ := v.(string)
	return utf8.RuneCountInString(s)
}

// checkSpan rejects offsets outside [0, n] and empty or inverted ranges.
func checkSpan(l labels.Label, n int) error {
	if l.Span == nil {
		return faults.Malformedf("format", "span %d has no offsets", l.ID)
	}
	s := l.Span
	if s.Start < 0 || s.End <= s.Start || s.End > n {
		return faults.Malformedf("format", "span %d has invalid offsets [%d, %d) for text of length %d", l.ID, s.Start, s.End, n)
	}
	return nil
}

// TupledSpan replaces the spans column with [start, end, class] triples.
type TupledSpan struct{}

func (TupledSpan) Format(r *record.Record) (*record.Record, error) {
	n := textLen(r)
	return mapLabels(r, ColumnSpans, func(ls []labels.Label) ([][]any, error) {
		out := make([][]any, len(ls))
		for i, l := range ls {
			if err := checkSpan(l, n); err != nil {
				return nil, err
			}
			out[i] = []any{l.Span.Start, l.Span.End, l.Class}
		}
		return out, nil
	})
}

// DictSpan replaces the spans column with entity objects that relations can
// reference by id.
type DictSpan struct{}

func (DictSpan) Format(r *record.Record) (*record.Record, error) {
	n := textLen(r)
	return mapLabels(r, ColumnSpans, func(ls []labels.Label) ([]entity, error) {
		out := make([]entity, len(ls))
		for i, l := range ls {
			if err := checkSpan(l, n); err != nil {
				return nil, err
			}
			out[i] = entity{ID: l.ID, StartOffset: l.Span.Start, EndOffset: l.Span.End, Label: l.Class}
		}
		return out, nil
	})
}

// DictRelation replaces the relations column with relation objects.
type DictRelation struct{}

func (DictRelation) Format(r *record.Record) (*record.Record, error) {
	return mapLabels(r, ColumnRelations, func(ls []labels.Label) ([]relation, error) {
		out := make([]relation, len(ls))
		for i, l := range ls {
			if l.Relation == nil {
				return nil, faults.Malformedf("format", "relation %d has no endpoints", l.ID)
			}
			out[i] = relation{ID: l.ID, FromID: l.Relation.FromID, ToID: l.Relation.ToID, Type: l.Class}
		}
		return out, nil
	})
}

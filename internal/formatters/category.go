package formatters

import (
	"strings"

	"github.com/JaimeStill/annex/internal/labels"
	"github.com/JaimeStill/annex/pkg/record"
)

// CategorySeparator joins class names in single-cell formats.
const CategorySeparator = "#"

func classes(ls []labels.Label) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.Class
	}
	return out
}

// ListedCategory replaces the categories column with a list of class names.
type ListedCategory struct{}

func (ListedCategory) Format(r *record.Record) (*record.Record, error) {
	return mapLabels(r, ColumnCategories, func(ls []labels.Label) ([]string, error) {
		return classes(ls), nil
	})
}

// JoinedCategory replaces the categories column with class names joined by
// CategorySeparator.
type JoinedCategory struct{}

func (JoinedCategory) Format(r *record.Record) (*record.Record, error) {
	return mapLabels(r, ColumnCategories, func(ls []labels.Label) (string, error) {
		return strings.Join(classes(ls), CategorySeparator), nil
	})
}

// FastTextCategory replaces the categories column with space separated
// __label__ tokens. Whitespace inside a class name becomes an underscore.
type FastTextCategory struct{}

func (FastTextCategory) Format(r *record.Record) (*record.Record, error) {
	return mapLabels(r, ColumnCategories, func(ls []labels.Label) (string, error) {
		tokens := make([]string, len(ls))
		for i, l := range ls {
			tokens[i] = "__label__" + strings.Join(strings.Fields(l.Class), "_")
		}
		return strings.Join(tokens, " "), nil
	})
}

package formatters

import (
	"strings"

	"github.com/JaimeStill/annex/internal/labels"
	"github.com/JaimeStill/annex/pkg/record"
)

func texts(ls []labels.Label) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.Text
	}
	return out
}

// TextLabels replaces the text_labels column with the label texts.
type TextLabels struct{}

func (TextLabels) Format(r *record.Record) (*record.Record, error) {
	return mapLabels(r, ColumnTextLabels, func(ls []labels.Label) ([]string, error) {
		return texts(ls), nil
	})
}

// JoinedText replaces the text_labels column with the texts joined by
// CategorySeparator.
type JoinedText struct{}

func (JoinedText) Format(r *record.Record) (*record.Record, error) {
	return mapLabels(r, ColumnTextLabels, func(ls []labels.Label) (string, error) {
		return strings.Join(texts(ls), CategorySeparator), nil
	})
}

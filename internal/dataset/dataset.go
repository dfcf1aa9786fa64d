// Package dataset joins examples with their labels and comments into the
// records a single export unit traverses.
package dataset

import (
	"iter"

	"github.com/JaimeStill/annex/internal/comments"
	"github.com/JaimeStill/annex/internal/examples"
	"github.com/JaimeStill/annex/internal/labels"
)

// Record is one example with the labels and comments of a single scope.
// DataField is "text" for text projects and "filename" otherwise.
type Record struct {
	ExampleID int64
	DataField string
	Data      string
	Meta      map[string]any
	Labels    []labels.Label
	Comments  []comments.Comment
}

// Dataset is the aggregate for one scope: the whole project for a
// collaborative export or a single member otherwise.
type Dataset struct {
	examples []examples.Example
	labels   map[int64][]labels.Label
	comments map[int64][]comments.Comment
	isText   bool
}

// New builds a Dataset. Examples absent from labelMap or commentMap yield
// records with empty lists.
func New(exs []examples.Example, labelMap map[int64][]labels.Label, commentMap map[int64][]comments.Comment, isText bool) *Dataset {
	return &Dataset{
		examples: exs,
		labels:   labelMap,
		comments: commentMap,
		isText:   isText,
	}
}

// Len returns the number of records All yields.
func (d *Dataset) Len() int {
	return len(d.examples)
}

// All yields one record per example in example order. Each call starts a new
// traversal.
func (d *Dataset) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, ex := range d.examples {
			if !yield(d.record(ex)) {
				return
			}
		}
	}
}

func (d *Dataset) record(ex examples.Example) Record {
	field := "filename"
	if d.isText {
		field = "text"
	}

	meta := ex.Meta
	if meta == nil {
		meta = map[string]any{}
	}

	ls := d.labels[ex.ID]
	if ls == nil {
		ls = []labels.Label{}
	}

	cs := d.comments[ex.ID]
	if cs == nil {
		cs = []comments.Comment{}
	}

	return Record{
		ExampleID: ex.ID,
		DataField: field,
		Data:      ex.Content(d.isText),
		Meta:      meta,
		Labels:    ls,
		Comments:  cs,
	}
}

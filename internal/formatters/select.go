package formatters

import (
	"errors"
	"fmt"
	"slices"

	"github.com/JaimeStill/annex/internal/labels"
	"github.com/JaimeStill/annex/internal/projects"
)

// Format names an export file format.
type Format string

const (
	CSV      Format = "csv"
	FastText Format = "fasttext"
	JSON     Format = "json"
	JSONL    Format = "jsonl"
	XLSX     Format = "xlsx"
	CoNLL    Format = "conll"
)

var ErrUnsupportedFormat = errors.New("format not supported for project type")

var catalog = map[projects.Type][]Format{
	projects.DocumentClassification:        {CSV, FastText, JSON, JSONL, XLSX},
	projects.SequenceLabeling:              {JSONL, JSON, CoNLL},
	projects.Seq2seq:                       {CSV, JSON, JSONL, XLSX},
	projects.IntentDetectionAndSlotFilling: {JSONL},
	projects.ImageClassification:           {JSONL},
	projects.Speech2text:                   {JSONL},
	projects.ImageCaptioning:               {JSONL},
	projects.BoundingBox:                   {JSONL},
	projects.Segmentation:                  {JSONL},
}

// Options lists the formats a project of type t can export.
func Options(t projects.Type, useRelation bool) []Format {
	formats := slices.Clone(catalog[t])
	if t == projects.SequenceLabeling && useRelation {
		formats = slices.DeleteFunc(formats, func(f Format) bool { return f == CoNLL })
	}
	return formats
}

// Select returns the chain that shapes records of a t project for format f.
func Select(t projects.Type, f Format, useRelation bool) (*Chain, error) {
	if !slices.Contains(Options(t, useRelation), f) {
		return nil, fmt.Errorf("%w: %s for %s", ErrUnsupportedFormat, f, t)
	}

	kinds := labels.KindsFor(t, useRelation)
	chain := func(stages ...Formatter) *Chain {
		return &Chain{Kinds: kinds, Stages: stages}
	}

	switch t {
	case projects.DocumentClassification:
		switch f {
		case CSV, XLSX:
			return chain(JoinedCategory{}, Rename{{ColumnCategories, "label"}}), nil
		case FastText:
			return chain(FastTextCategory{}, Rename{{ColumnCategories, "label"}}), nil
		default:
			return chain(ListedCategory{}, Rename{{ColumnCategories, "label"}}), nil
		}

	case projects.SequenceLabeling:
		switch {
		case f == CoNLL:
			return chain(TokenTagger{}, Drop{ColumnSpans, ColumnComments}), nil
		case useRelation:
			return chain(DictSpan{}, DictRelation{}, Rename{{ColumnSpans, "entities"}}), nil
		default:
			return chain(TupledSpan{}, Rename{{ColumnSpans, "label"}}), nil
		}

	case projects.Seq2seq:
		if f == CSV || f == XLSX {
			return chain(JoinedText{}, Rename{{ColumnTextLabels, "label"}}), nil
		}
		return chain(TextLabels{}, Rename{{ColumnTextLabels, "label"}}), nil

	case projects.IntentDetectionAndSlotFilling:
		return chain(ListedCategory{}, TupledSpan{}, Rename{{ColumnCategories, "cats"}, {ColumnSpans, "entities"}}), nil

	case projects.ImageClassification:
		return chain(ListedCategory{}, Rename{{ColumnCategories, "label"}}), nil

	case projects.Speech2text, projects.ImageCaptioning:
		return chain(TextLabels{}, Rename{{ColumnTextLabels, "label"}}), nil

	case projects.BoundingBox:
		return chain(BoundingBoxes{}, Rename{{ColumnBoundingBoxes, "bbox"}}), nil

	case projects.Segmentation:
		return chain(Segments{}, Rename{{ColumnSegments, "segmentation"}}), nil
	}

	return nil, fmt.Errorf("%w: %s for %s", ErrUnsupportedFormat, f, t)
}

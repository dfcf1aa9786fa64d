package labels

import (
	"fmt"
	"time"

	"github.com/JaimeStill/annex/internal/faults"
	"github.com/JaimeStill/annex/internal/projects"
)

// Kind tags the variant of a Label.
type Kind string

const (
	KindCategory     Kind = "category"
	KindSpan         Kind = "span"
	KindText         Kind = "text"
	KindBoundingBox  Kind = "bbox"
	KindSegmentation Kind = "segmentation"
	KindRelation     Kind = "relation"
)

// Span is a character range [Start, End) over the example text.
type Span struct {
	Start int `json:"start_offset"`
	End   int `json:"end_offset"`
}

// Box is an axis-aligned rectangle in image coordinates.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a polygon vertex.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Relation links two spans by id.
type Relation struct {
	FromID int64 `json:"from_id"`
	ToID   int64 `json:"to_id"`
}

// Label is one annotation in normalized form. The envelope fields are set for
// every kind; exactly one payload is set according to Kind:
// Span for KindSpan, Text for KindText, Box for KindBoundingBox,
// Polygon for KindSegmentation and Relation for KindRelation.
// Class holds the label class name and is empty for KindText.
type Label struct {
	ID        int64     `json:"id"`
	Kind      Kind      `json:"kind"`
	ExampleID int64     `json:"example_id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Version   int       `json:"project_version"`
	CreatedAt time.Time `json:"created_at"`
	Class     string    `json:"class,omitempty"`

	Span     *Span     `json:"span,omitempty"`
	Text     string    `json:"text,omitempty"`
	Box      *Box      `json:"box,omitempty"`
	Polygon  []Point   `json:"polygon,omitempty"`
	Relation *Relation `json:"relation,omitempty"`
}

// KindsFor returns the label kinds a project of type t produces.
func KindsFor(t projects.Type, useRelation bool) []Kind {
	switch t {
	case projects.DocumentClassification, projects.ImageClassification:
		return []Kind{KindCategory}
	case projects.SequenceLabeling:
		if useRelation {
			return []Kind{KindSpan, KindRelation}
		}
		return []Kind{KindSpan}
	case projects.Seq2seq, projects.Speech2text, projects.ImageCaptioning:
		return []Kind{KindText}
	case projects.IntentDetectionAndSlotFilling:
		return []Kind{KindCategory, KindSpan}
	case projects.BoundingBox:
		return []Kind{KindBoundingBox}
	case projects.Segmentation:
		return []Kind{KindSegmentation}
	}
	return nil
}

// PrimaryKind returns the kind whose annotations represent the project's
// work in history reports.
func PrimaryKind(t projects.Type) Kind {
	kinds := KindsFor(t, false)
	if len(kinds) == 0 {
		return ""
	}
	return kinds[0]
}

// Display renders a label as the single text value used in tabular reports.
func Display(l Label) (string, error) {
	switch l.Kind {
	case KindCategory, KindSpan, KindBoundingBox, KindSegmentation:
		return l.Class, nil
	case KindText:
		return l.Text, nil
	case KindRelation:
		if l.Relation == nil {
			return "", faults.Malformedf("display", "relation %d has no endpoints", l.ID)
		}
		return fmt.Sprintf("From:%d To:%d Type:%s", l.Relation.FromID, l.Relation.ToID, l.Class), nil
	}
	return "", faults.Malformedf("display", "label %d has unknown kind %q", l.ID, l.Kind)
}

package formatters

import (
	"github.com/JaimeStill/annex/internal/faults"
	"github.com/JaimeStill/annex/internal/labels"
	"github.com/JaimeStill/annex/pkg/record"
)

type box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Label  string  `json:"label"`
}

type segment struct {
	Points [][2]float64 `json:"points"`
	Label  string       `json:"label"`
}

// BoundingBoxes replaces the bboxes column with box objects.
type BoundingBoxes struct{}

func (BoundingBoxes) Format(r *record.Record) (*record.Record, error) {
	return mapLabels(r, ColumnBoundingBoxes, func(ls []labels.Label) ([]box, error) {
		out := make([]box, len(ls))
		for i, l := range ls {
			if l.Box == nil {
				return nil, faults.Malformedf("format", "bounding box %d has no geometry", l.ID)
			}
			out[i] = box{X: l.Box.X, Y: l.Box.Y, Width: l.Box.Width, Height: l.Box.Height, Label: l.Class}
		}
		return out, nil
	})
}

// Segments replaces the segments column with polygon objects.
type Segments struct{}

func (Segments) Format(r *record.Record) (*record.Record, error) {
	return mapLabels(r, ColumnSegments, func(ls []labels.Label) ([]segment, error) {
		out := make([]segment, len(ls))
		for i, l := range ls {
			if len(l.Polygon) == 0 {
				return nil, faults.Malformedf("format", "segmentation %d has no points", l.ID)
			}
			points := make([][2]float64, len(l.Polygon))
			for j, p := range l.Polygon {
				points[j] = [2]float64{p.X, p.Y}
			}
			out[i] = segment{Points: points, Label: l.Class}
		}
		return out, nil
	})
}

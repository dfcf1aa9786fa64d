package reports

import (
	"encoding/json"
	"strconv"

	"github.com/JaimeStill/annex/internal/jobs"
)

// DateLayout formats timestamps in report cells.
const DateLayout = "2006-01-02 15:04:05"

// NA fills cells with no value.
const NA = "N/A"

type decoder func(cell string) (any, error)

func text(cell string) (any, error) { return cell, nil }

func integer(cell string) (any, error) { return strconv.ParseInt(cell, 10, 64) }

func number(cell string) (any, error) { return strconv.ParseFloat(cell, 64) }

func boolean(cell string) (any, error) { return strconv.ParseBool(cell) }

func jsonValue(cell string) (any, error) {
	var v any
	err := json.Unmarshal([]byte(cell), &v)
	return v, err
}

type column struct {
	name   string
	decode decoder
}

// schema describes the file and columns of one report kind.
type schema struct {
	file    string
	columns []column
}

func (s schema) header() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.name
	}
	return names
}

var schemas = map[jobs.Kind]schema{
	jobs.KindAnnotationHistory: {
		file: "annotation_history.csv",
		columns: []column{
			{"annotator", text},
			{"datasetName", text},
			{"label", text},
			{"date", text},
			{"example_text", text},
			{"numberOfAnnotations", integer},
			{"perspectives", jsonValue},
			{"project_version", integer},
		},
	},
	jobs.KindDiscrepancyHistory: {
		file: "discrepancy_history.csv",
		columns: []column{
			{"example_id", integer},
			{"datasetName", text},
			{"text", text},
			{"percentages", jsonValue},
			{"is_discrepancy", boolean},
			{"max_percentage", number},
			{"diff_count", integer},
			{"perspective_answers", jsonValue},
		},
	},
	jobs.KindPerspectiveHistory: {
		file: "perspective_history.csv",
		columns: []column{
			{"question", text},
			{"answer", text},
			{"answered_by", text},
			{"answer_date", text},
			{"datasetName", text},
			{"example_text", text},
		},
	},
}

// Kinds lists the report job kinds keyed by their route name.
var Kinds = map[string]jobs.Kind{
	"annotation-history":  jobs.KindAnnotationHistory,
	"discrepancy-history": jobs.KindDiscrepancyHistory,
	"perspective-history": jobs.KindPerspectiveHistory,
}

func schemaFor(file string) (schema, bool) {
	for _, s := range schemas {
		if s.file == file {
			return s, true
		}
	}
	return schema{}, false
}

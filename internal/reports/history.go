package reports

import (
	"context"
	"fmt"

	"github.com/JaimeStill/annex/internal/examples"
	"github.com/JaimeStill/annex/internal/labels"
	"github.com/JaimeStill/annex/internal/perspectives"
	"github.com/JaimeStill/annex/internal/projects"
	"github.com/JaimeStill/annex/pkg/record"
)

// Answer is a perspective answer as embedded in history rows.
type Answer struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	AnsweredBy string `json:"answered_by"`
	AnswerDate string `json:"answer_date"`
}

func answers(as []perspectives.Answer) []Answer {
	out := make([]Answer, len(as))
	for i, a := range as {
		out[i] = Answer{
			Question:   a.Question,
			Answer:     a.Answer,
			AnsweredBy: a.AnsweredBy,
			AnswerDate: NA,
		}
		if a.AnswerDate != nil {
			out[i].AnswerDate = a.AnswerDate.Format(DateLayout)
		}
	}
	return out
}

func (r *reporter) annotationRows(ctx context.Context, p *projects.Project, exs []examples.Example, req Request) ([]*record.Record, error) {
	ids := exampleIDs(exs)
	kind := labels.PrimaryKind(p.Type)

	var byExample map[int64][]labels.Label
	if kind != "" {
		var err error
		byExample, err = r.src.Labels.Normalize(ctx, ids, []labels.Kind{kind}, labels.Scope{})
		if err != nil {
			return nil, fmt.Errorf("normalize labels: %w", err)
		}
	}

	answered, err := r.src.Perspectives.Answers(ctx, p.ID, ids)
	if err != nil {
		return nil, fmt.Errorf("load perspective answers: %w", err)
	}

	var rows []*record.Record
	for _, ex := range exs {
		ls := byExample[ex.ID]
		if !req.Status.Matches(ex.Confirmed, len(ls) > 0) {
			continue
		}

		exRows, err := exampleHistory(ex, ls, answers(answered[ex.ID]))
		if err != nil {
			r.logger.Warn("skip example", "report", "annotation-history", "example_id", ex.ID, "error", err)
			continue
		}
		rows = append(rows, exRows...)
	}

	return rows, nil
}

// exampleHistory yields one row per label, or a single N/A row when the
// example has no labels.
func exampleHistory(ex examples.Example, ls []labels.Label, pas []Answer) ([]*record.Record, error) {
	row := func(annotator, label, date string, version int) *record.Record {
		return record.New().
			Set("annotator", annotator).
			Set("datasetName", ex.DatasetName()).
			Set("label", label).
			Set("date", date).
			Set("example_text", ex.Text).
			Set("numberOfAnnotations", len(ls)).
			Set("perspectives", pas).
			Set("project_version", version)
	}

	if len(ls) == 0 {
		return []*record.Record{row(NA, NA, NA, 1)}, nil
	}

	rows := make([]*record.Record, 0, len(ls))
	for _, l := range ls {
		label, err := labels.Display(l)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row(l.Username, label, l.CreatedAt.Format(DateLayout), l.Version))
	}
	return rows, nil
}

func (r *reporter) discrepancyRows(ctx context.Context, p *projects.Project, exs []examples.Example, req Request) ([]*record.Record, error) {
	ids := exampleIDs(exs)

	users, err := r.src.Perspectives.MatchingUsers(ctx, p.ID, req.PerspectiveFilters)
	if err != nil {
		return nil, fmt.Errorf("match perspective filters: %w", err)
	}

	byExample, err := r.src.Labels.Normalize(ctx, ids, []labels.Kind{labels.KindCategory}, labels.Scope{Users: users})
	if err != nil {
		return nil, fmt.Errorf("normalize labels: %w", err)
	}

	answered, err := r.src.Perspectives.Answers(ctx, p.ID, ids)
	if err != nil {
		return nil, fmt.Errorf("load perspective answers: %w", err)
	}

	threshold := r.opts.Threshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	var rows []*record.Record
	for _, ex := range exs {
		ls := byExample[ex.ID]
		if len(ls) == 0 {
			continue
		}

		d := Discrepancy(ls, threshold)
		rows = append(rows, record.New().
			Set("example_id", ex.ID).
			Set("datasetName", ex.DatasetName()).
			Set("text", ex.Text).
			Set("percentages", d.Percentages).
			Set("is_discrepancy", d.IsDiscrepancy).
			Set("max_percentage", d.MaxPercentage).
			Set("diff_count", len(d.Percentages)).
			Set("perspective_answers", answers(answered[ex.ID])))
	}

	return rows, nil
}

// Agreement summarizes how an example's category labels split across classes.
type Agreement struct {
	Percentages   map[string]float64
	MaxPercentage float64
	IsDiscrepancy bool
}

// Discrepancy computes each class's share of ls as a percentage. The example
// is a discrepancy when no class reaches threshold.
func Discrepancy(ls []labels.Label, threshold float64) Agreement {
	counts := make(map[string]int)
	for _, l := range ls {
		counts[l.Class]++
	}

	a := Agreement{Percentages: make(map[string]float64, len(counts))}
	for class, n := range counts {
		share := float64(n*100) / float64(len(ls))
		a.Percentages[class] = share
		a.MaxPercentage = max(a.MaxPercentage, share)
	}
	a.IsDiscrepancy = a.MaxPercentage < threshold

	return a
}

func (r *reporter) perspectiveRows(ctx context.Context, p *projects.Project, exs []examples.Example, _ Request) ([]*record.Record, error) {
	answered, err := r.src.Perspectives.Answers(ctx, p.ID, exampleIDs(exs))
	if err != nil {
		return nil, fmt.Errorf("load perspective answers: %w", err)
	}

	var rows []*record.Record
	for _, ex := range exs {
		for _, a := range answers(answered[ex.ID]) {
			rows = append(rows, record.New().
				Set("question", a.Question).
				Set("answer", a.Answer).
				Set("answered_by", a.AnsweredBy).
				Set("answer_date", a.AnswerDate).
				Set("datasetName", ex.DatasetName()).
				Set("example_text", ex.Text))
		}
	}

	return rows, nil
}

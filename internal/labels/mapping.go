package labels

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/annex/internal/faults"
	"github.com/JaimeStill/annex/pkg/query"
	"github.com/JaimeStill/annex/pkg/repository"
)

type table struct {
	kind       Kind
	projection *query.ProjectionMap
	scan       repository.ScanFunc[Label]
}

var idSort = query.SortField{Field: "ID"}

// envelope projects the columns shared by every label table. Rows without a
// project_version predate versioning and count as version 1.
func envelope(name, alias string) *query.ProjectionMap {
	return query.
		NewProjectionMap("public", name, alias).
		Project("id", "ID").
		Project("example_id", "ExampleID").
		Project("user_id", "UserID").
		ProjectExpr(fmt.Sprintf("COALESCE(%s.project_version, 1)", alias), "Version").
		Project("created_at", "CreatedAt")
}

func withUser(p *query.ProjectionMap, alias string) *query.ProjectionMap {
	return p.
		Join("public", "users", "u", "LEFT JOIN", fmt.Sprintf("u.id = %s.user_id", alias)).
		Project("username", "Username")
}

func withClass(p *query.ProjectionMap, alias, column string) *query.ProjectionMap {
	return p.
		Join("public", "label_types", "t", "LEFT JOIN", fmt.Sprintf("t.id = %s.%s", alias, column)).
		Project("text", "Class")
}

var tables = map[Kind]table{
	KindCategory: {
		kind:       KindCategory,
		projection: withClass(withUser(envelope("categories", "l"), "l"), "l", "label_id"),
		scan:       scanCategory,
	},
	KindSpan: {
		kind: KindSpan,
		projection: withClass(withUser(envelope("spans", "l").
			Project("start_offset", "Start").
			Project("end_offset", "End"), "l"), "l", "label_id"),
		scan: scanSpan,
	},
	KindText: {
		kind: KindText,
		projection: withUser(envelope("text_labels", "l").
			Project("text", "Text"), "l"),
		scan: scanText,
	},
	KindBoundingBox: {
		kind: KindBoundingBox,
		projection: withClass(withUser(envelope("bounding_boxes", "l").
			Project("x", "X").
			Project("y", "Y").
			Project("width", "Width").
			Project("height", "Height"), "l"), "l", "label_id"),
		scan: scanBoundingBox,
	},
	KindSegmentation: {
		kind: KindSegmentation,
		projection: withClass(withUser(envelope("segmentations", "l").
			Project("points", "Points"), "l"), "l", "label_id"),
		scan: scanSegmentation,
	},
	KindRelation: {
		kind: KindRelation,
		projection: withClass(withUser(envelope("relations", "l").
			Project("from_id", "FromID").
			Project("to_id", "ToID"), "l"), "l", "type_id"),
		scan: scanRelation,
	},
}

// row collects the nullable joined columns so missing references can be reported.
type row struct {
	username sql.NullString
	class    sql.NullString
}

func (r *row) envelope(l *Label) []any {
	return []any{&l.ID, &l.ExampleID, &l.UserID, &l.Version, &l.CreatedAt}
}

func (r *row) finish(l *Label, classed bool) error {
	if !r.username.Valid {
		return faults.Malformedf("labels", "%s %d references missing user %d", l.Kind, l.ID, l.UserID)
	}
	l.Username = r.username.String

	if classed {
		if !r.class.Valid {
			return faults.Malformedf("labels", "%s %d references missing label type", l.Kind, l.ID)
		}
		l.Class = r.class.String
	}

	return nil
}

func scanCategory(s repository.Scanner) (Label, error) {
	l := Label{Kind: KindCategory}
	var r row

	dest := append(r.envelope(&l), &r.username, &r.class)
	if err := s.Scan(dest...); err != nil {
		return l, err
	}

	return l, r.finish(&l, true)
}

func scanSpan(s repository.Scanner) (Label, error) {
	l := Label{Kind: KindSpan, Span: &Span{}}
	var r row

	dest := append(r.envelope(&l), &l.Span.Start, &l.Span.End, &r.username, &r.class)
	if err := s.Scan(dest...); err != nil {
		return l, err
	}

	return l, r.finish(&l, true)
}

func scanText(s repository.Scanner) (Label, error) {
	l := Label{Kind: KindText}
	var r row

	dest := append(r.envelope(&l), &l.Text, &r.username)
	if err := s.Scan(dest...); err != nil {
		return l, err
	}

	return l, r.finish(&l, false)
}

func scanBoundingBox(s repository.Scanner) (Label, error) {
	l := Label{Kind: KindBoundingBox, Box: &Box{}}
	var r row

	dest := append(r.envelope(&l), &l.Box.X, &l.Box.Y, &l.Box.Width, &l.Box.Height, &r.username, &r.class)
	if err := s.Scan(dest...); err != nil {
		return l, err
	}

	return l, r.finish(&l, true)
}

// Segmentation points are stored as a JSON array of [x, y] pairs.
func scanSegmentation(s repository.Scanner) (Label, error) {
	l := Label{Kind: KindSegmentation}
	var (
		r      row
		points []byte
	)

	dest := append(r.envelope(&l), &points, &r.username, &r.class)
	if err := s.Scan(dest...); err != nil {
		return l, err
	}

	var pairs [][2]float64
	if err := json.Unmarshal(points, &pairs); err != nil {
		return l, faults.Malformedf("labels", "segmentation %d points: %v", l.ID, err)
	}

	l.Polygon = make([]Point, len(pairs))
	for i, p := range pairs {
		l.Polygon[i] = Point{X: p[0], Y: p[1]}
	}

	return l, r.finish(&l, true)
}

func scanRelation(s repository.Scanner) (Label, error) {
	l := Label{Kind: KindRelation, Relation: &Relation{}}
	var r row

	dest := append(r.envelope(&l), &l.Relation.FromID, &l.Relation.ToID, &r.username, &r.class)
	if err := s.Scan(dest...); err != nil {
		return l, err
	}

	return l, r.finish(&l, true)
}

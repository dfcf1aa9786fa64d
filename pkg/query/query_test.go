package query_test

import (
	"slices"
	"testing"

	"github.com/JaimeStill/annex/pkg/query"
)

const selectExamples = "SELECT e.id, e.filename, e.created_at FROM public.examples e"

func examples() *query.ProjectionMap {
	return query.NewProjectionMap("public", "examples", "e").
		Project("id", "ID").
		Project("filename", "Filename").
		Project("created_at", "CreatedAt")
}

func ptr(s string) *string { return &s }

func TestProjectionColumn(t *testing.T) {
	p := examples()

	tests := []struct {
		name string
		want string
	}{
		{"Filename", "e.filename"},
		{"CreatedAt", "e.created_at"},
		{"unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Column(tt.name); got != tt.want {
				t.Errorf("Column(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestProjectionJoin(t *testing.T) {
	p := query.NewProjectionMap("public", "categories", "l").
		Project("id", "ID").
		ProjectExpr("COALESCE(l.project_version, 1)", "Version").
		Join("public", "users", "u", "LEFT JOIN", "u.id = l.user_id").
		Project("username", "Username").
		Join("public", "category_types", "t", "JOIN", "t.id = l.label_id").
		Project("text", "Class")

	wantFrom := "public.categories l" +
		" LEFT JOIN public.users u ON u.id = l.user_id" +
		" JOIN public.category_types t ON t.id = l.label_id"
	if got := p.From(); got != wantFrom {
		t.Errorf("From() = %q, want %q", got, wantFrom)
	}

	wantCols := "l.id, COALESCE(l.project_version, 1), u.username, t.text"
	if got := p.Columns(); got != wantCols {
		t.Errorf("Columns() = %q, want %q", got, wantCols)
	}

	if got := p.Column("Version"); got != "COALESCE(l.project_version, 1)" {
		t.Errorf("Column(Version) = %q", got)
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		build    func() (string, []any)
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "no conditions",
			build:   query.NewBuilder(examples()).Build,
			wantSQL: selectExamples,
		},
		{
			name:  "sort order",
			build: query.NewBuilder(examples(),
				query.SortField{Field: "CreatedAt", Descending: true},
				query.SortField{Field: "ID"},
			).Build,
			wantSQL: selectExamples + " ORDER BY e.created_at DESC, e.id ASC",
		},
		{
			name:  "equals then any",
			build: query.NewBuilder(examples(), query.SortField{Field: "ID"}).
				WhereEquals("Filename", "a.txt").
				WhereAny("ID", []int64{4, 5}).
				Build,
			wantSQL:  selectExamples + " WHERE e.filename = $1 AND e.id = ANY($2) ORDER BY e.id ASC",
			wantArgs: []any{"a.txt", []int64{4, 5}},
		},
		{
			name:  "nil values skipped",
			build: query.NewBuilder(examples()).
				WhereEquals("ID", (*int64)(nil)).
				WhereAny("ID", []int64(nil)).
				WhereSearch(nil, "Filename").
				WhereSearch(ptr(""), "Filename").
				Build,
			wantSQL: selectExamples,
		},
		{
			name:  "empty slice kept",
			build: query.NewBuilder(examples()).
				WhereAny("ID", []int64{}).
				Build,
			wantSQL:  selectExamples + " WHERE e.id = ANY($1)",
			wantArgs: []any{[]int64{}},
		},
		{
			name:  "exists numbers subquery placeholders",
			build: query.NewBuilder(examples()).
				WhereEquals("Filename", "a.txt").
				WhereExists("SELECT 1 FROM public.answers a WHERE a.example_id = e.id AND a.q = $%d AND a.v = ANY($%d)", int64(3), []string{"yes"}).
				WhereExists("SELECT 1 FROM public.example_states s WHERE s.example_id = e.id").
				Build,
			wantSQL: selectExamples +
				" WHERE e.filename = $1" +
				" AND EXISTS (SELECT 1 FROM public.answers a WHERE a.example_id = e.id AND a.q = $2 AND a.v = ANY($3))" +
				" AND EXISTS (SELECT 1 FROM public.example_states s WHERE s.example_id = e.id)",
			wantArgs: []any{"a.txt", int64(3), []string{"yes"}},
		},
		{
			name:  "search shares one parameter",
			build: query.NewBuilder(examples()).
				WhereEquals("ID", int64(1)).
				WhereSearch(ptr("batch"), "Filename", "CreatedAt").
				Build,
			wantSQL:  selectExamples + " WHERE e.id = $1 AND (e.filename ILIKE $2 OR e.created_at ILIKE $2)",
			wantArgs: []any{int64(1), "%batch%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.build()
			if sql != tt.wantSQL {
				t.Errorf("sql:\n got %q\nwant %q", sql, tt.wantSQL)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args: got %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if !equalArg(args[i], tt.wantArgs[i]) {
					t.Errorf("args[%d]: got %v, want %v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestBuildSingle(t *testing.T) {
	b := query.NewBuilder(examples(), query.SortField{Field: "ID"}).WhereEquals("Filename", "a.txt")

	sql, args := b.BuildSingle("ID", int64(7))

	if want := selectExamples + " WHERE e.id = $1"; sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != int64(7) {
		t.Errorf("args = %v, want [7]", args)
	}
}

func equalArg(got, want any) bool {
	switch w := want.(type) {
	case []int64:
		g, ok := got.([]int64)
		return ok && slices.Equal(g, w)
	case []string:
		g, ok := got.([]string)
		return ok && slices.Equal(g, w)
	default:
		return got == want
	}
}

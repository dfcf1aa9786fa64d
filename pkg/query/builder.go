package query

import (
	"reflect"
	"strconv"
	"strings"
)

// placeholder marks where a bound argument goes in a condition template.
const placeholder = "$%d"

// SortField is one ORDER BY term addressed by view property name.
type SortField struct {
	Field      string
	Descending bool
}

// Builder composes a SELECT over a ProjectionMap. Conditions are joined with
// AND and their placeholders are numbered as arguments are bound.
type Builder struct {
	projection *ProjectionMap
	sort       []SortField
	where      []string
	args       []any
}

// NewBuilder starts a query over projection ordered by sort.
func NewBuilder(projection *ProjectionMap, sort ...SortField) *Builder {
	return &Builder{
		projection: projection,
		sort:       sort,
	}
}

// Build returns the SELECT statement and its arguments.
func (b *Builder) Build() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(b.projection.Columns())
	sb.WriteString(" FROM ")
	sb.WriteString(b.projection.From())

	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.where, " AND "))
	}

	for i, f := range b.sort {
		if i == 0 {
			sb.WriteString(" ORDER BY ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(b.projection.Column(f.Field))
		if f.Descending {
			sb.WriteString(" DESC")
		} else {
			sb.WriteString(" ASC")
		}
	}

	return sb.String(), b.args
}

// BuildSingle selects the row whose field equals id, ignoring other conditions.
func (b *Builder) BuildSingle(field string, id any) (string, []any) {
	single := NewBuilder(b.projection)
	single.WhereEquals(field, id)
	return single.Build()
}

// WhereEquals matches field against value. Nil values add no condition.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	b.where = append(b.where, b.bind(b.projection.Column(field)+" = "+placeholder, value))
	return b
}

// WhereAny matches field against any element of values, bound as one array
// parameter. A nil slice adds no condition; an empty one matches nothing.
func (b *Builder) WhereAny(field string, values any) *Builder {
	if isNil(values) {
		return b
	}
	b.where = append(b.where, b.bind(b.projection.Column(field)+" = ANY("+placeholder+")", values))
	return b
}

// WhereExists requires subquery to return a row. Each $%d in subquery binds
// the next value of args.
func (b *Builder) WhereExists(subquery string, args ...any) *Builder {
	b.where = append(b.where, b.bind("EXISTS ("+subquery+")", args...))
	return b
}

// WhereSearch matches a case-insensitive substring against any of fields.
// The pattern is bound once and shared by every field. Nil or empty search
// adds no condition.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	b.args = append(b.args, "%"+*search+"%")
	param := "$" + strconv.Itoa(len(b.args))

	terms := make([]string, len(fields))
	for i, f := range fields {
		terms[i] = b.projection.Column(f) + " ILIKE " + param
	}

	b.where = append(b.where, "("+strings.Join(terms, " OR ")+")")
	return b
}

func (b *Builder) bind(clause string, args ...any) string {
	for _, arg := range args {
		b.args = append(b.args, arg)
		clause = strings.Replace(clause, placeholder, "$"+strconv.Itoa(len(b.args)), 1)
	}
	return clause
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

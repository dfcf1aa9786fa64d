// Package query builds read-only SQL over projection maps.
//
// A ProjectionMap names the columns a repository scans and the view
// properties used to filter and sort them. Builder composes a SELECT over a
// projection with numbered placeholders, so repositories never concatenate
// caller input into SQL.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view property names to qualified column expressions.
// Project qualifies columns with the alias of the most recently added table.
type ProjectionMap struct {
	from    []string
	current string
	names   map[string]string
	exprs   []string
}

// NewProjectionMap starts a projection over schema.table aliased as alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		from:    []string{qualify(schema, table, alias)},
		current: alias,
		names:   make(map[string]string),
	}
}

// Project maps column of the current table to name.
func (p *ProjectionMap) Project(column, name string) *ProjectionMap {
	return p.ProjectExpr(p.current+"."+column, name)
}

// ProjectExpr maps a raw SQL expression to name, e.g. COALESCE(l.version, 1).
func (p *ProjectionMap) ProjectExpr(expr, name string) *ProjectionMap {
	p.names[name] = expr
	p.exprs = append(p.exprs, expr)
	return p
}

// Join adds a table under kind ("JOIN", "LEFT JOIN") and makes alias current.
func (p *ProjectionMap) Join(schema, table, alias, kind, on string) *ProjectionMap {
	p.from = append(p.from, fmt.Sprintf("%s %s ON %s", kind, qualify(schema, table, alias), on))
	p.current = alias
	return p
}

// From returns the base table followed by its join clauses.
func (p *ProjectionMap) From() string {
	return strings.Join(p.from, " ")
}

// Column resolves a view property name. Unmapped names pass through as-is.
func (p *ProjectionMap) Column(name string) string {
	if expr, ok := p.names[name]; ok {
		return expr
	}
	return name
}

// Columns returns the projected expressions in scan order.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.exprs, ", ")
}

func qualify(schema, table, alias string) string {
	return schema + "." + table + " " + alias
}

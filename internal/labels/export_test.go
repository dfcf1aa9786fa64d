package labels

import "github.com/JaimeStill/annex/pkg/repository"

// Columns exposes the projected column list for a kind.
func Columns(kind Kind) string {
	return tables[kind].projection.Columns()
}

// From exposes the FROM clause for a kind.
func From(kind Kind) string {
	return tables[kind].projection.From()
}

// Scan exposes the row scanner for a kind.
func Scan(kind Kind, s repository.Scanner) (Label, error) {
	return tables[kind].scan(s)
}

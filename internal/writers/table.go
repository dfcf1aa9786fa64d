package writers

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"iter"

	"github.com/JaimeStill/annex/pkg/record"
)

// table buffers records and builds the union of their fields in first-seen order.
type table struct {
	header []string
	seen   map[string]bool
	rows   []*record.Record
}

func collect(records iter.Seq2[*record.Record, error]) (*table, error) {
	t := &table{seen: make(map[string]bool)}

	for r, err := range records {
		if err != nil {
			return nil, err
		}
		for _, k := range r.Keys() {
			if !t.seen[k] {
				t.seen[k] = true
				t.header = append(t.header, k)
			}
		}
		t.rows = append(t.rows, r)
	}

	return t, nil
}

// cells renders r against the header. Missing fields are empty; non-string
// values are JSON encoded.
func (t *table) cells(r *record.Record) ([]string, error) {
	row := make([]string, len(t.header))
	for i, k := range t.header {
		v, ok := r.Get(k)
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			row[i] = s
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		row[i] = string(b)
	}
	return row, nil
}

// CSV writes a header row followed by one row per record. A non-nil Header
// fixes the columns and is written even when there are no records; otherwise
// the header is the union of record fields.
type CSV struct {
	Header []string
}

func (CSV) Extension() string { return "csv" }

func (c CSV) Write(path string, records iter.Seq2[*record.Record, error]) error {
	t, err := collect(records)
	if err != nil {
		return err
	}
	if c.Header != nil {
		t.header = c.Header
	}

	return Atomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if len(t.header) > 0 {
			if err := cw.Write(t.header); err != nil {
				return err
			}
		}

		for _, r := range t.rows {
			row, err := t.cells(r)
			if err != nil {
				return err
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}

		cw.Flush()
		return cw.Error()
	})
}

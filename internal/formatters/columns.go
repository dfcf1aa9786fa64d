package formatters

import "github.com/JaimeStill/annex/pkg/record"

// Rename renames columns in order. Each pair is {from, to}.
type Rename [][2]string

func (rn Rename) Format(r *record.Record) (*record.Record, error) {
	for _, p := range rn {
		r.Rename(p[0], p[1])
	}
	return r, nil
}

// Drop removes the named columns.
type Drop []string

func (d Drop) Format(r *record.Record) (*record.Record, error) {
	for _, key := range d {
		r.Delete(key)
	}
	return r, nil
}

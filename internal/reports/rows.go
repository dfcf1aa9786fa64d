package reports

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/JaimeStill/annex/internal/faults"
	"github.com/JaimeStill/annex/pkg/pagination"
	"github.com/JaimeStill/annex/pkg/record"
)

func (r *reporter) Rows(path string, page pagination.PageRequest) (pagination.PageResult[*record.Record], error) {
	return Rows(path, page)
}

// Rows reads one page of a finished report. Cells are decoded back to the
// types they were written from; JSON columns become JSON values.
func Rows(path string, page pagination.PageRequest) (pagination.PageResult[*record.Record], error) {
	var zero pagination.PageResult[*record.Record]

	s, ok := schemaFor(filepath.Base(path))
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrNotReport, filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = len(s.columns)

	header, err := cr.Read()
	if err != nil {
		return zero, faults.Malformedf("read report", "%s header: %v", filepath.Base(path), err)
	}
	if !slices.Equal(header, s.header()) {
		return zero, faults.Malformedf("read report", "%s header %v does not match %v", filepath.Base(path), header, s.header())
	}

	var (
		data  []*record.Record
		total int
	)

	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return zero, faults.Malformedf("read report", "%s: %v", filepath.Base(path), err)
		}

		if page.Contains(total) {
			rec, err := decodeRow(s, cells)
			if err != nil {
				return zero, faults.Malformedf("read report", "%s row %d: %v", filepath.Base(path), total+1, err)
			}
			data = append(data, rec)
		}
		total++
	}

	return pagination.NewPageResult(data, total, page.Page, page.PageSize), nil
}

func decodeRow(s schema, cells []string) (*record.Record, error) {
	rec := record.New()
	for i, c := range s.columns {
		v, err := c.decode(cells[i])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.name, err)
		}
		rec.Set(c.name, v)
	}
	return rec, nil
}

package writers

import (
	"io"
	"iter"

	"github.com/xuri/excelize/v2"

	"github.com/JaimeStill/annex/pkg/record"
)

// XLSX writes a single worksheet with a header row and one row per record.
type XLSX struct {
	Sheet string
}

func (XLSX) Extension() string { return "xlsx" }

func (x XLSX) Write(path string, records iter.Seq2[*record.Record, error]) error {
	t, err := collect(records)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := x.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return err
		}
	}

	if err := setRow(f, sheet, 1, t.header); err != nil {
		return err
	}

	for i, r := range t.rows {
		row, err := t.cells(r)
		if err != nil {
			return err
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	return Atomic(path, func(w io.Writer) error {
		return f.Write(w)
	})
}

func setRow(f *excelize.File, sheet string, n int, values []string) error {
	if len(values) == 0 {
		return nil
	}

	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}

	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}

	return f.SetSheetRow(sheet, cell, &row)
}

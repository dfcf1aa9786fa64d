// Package writers serializes formatted records to files. Every write is
// atomic: output goes to a temp file beside the destination and is renamed
// into place only after a successful flush and sync.
package writers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"

	"github.com/JaimeStill/annex/internal/faults"
	"github.com/JaimeStill/annex/pkg/record"
)

// Writer serializes a record sequence into a single file.
type Writer interface {
	// Extension is the canonical file extension without the dot.
	Extension() string
	Write(path string, records iter.Seq2[*record.Record, error]) error
}

var ErrUnknownFormat = errors.New("unknown writer format")

// New returns the writer for a format name.
func New(format string) (Writer, error) {
	switch format {
	case "jsonl":
		return JSONL{}, nil
	case "json":
		return JSON{}, nil
	case "csv":
		return CSV{}, nil
	case "fasttext":
		return FastText{}, nil
	case "conll":
		return CoNLL{}, nil
	case "xlsx":
		return XLSX{Sheet: "Sheet1"}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// Atomic writes path through fn. Nothing is created at path unless fn and
// the flush succeed. Unclassified errors are reported as write failures.
func Atomic(path string, fn func(w io.Writer) error) (err error) {
	op := "write " + filepath.Base(path)

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return faults.Write(op, err)
	}

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = fn(bw); err != nil {
		if faults.KindOf(err) == faults.KindUnknown {
			err = faults.Write(op, err)
		}
		return err
	}

	if err = bw.Flush(); err != nil {
		return faults.Write(op, err)
	}
	if err = tmp.Sync(); err != nil {
		return faults.Write(op, err)
	}
	if err = tmp.Close(); err != nil {
		return faults.Write(op, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return faults.Write(op, err)
	}

	return nil
}

func stringField(r *record.Record, key string) (string, error) {
	v, ok := r.Get(key)
	if !ok {
		return "", faults.Malformedf("write", "record has no %q field", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", faults.Malformedf("write", "field %q holds %T, not a string", key, v)
	}
	return s, nil
}

func stringsField(r *record.Record, key string) ([]string, error) {
	v, ok := r.Get(key)
	if !ok {
		return nil, faults.Malformedf("write", "record has no %q field", key)
	}
	s, ok := v.([]string)
	if !ok {
		return nil, faults.Malformedf("write", "field %q holds %T, not a string list", key, v)
	}
	return s, nil
}

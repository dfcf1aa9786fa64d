package writers

import (
	"encoding/json"
	"io"
	"iter"

	"github.com/JaimeStill/annex/pkg/record"
)

// JSONL writes one JSON object per line.
type JSONL struct{}

func (JSONL) Extension() string { return "jsonl" }

func (JSONL) Write(path string, records iter.Seq2[*record.Record, error]) error {
	return Atomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		for r, err := range records {
			if err != nil {
				return err
			}
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	})
}

// JSON writes a single JSON array of objects. An empty sequence yields [].
type JSON struct{}

func (JSON) Extension() string { return "json" }

func (JSON) Write(path string, records iter.Seq2[*record.Record, error]) error {
	return Atomic(path, func(w io.Writer) error {
		if _, err := io.WriteString(w, "["); err != nil {
			return err
		}

		first := true
		for r, err := range records {
			if err != nil {
				return err
			}

			b, err := json.Marshal(r)
			if err != nil {
				return err
			}

			if !first {
				if _, err := io.WriteString(w, ","); err != nil {
					return err
				}
			}
			first = false

			if _, err := w.Write(b); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "]")
		return err
	})
}

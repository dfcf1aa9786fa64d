package writers

import (
	"fmt"
	"io"
	"iter"

	"github.com/JaimeStill/annex/internal/faults"
	"github.com/JaimeStill/annex/pkg/record"
)

// FastText writes "<labels> <text>" lines from the label and text fields.
type FastText struct{}

func (FastText) Extension() string { return "txt" }

func (FastText) Write(path string, records iter.Seq2[*record.Record, error]) error {
	return Atomic(path, func(w io.Writer) error {
		for r, err := range records {
			if err != nil {
				return err
			}

			label, err := stringField(r, "label")
			if err != nil {
				return err
			}
			text, err := stringField(r, "text")
			if err != nil {
				return err
			}

			if _, err := fmt.Fprintf(w, "%s %s\n", label, text); err != nil {
				return err
			}
		}
		return nil
	})
}

// CoNLL writes "token\ttag" lines from the tokens and tags fields with a
// blank line after each record.
type CoNLL struct{}

func (CoNLL) Extension() string { return "conll" }

func (CoNLL) Write(path string, records iter.Seq2[*record.Record, error]) error {
	return Atomic(path, func(w io.Writer) error {
		for r, err := range records {
			if err != nil {
				return err
			}

			tokens, err := stringsField(r, "tokens")
			if err != nil {
				return err
			}
			tags, err := stringsField(r, "tags")
			if err != nil {
				return err
			}
			if len(tokens) != len(tags) {
				return faults.Malformedf("write", "%d tokens but %d tags", len(tokens), len(tags))
			}

			for i := range tokens {
				if _, err := fmt.Fprintf(w, "%s\t%s\n", tokens[i], tags[i]); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		return nil
	})
}

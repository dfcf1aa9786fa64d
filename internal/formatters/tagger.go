package formatters

import (
	"cmp"
	"slices"
	"unicode"

	"github.com/JaimeStill/annex/internal/labels"
	"github.com/JaimeStill/annex/pkg/record"
)

// token is a whitespace delimited word with character offsets [start, end).
type token struct {
	text       string
	start, end int
}

func tokenize(text string) []token {
	var (
		tokens []token
		word   []rune
		start  int
	)

	pos := 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			if len(word) > 0 {
				tokens = append(tokens, token{text: string(word), start: start, end: pos})
				word = word[:0]
			}
		} else {
			if len(word) == 0 {
				start = pos
			}
			word = append(word, r)
		}
		pos++
	}

	if len(word) > 0 {
		tokens = append(tokens, token{text: string(word), start: start, end: pos})
	}

	return tokens
}

// TokenTagger expands the spans column into parallel tokens and tags columns
// using BIO tags. Spans are claimed by earliest start, ties going to the
// longer span; a span touching a token already claimed is dropped.
type TokenTagger struct{}

func (TokenTagger) Format(r *record.Record) (*record.Record, error) {
	v, _ := r.Get("text")
	text, _ := v.(string)

	spans, err := labelsAt(r, ColumnSpans)
	if err != nil {
		return nil, err
	}

	n := textLen(r)
	for _, l := range spans {
		if err := checkSpan(l, n); err != nil {
			return nil, err
		}
	}

	tokens := tokenize(text)
	words := make([]string, len(tokens))
	tags := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = t.text
		tags[i] = "O"
	}

	ordered := slices.Clone(spans)
	slices.SortStableFunc(ordered, func(a, b labels.Label) int {
		if c := cmp.Compare(a.Span.Start, b.Span.Start); c != 0 {
			return c
		}
		return cmp.Compare(b.Span.End-b.Span.Start, a.Span.End-a.Span.Start)
	})

	claimed := make([]bool, len(tokens))
	for _, l := range ordered {
		covered := covering(tokens, l.Span)
		if len(covered) == 0 || slices.ContainsFunc(covered, func(i int) bool { return claimed[i] }) {
			continue
		}
		for j, i := range covered {
			claimed[i] = true
			if j == 0 {
				tags[i] = "B-" + l.Class
			} else {
				tags[i] = "I-" + l.Class
			}
		}
	}

	return r.Set(ColumnTokens, words).Set(ColumnTags, tags), nil
}

// covering returns the indexes of tokens that overlap s.
func covering(tokens []token, s *labels.Span) []int {
	var idx []int
	for i, t := range tokens {
		if t.start < s.End && t.end > s.Start {
			idx = append(idx, i)
		}
	}
	return idx
}

package formatters_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/annex/internal/comments"
	"github.com/JaimeStill/annex/internal/dataset"
	"github.com/JaimeStill/annex/internal/faults"
	"github.com/JaimeStill/annex/internal/formatters"
	"github.com/JaimeStill/annex/internal/labels"
	"github.com/JaimeStill/annex/internal/projects"
	"github.com/JaimeStill/annex/pkg/record"
)

func category(id int64, class string) labels.Label {
	return labels.Label{ID: id, Kind: labels.KindCategory, Class: class}
}

func span(id int64, start, end int, class string) labels.Label {
	return labels.Label{ID: id, Kind: labels.KindSpan, Class: class, Span: &labels.Span{Start: start, End: end}}
}

func textRecord(text string, ls ...labels.Label) dataset.Record {
	return dataset.Record{
		ExampleID: 1,
		DataField: "text",
		Data:      text,
		Meta:      map[string]any{},
		Labels:    ls,
		Comments:  []comments.Comment{},
	}
}

func encode(t *testing.T, r *record.Record) string {
	t.Helper()
	b, err := json.Marshal(r)
	require.NoError(t, err)
	return string(b)
}

func apply(t *testing.T, typ projects.Type, f formatters.Format, useRelation bool, rec dataset.Record) *record.Record {
	t.Helper()
	chain, err := formatters.Select(typ, f, useRelation)
	require.NoError(t, err)
	out, err := chain.Apply(rec)
	require.NoError(t, err)
	return out
}

func TestFlatten(t *testing.T) {
	rec := textRecord("hello", category(3, "greeting"))
	rec.Comments = []comments.Comment{{Username: "bob", Text: "ok"}}
	rec.Meta = map[string]any{"source": "web", "id": 99, "author": "x"}

	out := formatters.Flatten(rec, []labels.Kind{labels.KindCategory, labels.KindSpan})

	assert.Equal(t, []string{"id", "text", "categories", "spans", "Comments"}, out.Keys())

	id, _ := out.Get("id")
	assert.Equal(t, int64(1), id)

	spans, _ := out.Get("spans")
	assert.NotNil(t, spans)
	assert.Empty(t, spans)
}

func TestApplyKeepsShapedColumnsOverMeta(t *testing.T) {
	tests := []struct {
		name   string
		typ    projects.Type
		format formatters.Format
		rec    dataset.Record
		meta   map[string]any
		want   string
	}{
		{
			name:   "label",
			typ:    projects.DocumentClassification,
			format: formatters.JSONL,
			rec:    textRecord("good film", category(1, "pos")),
			meta:   map[string]any{"label": "stale", "source": "web"},
			want:   `{"id":1,"text":"good film","label":["pos"],"Comments":[],"source":"web"}`,
		},
		{
			name:   "cats and entities",
			typ:    projects.IntentDetectionAndSlotFilling,
			format: formatters.JSONL,
			rec:    textRecord("book a flight", category(1, "travel"), span(2, 7, 13, "OBJ")),
			meta:   map[string]any{"cats": []string{"x"}, "entities": "y", "author": "z"},
			want:   `{"id":1,"text":"book a flight","cats":["travel"],"entities":[[7,13,"OBJ"]],"Comments":[],"author":"z"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.rec
			rec.Meta = tt.meta
			out := apply(t, tt.typ, tt.format, false, rec)
			assert.Equal(t, tt.want, encode(t, out))
		})
	}
}

func TestSelectOutputs(t *testing.T) {
	tests := []struct {
		name        string
		typ         projects.Type
		format      formatters.Format
		useRelation bool
		rec         dataset.Record
		want        string
	}{
		{
			name:   "classification jsonl",
			typ:    projects.DocumentClassification,
			format: formatters.JSONL,
			rec:    textRecord("good film", category(1, "pos"), category(2, "fun")),
			want:   `{"id":1,"text":"good film","label":["pos","fun"],"Comments":[]}`,
		},
		{
			name:   "classification csv",
			typ:    projects.DocumentClassification,
			format: formatters.CSV,
			rec:    textRecord("good film", category(1, "pos"), category(2, "fun")),
			want:   `{"id":1,"text":"good film","label":"pos#fun","Comments":[]}`,
		},
		{
			name:   "classification fasttext",
			typ:    projects.DocumentClassification,
			format: formatters.FastText,
			rec:    textRecord("good film", category(1, "very good")),
			want:   `{"id":1,"text":"good film","label":"__label__very_good","Comments":[]}`,
		},
		{
			name:   "unlabeled example keeps an empty label",
			typ:    projects.DocumentClassification,
			format: formatters.JSONL,
			rec:    textRecord("nothing"),
			want:   `{"id":1,"text":"nothing","label":[],"Comments":[]}`,
		},
		{
			name:   "sequence labeling jsonl",
			typ:    projects.SequenceLabeling,
			format: formatters.JSONL,
			rec:    textRecord("Ann works", span(4, 0, 3, "PER")),
			want:   `{"id":1,"text":"Ann works","label":[[0,3,"PER"]],"Comments":[]}`,
		},
		{
			name:        "sequence labeling with relations",
			typ:         projects.SequenceLabeling,
			format:      formatters.JSON,
			useRelation: true,
			rec: textRecord("Ann at Acme",
				span(4, 0, 3, "PER"),
				span(5, 7, 11, "ORG"),
				labels.Label{ID: 9, Kind: labels.KindRelation, Class: "works_at", Relation: &labels.Relation{FromID: 4, ToID: 5}},
			),
			want: `{"id":1,"text":"Ann at Acme","entities":[` +
				`{"id":4,"start_offset":0,"end_offset":3,"label":"PER"},` +
				`{"id":5,"start_offset":7,"end_offset":11,"label":"ORG"}],` +
				`"relations":[{"id":9,"from_id":4,"to_id":5,"type":"works_at"}],"Comments":[]}`,
		},
		{
			name:   "intent detection",
			typ:    projects.IntentDetectionAndSlotFilling,
			format: formatters.JSONL,
			rec:    textRecord("book Paris", category(1, "booking"), span(2, 5, 10, "CITY")),
			want:   `{"id":1,"text":"book Paris","cats":["booking"],"entities":[[5,10,"CITY"]],"Comments":[]}`,
		},
		{
			name:   "seq2seq csv",
			typ:    projects.Seq2seq,
			format: formatters.CSV,
			rec: textRecord("hello",
				labels.Label{ID: 1, Kind: labels.KindText, Text: "bonjour"},
				labels.Label{ID: 2, Kind: labels.KindText, Text: "salut"},
			),
			want: `{"id":1,"text":"hello","label":"bonjour#salut","Comments":[]}`,
		},
		{
			name:   "bounding box",
			typ:    projects.BoundingBox,
			format: formatters.JSONL,
			rec: dataset.Record{
				ExampleID: 2, DataField: "filename", Data: "dog.png",
				Labels: []labels.Label{{ID: 1, Kind: labels.KindBoundingBox, Class: "dog", Box: &labels.Box{X: 1, Y: 2, Width: 3, Height: 4}}},
			},
			want: `{"id":2,"filename":"dog.png","bbox":[{"x":1,"y":2,"width":3,"height":4,"label":"dog"}],"Comments":[]}`,
		},
		{
			name:   "segmentation",
			typ:    projects.Segmentation,
			format: formatters.JSONL,
			rec: dataset.Record{
				ExampleID: 3, DataField: "filename", Data: "road.png",
				Labels: []labels.Label{{ID: 1, Kind: labels.KindSegmentation, Class: "road", Polygon: []labels.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}}},
			},
			want: `{"id":3,"filename":"road.png","segmentation":[{"points":[[0,0],[1,0],[1,1]],"label":"road"}],"Comments":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := apply(t, tt.typ, tt.format, tt.useRelation, tt.rec)
			assert.Equal(t, tt.want, encode(t, out))
		})
	}
}

func TestTokenTagger(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		spans []labels.Label
		tags  []string
	}{
		{
			name: "no spans",
			text: "a b c",
			tags: []string{"O", "O", "O"},
		},
		{
			name:  "multi token span",
			text:  "New York is big",
			spans: []labels.Label{span(1, 0, 8, "LOC")},
			tags:  []string{"B-LOC", "I-LOC", "O", "O"},
		},
		{
			name:  "overlap goes to the longer span",
			text:  "Alice Smith ran",
			spans: []labels.Label{span(1, 0, 5, "FIRST"), span(2, 0, 8, "PER")},
			tags:  []string{"B-PER", "I-PER", "O"},
		},
		{
			name:  "earlier start wins",
			text:  "one two three",
			spans: []labels.Label{span(1, 4, 13, "B"), span(2, 0, 7, "A")},
			tags:  []string{"B-A", "I-A", "O"},
		},
		{
			name:  "disjoint spans",
			text:  "Ann met Bob",
			spans: []labels.Label{span(1, 8, 11, "PER"), span(2, 0, 3, "PER")},
			tags:  []string{"B-PER", "O", "B-PER"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := apply(t, projects.SequenceLabeling, formatters.CoNLL, false, textRecord(tt.text, tt.spans...))

			tags, ok := out.Get("tags")
			require.True(t, ok)
			assert.Equal(t, tt.tags, tags)
			assert.False(t, out.Has("spans"))
			assert.False(t, out.Has("Comments"))
		})
	}
}

func TestInvalidSpanIsMalformed(t *testing.T) {
	tests := []struct {
		name string
		span labels.Label
	}{
		{"negative start", span(1, -1, 2, "X")},
		{"empty range", span(1, 2, 2, "X")},
		{"past end", span(1, 0, 50, "X")},
		{"no offsets", labels.Label{ID: 1, Kind: labels.KindSpan, Class: "X"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, f := range []formatters.Format{formatters.JSONL, formatters.CoNLL} {
				chain, err := formatters.Select(projects.SequenceLabeling, f, false)
				require.NoError(t, err)

				_, err = chain.Apply(textRecord("short text", tt.span))
				require.Error(t, err)
				assert.Equal(t, faults.KindMalformed, faults.KindOf(err))
			}
		})
	}
}

func TestSelectUnsupported(t *testing.T) {
	_, err := formatters.Select(projects.BoundingBox, formatters.CSV, false)
	assert.ErrorIs(t, err, formatters.ErrUnsupportedFormat)

	_, err = formatters.Select(projects.SequenceLabeling, formatters.CoNLL, true)
	assert.ErrorIs(t, err, formatters.ErrUnsupportedFormat)
}

func TestOptions(t *testing.T) {
	assert.Equal(t,
		[]formatters.Format{formatters.CSV, formatters.FastText, formatters.JSON, formatters.JSONL, formatters.XLSX},
		formatters.Options(projects.DocumentClassification, false),
	)
	assert.Equal(t, []formatters.Format{formatters.JSONL, formatters.JSON}, formatters.Options(projects.SequenceLabeling, true))
	assert.Empty(t, formatters.Options(projects.Type("Unknown"), false))
}

func TestRecordsStopsOnError(t *testing.T) {
	chain, err := formatters.Select(projects.SequenceLabeling, formatters.JSONL, false)
	require.NoError(t, err)

	seq := func(yield func(dataset.Record) bool) {
		for _, rec := range []dataset.Record{
			textRecord("fine"),
			textRecord("bad", span(1, 0, 99, "X")),
			textRecord("never reached"),
		} {
			if !yield(rec) {
				return
			}
		}
	}

	var (
		n    int
		last error
	)
	for _, err := range chain.Records(seq) {
		n++
		last = err
	}

	assert.Equal(t, 2, n)
	assert.Error(t, last)
}

package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/annex/internal/comments"
	"github.com/JaimeStill/annex/internal/dataset"
	"github.com/JaimeStill/annex/internal/examples"
	"github.com/JaimeStill/annex/internal/labels"
)

func collect(d *dataset.Dataset) []dataset.Record {
	var out []dataset.Record
	for r := range d.All() {
		out = append(out, r)
	}
	return out
}

func TestAll(t *testing.T) {
	exs := []examples.Example{
		{ID: 1, Text: "first", Meta: map[string]any{"source": "a"}},
		{ID: 2, Text: "second"},
	}
	ls := map[int64][]labels.Label{
		1: {{ID: 11, Kind: labels.KindCategory, ExampleID: 1, Class: "pos"}},
	}
	cs := map[int64][]comments.Comment{
		2: {{ID: 21, ExampleID: 2, Text: "unsure"}},
	}

	d := dataset.New(exs, ls, cs, true)
	records := collect(d)

	require.Len(t, records, 2)
	assert.Equal(t, 2, d.Len())

	assert.Equal(t, int64(1), records[0].ExampleID)
	assert.Equal(t, "text", records[0].DataField)
	assert.Equal(t, "first", records[0].Data)
	assert.Equal(t, "a", records[0].Meta["source"])
	assert.Len(t, records[0].Labels, 1)
	assert.NotNil(t, records[0].Comments)
	assert.Empty(t, records[0].Comments)

	assert.NotNil(t, records[1].Labels)
	assert.Empty(t, records[1].Labels)
	assert.NotNil(t, records[1].Meta)
	assert.Len(t, records[1].Comments, 1)
}

func TestAllMediaProject(t *testing.T) {
	exs := []examples.Example{{ID: 5, Text: "ignored", Filename: "media/cat.png"}}

	records := collect(dataset.New(exs, nil, nil, false))

	require.Len(t, records, 1)
	assert.Equal(t, "filename", records[0].DataField)
	assert.Equal(t, "media/cat.png", records[0].Data)
}

func TestAllRestartable(t *testing.T) {
	exs := []examples.Example{{ID: 1}, {ID: 2}, {ID: 3}}
	d := dataset.New(exs, nil, nil, true)

	assert.Equal(t, collect(d), collect(d))

	n := 0
	for range d.All() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
	assert.Len(t, collect(d), 3)
}

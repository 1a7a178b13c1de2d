package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquadex/aquadex/internal/catalog"
	"github.com/aquadex/aquadex/pkg/config"
)

func testFields() []config.Field {
	return []config.Field{
		{Name: "name", Weight: 5.0, Class: "name"},
		{Name: "temperament", Weight: 3.0, Class: "attribute"},
		{Name: "description", Weight: 1.0, Class: "text"},
	}
}

func testCorpus() []catalog.Record {
	return []catalog.Record{
		{
			"name":        "Siamese Betta",
			"temperament": "Aggressive",
			"description": "a solitary fish",
			"max_size":    7.0,
		},
		{
			"name":        "Neon Tetra",
			"temperament": "Peaceful",
			"description": "a peaceful schooling fish",
		},
		{
			"name":        "Tiger Barb",
			"temperament": "Semi-aggressive",
			"description": "peaceful only in large groups",
		},
	}
}

func TestBuildStatistics(t *testing.T) {
	snap := Build(testCorpus(), testFields())

	require.Equal(t, 3, snap.DocCount())
	require.Len(t, snap.DocLengths, 3)

	var total float64
	for _, l := range snap.DocLengths {
		assert.GreaterOrEqual(t, l, 0.0)
		total += l
	}
	assert.InDelta(t, total/3, snap.AvgDocLength, 1e-9)

	for term, docs := range snap.Postings {
		assert.GreaterOrEqual(t, len(docs), 1, "term %q has empty posting list", term)
		assert.LessOrEqual(t, len(docs), snap.DocCount(), "df(%q) exceeds doc count", term)
	}
}

func TestBuildWeightsAccumulate(t *testing.T) {
	// "peaceful" appears in doc 1 in both temperament (3.0) and description
	// (1.0): the posting weight is the sum of field weights, not a count.
	snap := Build(testCorpus(), testFields())

	docs, ok := snap.Postings["peaceful"]
	require.True(t, ok)
	p, ok := docs[1]
	require.True(t, ok)
	assert.InDelta(t, 4.0, p.Weight, 1e-9)
	assert.Equal(t, []string{"description", "temperament"}, p.MatchedFields())

	// Doc 2 only has it in the description.
	p, ok = docs[2]
	require.True(t, ok)
	assert.InDelta(t, 1.0, p.Weight, 1e-9)
	assert.Equal(t, []string{"description"}, p.MatchedFields())
}

func TestBuildPrefixTokens(t *testing.T) {
	snap := Build(testCorpus(), testFields())

	// Name-field prefix token for "betta".
	docs, ok := snap.Postings["bett"]
	require.True(t, ok)
	_, ok = docs[0]
	assert.True(t, ok)

	// Full multi-word name token.
	_, ok = snap.Postings["siamese betta"]
	assert.True(t, ok)
}

func TestBuildVocabularies(t *testing.T) {
	snap := Build(testCorpus(), testFields())

	assert.Equal(t, []string{"Siamese Betta", "Neon Tetra", "Tiger Barb"}, snap.Names)
	assert.Equal(t, []string{"siamese", "betta", "neon", "tetra", "tiger", "barb"}, snap.NameVocab)
	assert.Equal(t, []string{"Aggressive", "Peaceful", "Semi-aggressive"}, snap.AttributeValues)
}

func TestBuildSkipsMissingAndEmptyFields(t *testing.T) {
	corpus := []catalog.Record{
		{"name": "Guppy"},
		{"description": "   "},
	}
	snap := Build(corpus, testFields())
	require.Equal(t, 2, snap.DocCount())
	assert.Greater(t, snap.DocLengths[0], 0.0)
	assert.Equal(t, 0.0, snap.DocLengths[1])
}

func TestBuildEmptyCorpus(t *testing.T) {
	snap := Build(nil, testFields())
	assert.Equal(t, 0, snap.DocCount())
	assert.Equal(t, 0.0, snap.AvgDocLength)
	assert.Empty(t, snap.Postings)
}

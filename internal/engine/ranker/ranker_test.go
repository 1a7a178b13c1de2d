package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquadex/aquadex/internal/catalog"
	"github.com/aquadex/aquadex/internal/engine/index"
	"github.com/aquadex/aquadex/internal/engine/query"
	"github.com/aquadex/aquadex/internal/engine/synonyms"
	"github.com/aquadex/aquadex/pkg/config"
)

func testFields() []config.Field {
	return []config.Field{
		{Name: "name", Weight: 5.0, Class: "name"},
		{Name: "temperament", Weight: 3.0, Class: "attribute"},
		{Name: "description", Weight: 1.0, Class: "text"},
	}
}

func temperamentCorpus() []catalog.Record {
	return []catalog.Record{
		{
			"name":        "Celestial Pearl Danio",
			"temperament": "Peaceful",
			"description": "a peaceful schooling fish",
		},
		{
			"name":        "Red Devil Cichlid",
			"temperament": "Aggressive",
			"description": "rarely peaceful outside spawning",
		},
		{
			"name":        "Tiger Barb",
			"temperament": "Semi-aggressive",
			"description": "peaceful only in large groups",
		},
	}
}

// singleTermSnapshot builds a synthetic snapshot with one term so that BM25
// inputs can be controlled exactly.
func singleTermSnapshot(term string, weights map[int]float64, docLengths []float64) *index.Snapshot {
	docs := make(map[int]*index.Posting, len(weights))
	for docID, w := range weights {
		docs[docID] = &index.Posting{Weight: w, Fields: map[string]struct{}{"description": {}}}
	}
	var total float64
	for _, l := range docLengths {
		total += l
	}
	records := make([]catalog.Record, len(docLengths))
	for i := range records {
		records[i] = catalog.Record{}
	}
	return &index.Snapshot{
		Postings:     map[string]map[int]*index.Posting{term: docs},
		DocLengths:   docLengths,
		AvgDocLength: total / float64(len(docLengths)),
		Docs:         records,
	}
}

func TestScoreMonotonicInTermFrequency(t *testing.T) {
	// Same document length, increasing accumulated weight.
	table := synonyms.Default()
	prev := 0.0
	for _, tf := range []float64{0.5, 1, 2, 4, 8, 16} {
		snap := singleTermSnapshot("fish", map[int]float64{0: tf}, []float64{10, 10, 10})
		score := Score(snap, table, "fish", 0, false)
		assert.Greater(t, score, prev, "tf=%v", tf)
		prev = score
	}
}

func TestScoreNonIncreasingInDocumentFrequency(t *testing.T) {
	table := synonyms.Default()
	// df=1 of 3 docs vs df=3 of 3 docs, identical tf and lengths.
	rare := singleTermSnapshot("fish", map[int]float64{0: 2}, []float64{10, 10, 10})
	common := singleTermSnapshot("fish", map[int]float64{0: 2, 1: 2, 2: 2}, []float64{10, 10, 10})

	rareScore := Score(rare, table, "fish", 0, false)
	commonScore := Score(common, table, "fish", 0, false)
	assert.Greater(t, rareScore, commonScore)
}

func TestScoreAbsentTermIsZero(t *testing.T) {
	snap := singleTermSnapshot("fish", map[int]float64{0: 2}, []float64{10})
	assert.Equal(t, 0.0, Score(snap, synonyms.Default(), "shark", 0, false))
	assert.Equal(t, 0.0, Score(snap, synonyms.Default(), "fish", 5, false))
}

func TestScoreAttributeBoost(t *testing.T) {
	table := synonyms.Default()
	snap := singleTermSnapshot("peaceful", map[int]float64{0: 2}, []float64{10, 10})

	plain := Score(snap, table, "peaceful", 0, false)
	boosted := Score(snap, table, "peaceful", 0, true)
	assert.InDelta(t, plain*2, boosted, 1e-9)

	// Non-keyword terms are never boosted, attribute search or not.
	snap = singleTermSnapshot("gravel", map[int]float64{0: 2}, []float64{10, 10})
	assert.InDelta(t,
		Score(snap, table, "gravel", 0, false),
		Score(snap, table, "gravel", 0, true),
		1e-9,
	)
}

func TestRankTemperamentScenario(t *testing.T) {
	table := synonyms.Default()
	snap := index.Build(temperamentCorpus(), testFields())
	exp := query.Expand("peaceful", table)
	require.True(t, exp.AttributeSearch)

	results := Rank(snap, table, exp, 100, 0.01, "temperament")
	require.Len(t, results, 3, "all three records mention the term")

	assert.Equal(t, 0, results[0].DocID, "attribute-confirmed record ranks first")
	require.NotNil(t, results[0].TemperamentMatch)
	assert.True(t, *results[0].TemperamentMatch)
	for _, r := range results[1:] {
		require.NotNil(t, r.TemperamentMatch)
		assert.False(t, *r.TemperamentMatch)
	}
}

func TestRankTemperamentSubstringMatch(t *testing.T) {
	// "aggressive" must confirm both "Aggressive" and "Semi-aggressive":
	// the keyword is a substring of the normalized field.
	table := synonyms.Default()
	snap := index.Build(temperamentCorpus(), testFields())
	exp := query.Expand("aggressive", table)

	results := Rank(snap, table, exp, 100, 0.01, "temperament")
	require.NotEmpty(t, results)

	matched := make(map[int]bool)
	for _, r := range results {
		require.NotNil(t, r.TemperamentMatch)
		matched[r.DocID] = *r.TemperamentMatch
	}
	assert.False(t, matched[0])
	assert.True(t, matched[1])
	assert.True(t, matched[2])
}

func TestRankNoTemperamentFlagForPlainSearch(t *testing.T) {
	table := synonyms.Default()
	snap := index.Build(temperamentCorpus(), testFields())
	exp := query.Expand("tiger", table)
	require.False(t, exp.AttributeSearch)

	results := Rank(snap, table, exp, 100, 0.01, "temperament")
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Nil(t, r.TemperamentMatch)
	}
}

func TestRankMetadata(t *testing.T) {
	table := synonyms.Default()
	snap := index.Build(temperamentCorpus(), testFields())
	exp := query.Expand("tiger barb", table)

	results := Rank(snap, table, exp, 100, 0.01, "temperament")
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, 2, r.DocID)
	assert.Contains(t, r.MatchedTerms, "tiger")
	assert.Contains(t, r.MatchedTerms, "barb")
	assert.Contains(t, r.MatchedTerms, "tiger barb")
	assert.Equal(t, []string{"name"}, r.MatchedFields)
	assert.LessOrEqual(t, len(r.MatchedTerms), 10)
	assert.True(t, sortedStrings(r.MatchedTerms))
}

func TestRankMinScoreDropsWeakMatches(t *testing.T) {
	table := synonyms.Default()
	snap := index.Build(temperamentCorpus(), testFields())
	exp := query.Expand("peaceful", table)

	all := Rank(snap, table, exp, 100, 0.01, "temperament")
	require.NotEmpty(t, all)
	high := Rank(snap, table, exp, 100, all[0].Score+1, "temperament")
	assert.Less(t, len(high), len(all))
}

func TestRankLimit(t *testing.T) {
	table := synonyms.Default()
	snap := index.Build(temperamentCorpus(), testFields())
	exp := query.Expand("peaceful", table)

	results := Rank(snap, table, exp, 1, 0.01, "temperament")
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].DocID)
}

func TestRankScoreOrderWithinPartitions(t *testing.T) {
	table := synonyms.Default()
	snap := index.Build(temperamentCorpus(), testFields())
	exp := query.Expand("peaceful", table)

	results := Rank(snap, table, exp, 100, 0.01, "temperament")
	require.Len(t, results, 3)
	// Inside the unconfirmed partition, scores stay descending.
	assert.GreaterOrEqual(t, results[1].Score, results[2].Score)
}

func sortedStrings(ss []string) bool {
	for i := 1; i < len(ss); i++ {
		if ss[i-1] > ss[i] {
			return false
		}
	}
	return true
}

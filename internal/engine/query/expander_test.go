package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquadex/aquadex/internal/engine/synonyms"
)

func TestExpandAttributeKeyword(t *testing.T) {
	exp := Expand("peaceful", synonyms.Default())

	assert.True(t, exp.AttributeSearch)
	// The whole synonym group is expanded.
	for _, term := range []string{"peaceful", "calm", "docile", "gentle", "friendly", "community"} {
		assert.Contains(t, exp.Terms, term)
	}
	// Query-side prefixes include the full word, unlike the indexing side.
	for _, term := range []string{"pea", "peac", "peace", "peacef", "peacefu", "peaceful"} {
		assert.Contains(t, exp.Terms, term)
	}
}

func TestExpandSynonymTriggersAttributeSearch(t *testing.T) {
	exp := Expand("docile", synonyms.Default())
	assert.True(t, exp.AttributeSearch)
	assert.Contains(t, exp.Terms, "peaceful")
	assert.Contains(t, exp.Terms, "calm")
}

func TestExpandKeywordPrefix(t *testing.T) {
	// "peace" (>= 4 chars) is a prefix of the keyword "peaceful": the group
	// is expanded and the attribute flag set.
	exp := Expand("peace", synonyms.Default())
	assert.True(t, exp.AttributeSearch)
	assert.Contains(t, exp.Terms, "peaceful")
	assert.Contains(t, exp.Terms, "community")
}

func TestExpandSynonymPrefix(t *testing.T) {
	// "terri" is a prefix of the synonym "territorial".
	exp := Expand("terri", synonyms.Default())
	assert.True(t, exp.AttributeSearch)
	assert.Contains(t, exp.Terms, "aggressive")
	assert.Contains(t, exp.Terms, "hostile")
}

func TestExpandPlainQuery(t *testing.T) {
	exp := Expand("bett", synonyms.Default())
	assert.False(t, exp.AttributeSearch)
	assert.Contains(t, exp.Terms, "bett")
	assert.Contains(t, exp.Terms, "bet")
	assert.NotContains(t, exp.Terms, "peaceful")
}

func TestExpandMultiWordQuery(t *testing.T) {
	exp := Expand("Neon Tetra!", synonyms.Default())
	require.Equal(t, "neon tetra", exp.Normalized)
	assert.Contains(t, exp.Terms, "neon tetra", "full normalized query is a term")
	assert.Contains(t, exp.Terms, "neon")
	assert.Contains(t, exp.Terms, "tetra")
	assert.Contains(t, exp.Terms, "tet")
	assert.False(t, exp.AttributeSearch)
}

func TestExpandShortWordsNoPrefixes(t *testing.T) {
	exp := Expand("ox", synonyms.Default())
	assert.Contains(t, exp.Terms, "ox")
	assert.Len(t, exp.Terms, 1)
}

func TestExpandEmpty(t *testing.T) {
	exp := Expand("", synonyms.Default())
	assert.Empty(t, exp.Terms)
	assert.False(t, exp.AttributeSearch)
}

// Package query turns a raw query string into the expanded term set the
// ranker scores against: the original words, their prefixes, the full
// normalized phrase, and every synonym-group expansion the words touch.
package query

import (
	"strings"

	"github.com/aquadex/aquadex/internal/engine/synonyms"
	"github.com/aquadex/aquadex/internal/engine/tokenizer"
)

// Expansion is the result of expanding a raw query.
type Expansion struct {
	// Terms is the expanded term set matched against the index.
	Terms map[string]struct{}
	// AttributeSearch is true when the query targets a known attribute
	// dimension (a keyword, a synonym, or a prefix of one). It gates the
	// attribute scoring boost and the attribute-confirmed re-rank.
	AttributeSearch bool
	// Normalized is the normalized form of the raw query.
	Normalized string
	// Words are the normalized query words of length >= 2.
	Words []string
}

// Expand normalizes the query and produces its expanded term set.
//
// Unlike the indexing side, which stops prefixes one character short of the
// word, the query side generates prefixes up to and including the full word
// so that exact words always match their own index entries.
func Expand(raw string, table *synonyms.Table) Expansion {
	exp := Expansion{
		Terms:      make(map[string]struct{}),
		Normalized: tokenizer.Normalize(raw),
	}
	exp.Words = tokenizer.Words(raw)

	for _, w := range strings.Fields(exp.Normalized) {
		if exp.AttributeSearch {
			break
		}
		if table.IsKeyword(w) {
			exp.AttributeSearch = true
			break
		}
		if _, ok := table.Canonical(w); ok {
			exp.AttributeSearch = true
			break
		}
		if len(w) >= 4 {
			for _, keyword := range table.Canonicals() {
				if strings.HasPrefix(keyword, w) {
					exp.AttributeSearch = true
					break
				}
			}
		}
	}

	if len(exp.Words) >= 2 {
		exp.Terms[strings.Join(exp.Words, " ")] = struct{}{}
	}

	for _, w := range exp.Words {
		exp.Terms[w] = struct{}{}

		if canon, ok := table.Canonical(w); ok {
			for _, s := range table.Expansions(canon) {
				exp.Terms[s] = struct{}{}
			}
			exp.AttributeSearch = true
		}

		if len(w) >= 4 {
			for _, canon := range table.Canonicals() {
				if groupHasPrefix(table, canon, w) {
					for _, s := range table.Expansions(canon) {
						exp.Terms[s] = struct{}{}
					}
					exp.AttributeSearch = true
				}
			}
		}

		if len(w) >= 3 {
			for l := 3; l <= len(w); l++ {
				exp.Terms[w[:l]] = struct{}{}
			}
		}
	}
	return exp
}

// groupHasPrefix reports whether the canonical term or any of its synonyms
// starts with the given word.
func groupHasPrefix(table *synonyms.Table, canon, word string) bool {
	for _, s := range table.Expansions(canon) {
		if strings.HasPrefix(s, word) {
			return true
		}
	}
	return false
}

// Package autocomplete produces tiered prefix and contains suggestions over
// the attribute vocabulary, record names, and attribute field values, with
// typo corrections appended when suggestions run thin.
package autocomplete

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aquadex/aquadex/internal/engine/synonyms"
	"github.com/aquadex/aquadex/internal/engine/tokenizer"
	"github.com/aquadex/aquadex/internal/engine/typo"
)

// Suggestion tiers, lowest number = highest priority.
const (
	tierKeywordPrefix   = 1
	tierSynonymPrefix   = 2
	tierNamePrefix      = 3
	tierNameWordPrefix  = 4
	tierNameContains    = 5
	tierValuePrefix     = 6
	tierValueContains   = 7
	minSubstringQueryLn = 3
	maxCorrections      = 3
)

// Suggestions is the autocomplete response.
type Suggestions struct {
	Suggestions     []string          `json:"suggestions"`
	Corrections     []typo.Correction `json:"corrections"`
	Query           string            `json:"query"`
	SuggestionCount int               `json:"suggestion_count"`
	HasCorrections  bool              `json:"has_corrections"`
}

type candidate struct {
	text     string
	lower    string
	priority int
}

// Suggest builds the deduplicated, tier-ordered suggestion list for a query.
// names and values are the snapshot's record names and attribute field
// values; vocab feeds typo correction when fewer than 3 suggestions survive.
func Suggest(rawQuery string, limit int, table *synonyms.Table, names, values, vocab []string) Suggestions {
	out := Suggestions{
		Suggestions: []string{},
		Corrections: []typo.Correction{},
		Query:       rawQuery,
	}
	q := tokenizer.Normalize(rawQuery)
	if q == "" {
		return out
	}

	seen := make(map[string]struct{})
	var candidates []candidate
	add := func(text string, priority int) {
		lower := strings.ToLower(text)
		if _, dup := seen[lower]; dup {
			return
		}
		seen[lower] = struct{}{}
		candidates = append(candidates, candidate{text: text, lower: lower, priority: priority})
	}

	for _, keyword := range table.Canonicals() {
		if strings.HasPrefix(keyword, q) {
			add(keyword, tierKeywordPrefix)
		}
	}
	for _, syn := range table.Synonyms() {
		if strings.HasPrefix(syn, q) {
			add(syn, tierSynonymPrefix)
		}
	}
	for _, name := range names {
		lower := strings.ToLower(name)
		switch {
		case strings.HasPrefix(lower, q):
			add(name, tierNamePrefix)
		case len(q) >= minSubstringQueryLn && wordHasPrefix(lower, q):
			add(name, tierNameWordPrefix)
		case len(q) >= minSubstringQueryLn && strings.Contains(lower, q):
			add(name, tierNameContains)
		}
	}
	for _, value := range values {
		lower := strings.ToLower(value)
		switch {
		case strings.HasPrefix(lower, q):
			add(value, tierValuePrefix)
		case len(q) >= minSubstringQueryLn && strings.Contains(lower, q):
			add(value, tierValueContains)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		aPrefix, bPrefix := strings.HasPrefix(a.lower, q), strings.HasPrefix(b.lower, q)
		if aPrefix != bPrefix {
			return aPrefix
		}
		if len(a.text) != len(b.text) {
			return len(a.text) < len(b.text)
		}
		return a.lower < b.lower
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	for _, c := range candidates {
		out.Suggestions = append(out.Suggestions, c.text)
	}
	out.SuggestionCount = len(out.Suggestions)

	if out.SuggestionCount < 3 && len(q) >= minSubstringQueryLn {
		corrections := typo.Corrections(q, maxCorrections, vocab)
		for _, c := range corrections {
			c.Message = fmt.Sprintf("Did you mean %q?", c.Suggestion)
			out.Corrections = append(out.Corrections, c)
		}
		out.HasCorrections = len(out.Corrections) > 0
	}
	return out
}

// wordHasPrefix reports whether any word after the first in a multi-word
// text starts with the query, i.e. a whole-word prefix match inside a name.
func wordHasPrefix(text, q string) bool {
	words := strings.Fields(text)
	if len(words) < 2 {
		return false
	}
	for _, w := range words {
		if strings.HasPrefix(w, q) {
			return true
		}
	}
	return false
}

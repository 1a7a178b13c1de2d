// Package synonyms holds the static attribute vocabulary: the controlled
// set of attribute keywords and the bidirectional synonym table used for
// query expansion, scoring boosts, and autocomplete.
package synonyms

import "sort"

// defaultGroups maps each canonical attribute term to its synonyms. The
// canonical term is implicitly a member of its own group.
var defaultGroups = map[string][]string{
	"peaceful":   {"calm", "docile", "gentle", "friendly", "community"},
	"aggressive": {"hostile", "territorial", "fierce", "mean"},
	"hardy":      {"tough", "resilient", "robust"},
	"colorful":   {"vibrant", "bright", "colourful"},
	"active":     {"energetic", "lively", "playful"},
	"shy":        {"timid", "skittish", "reclusive"},
	"schooling":  {"shoaling", "social"},
	"carnivore":  {"carnivorous", "predator", "meaty"},
	"herbivore":  {"herbivorous", "grazer", "algae"},
	"omnivore":   {"omnivorous"},
	"easy":       {"beginner", "simple", "starter"},
	"moderate":   {"intermediate", "medium"},
	"difficult":  {"hard", "expert", "advanced", "challenging"},
}

// Table is a static bidirectional synonym mapping plus the attribute keyword
// set. It is immutable after construction and safe for concurrent use.
type Table struct {
	canonical  map[string]string   // synonym (including canonical) -> canonical
	expansions map[string][]string // canonical -> full group including itself
	keywords   map[string]struct{}
	canonicals []string // sorted
}

// Default returns the table built from the built-in attribute vocabulary.
func Default() *Table {
	return New(defaultGroups)
}

// New builds a Table from canonical -> synonyms groups. Every canonical term
// is an attribute keyword and a member of its own expansion list.
func New(groups map[string][]string) *Table {
	t := &Table{
		canonical:  make(map[string]string),
		expansions: make(map[string][]string, len(groups)),
		keywords:   make(map[string]struct{}, len(groups)),
		canonicals: make([]string, 0, len(groups)),
	}
	for canon, syns := range groups {
		group := make([]string, 0, len(syns)+1)
		group = append(group, canon)
		t.canonical[canon] = canon
		for _, s := range syns {
			group = append(group, s)
			t.canonical[s] = canon
		}
		t.expansions[canon] = group
		t.keywords[canon] = struct{}{}
		t.canonicals = append(t.canonicals, canon)
	}
	sort.Strings(t.canonicals)
	return t
}

// Canonical resolves a term (canonical or synonym) to its canonical form.
func (t *Table) Canonical(term string) (string, bool) {
	c, ok := t.canonical[term]
	return c, ok
}

// Expansions returns the full synonym group for a canonical term, including
// the canonical term itself. Callers must not mutate the returned slice.
func (t *Table) Expansions(canonical string) []string {
	return t.expansions[canonical]
}

// IsKeyword reports whether term is an attribute keyword (a canonical term).
func (t *Table) IsKeyword(term string) bool {
	_, ok := t.keywords[term]
	return ok
}

// Canonicals returns all canonical attribute terms in sorted order. Callers
// must not mutate the returned slice.
func (t *Table) Canonicals() []string {
	return t.canonicals
}

// Synonyms returns every non-canonical synonym in the table, sorted.
func (t *Table) Synonyms() []string {
	syns := make([]string, 0, len(t.canonical))
	for term, canon := range t.canonical {
		if term != canon {
			syns = append(syns, term)
		}
	}
	sort.Strings(syns)
	return syns
}

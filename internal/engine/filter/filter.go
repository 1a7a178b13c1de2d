// Package filter applies post-search structured filtering over ranked
// results. String filters match by normalized substring; numeric filters
// keep a result when the document's value does not exceed the bound, and
// never exclude documents missing the field.
package filter

import (
	"strings"

	"github.com/aquadex/aquadex/internal/catalog"
	"github.com/aquadex/aquadex/internal/engine/ranker"
	"github.com/aquadex/aquadex/internal/engine/tokenizer"
)

// Filters holds the optional post-search constraints. Nil or empty members
// are ignored.
type Filters struct {
	Temperament string   `json:"temperament,omitempty"`
	Diet        string   `json:"diet,omitempty"`
	CareLevel   string   `json:"care_level,omitempty"`
	MaxSize     *float64 `json:"max_size,omitempty"`
	MinTankSize *float64 `json:"min_tank_size,omitempty"`
}

// Empty reports whether no filter is set.
func (f Filters) Empty() bool {
	return f.Temperament == "" && f.Diet == "" && f.CareLevel == "" &&
		f.MaxSize == nil && f.MinTankSize == nil
}

// Apply returns the results that satisfy every set filter.
func Apply(results []ranker.Result, f Filters) []ranker.Result {
	if f.Empty() {
		return results
	}
	filtered := make([]ranker.Result, 0, len(results))
	for _, r := range results {
		if !matchString(r.Record, "temperament", f.Temperament) {
			continue
		}
		if !matchString(r.Record, "diet", f.Diet) {
			continue
		}
		if !matchString(r.Record, "care_level", f.CareLevel) {
			continue
		}
		if !matchNumberMax(r.Record, "max_size", f.MaxSize) {
			continue
		}
		if !matchNumberMax(r.Record, "min_tank_size", f.MinTankSize) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// matchString requires the normalized filter value to be a substring of the
// normalized document field.
func matchString(rec catalog.Record, field, want string) bool {
	if want == "" {
		return true
	}
	value, ok := rec.String(field)
	if !ok {
		return false
	}
	return strings.Contains(tokenizer.Normalize(value), tokenizer.Normalize(want))
}

// matchNumberMax keeps the record when the field is missing or non-numeric,
// and otherwise requires the value to not exceed the bound.
func matchNumberMax(rec catalog.Record, field string, bound *float64) bool {
	if bound == nil {
		return true
	}
	value, ok := rec.Number(field)
	if !ok {
		return true
	}
	return value <= *bound
}

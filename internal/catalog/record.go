// Package catalog defines the record model for the species catalog and the
// sources it can be loaded from (JSON file or Postgres). The catalog is the
// document source for the search engine: the host loads a full corpus and
// hands it to the engine for a full index rebuild.
package catalog

import (
	"strconv"
	"strings"
)

// Record is one catalog entry: a mapping from field name to a textual or
// numeric value. Records are treated as immutable once loaded; a catalog
// change produces a fresh corpus.
type Record map[string]any

// String returns the named field as a trimmed string. The second return is
// false when the field is absent, not textual, or empty.
func (r Record) String(field string) (string, bool) {
	v, ok := r[field]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// Number returns the named field as a float64. JSON decoding produces
// float64 for all numbers; numeric strings are parsed as a fallback for
// loosely typed sources. The second return is false when the field is
// absent or not numeric.
func (r Record) Number(field string) (float64, bool) {
	v, ok := r[field]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

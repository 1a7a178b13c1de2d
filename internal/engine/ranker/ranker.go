// Package ranker scores candidate documents with BM25 and assembles the
// ranked, metadata-annotated result list for a query.
package ranker

import (
	"math"
	"sort"
	"strings"

	"github.com/aquadex/aquadex/internal/catalog"
	"github.com/aquadex/aquadex/internal/engine/index"
	"github.com/aquadex/aquadex/internal/engine/query"
	"github.com/aquadex/aquadex/internal/engine/synonyms"
	"github.com/aquadex/aquadex/internal/engine/tokenizer"
)

// BM25 parameters and the attribute-keyword boost.
const (
	k1             = 1.5
	b              = 0.75
	attributeBoost = 2.0
	maxMatchedTerm = 10
)

// Result is one ranked document with its relevance metadata.
type Result struct {
	DocID         int            `json:"doc_id"`
	Record        catalog.Record `json:"record"`
	Score         float64        `json:"search_score"`
	MatchedTerms  []string       `json:"matched_terms"`
	MatchedFields []string       `json:"matched_fields"`
	// TemperamentMatch is set only for attribute searches: whether the
	// record's primary attribute field confirms the queried attribute.
	TemperamentMatch *bool `json:"temperament_match,omitempty"`
}

// Score computes the BM25 score of a term for one document. Returns 0 when
// the term has no posting for the document. For attribute searches, a term
// that is itself an attribute keyword gets a multiplicative boost.
func Score(snap *index.Snapshot, table *synonyms.Table, term string, docID int, attributeSearch bool) float64 {
	docs, ok := snap.Postings[term]
	if !ok {
		return 0
	}
	p, ok := docs[docID]
	if !ok {
		return 0
	}
	if snap.AvgDocLength == 0 {
		return 0
	}

	n := float64(snap.DocCount())
	df := float64(len(docs))
	idf := math.Log((n-df+0.5)/(df+0.5) + 1)

	tf := p.Weight
	lengthRatio := snap.DocLengths[docID] / snap.AvgDocLength
	score := idf * tf * (k1 + 1) / (tf + k1*(1-b+b*lengthRatio))

	if attributeSearch && table.IsKeyword(term) {
		score *= attributeBoost
	}
	return score
}

// Rank scores every document touched by the expanded term set and returns
// the ranked result list: scores accumulated across terms, documents below
// minScore dropped, results sorted by score, and — for attribute searches —
// attribute-confirmed documents partitioned ahead of the rest before the
// list is truncated to limit.
func Rank(snap *index.Snapshot, table *synonyms.Table, exp query.Expansion, limit int, minScore float64, primaryField string) []Result {
	scores := make(map[int]float64)
	matchedTerms := make(map[int][]string)
	matchedFields := make(map[int]map[string]struct{})

	for term := range exp.Terms {
		docs, ok := snap.Postings[term]
		if !ok {
			continue
		}
		for docID, posting := range docs {
			scores[docID] += Score(snap, table, term, docID, exp.AttributeSearch)
			matchedTerms[docID] = append(matchedTerms[docID], term)
			fields, ok := matchedFields[docID]
			if !ok {
				fields = make(map[string]struct{}, len(posting.Fields))
				matchedFields[docID] = fields
			}
			for f := range posting.Fields {
				fields[f] = struct{}{}
			}
		}
	}

	results := make([]Result, 0, len(scores))
	for docID, score := range scores {
		if score < minScore {
			continue
		}
		terms := matchedTerms[docID]
		sort.Strings(terms)
		if len(terms) > maxMatchedTerm {
			terms = terms[:maxMatchedTerm]
		}
		fields := make([]string, 0, len(matchedFields[docID]))
		for f := range matchedFields[docID] {
			fields = append(fields, f)
		}
		sort.Strings(fields)

		r := Result{
			DocID:         docID,
			Record:        snap.Docs[docID],
			Score:         math.Round(score*100) / 100,
			MatchedTerms:  terms,
			MatchedFields: fields,
		}
		if exp.AttributeSearch {
			match := attributeMatch(snap.Docs[docID], table, exp, primaryField)
			r.TemperamentMatch = &match
		}
		results = append(results, r)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID < results[j].DocID
	})

	if exp.AttributeSearch {
		// Stable partition: attribute-confirmed results first, score order
		// preserved inside each half.
		sort.SliceStable(results, func(i, j int) bool {
			return boolVal(results[i].TemperamentMatch) && !boolVal(results[j].TemperamentMatch)
		})
	}

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// attributeMatch tests whether any attribute-keyword term in the expanded
// set is a substring of the record's normalized primary attribute field, or
// vice versa.
func attributeMatch(rec catalog.Record, table *synonyms.Table, exp query.Expansion, primaryField string) bool {
	value, ok := rec.String(primaryField)
	if !ok {
		return false
	}
	normalized := tokenizer.Normalize(value)
	if normalized == "" {
		return false
	}
	for term := range exp.Terms {
		if !table.IsKeyword(term) {
			continue
		}
		if strings.Contains(normalized, term) || strings.Contains(term, normalized) {
			return true
		}
	}
	return false
}

func boolVal(b *bool) bool {
	return b != nil && *b
}

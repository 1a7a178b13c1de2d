// Package index builds the inverted index over the catalog corpus. A Build
// produces an immutable Snapshot: postings, document length statistics, and
// the derived vocabularies consumed by typo correction and autocomplete.
// Snapshots are never mutated after Build returns, so readers can share one
// without locking; the engine publishes new generations with an atomic
// pointer swap.
package index

import (
	"sort"
	"strings"

	"github.com/aquadex/aquadex/internal/catalog"
	"github.com/aquadex/aquadex/internal/engine/tokenizer"
	"github.com/aquadex/aquadex/pkg/config"
)

// Posting is one (term, document) entry. Weight is not a raw occurrence
// count: it accumulates the configured field weight for every field
// occurrence that produced the term. Fields records which fields
// contributed, so matched-field lookup at query time is O(1).
type Posting struct {
	Weight float64
	Fields map[string]struct{}
}

// MatchedFields returns the contributing field names, sorted.
func (p *Posting) MatchedFields() []string {
	fields := make([]string, 0, len(p.Fields))
	for f := range p.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Snapshot is one fully built index generation. Document ids are zero-based
// positions into Docs and are only meaningful within this generation.
type Snapshot struct {
	Postings     map[string]map[int]*Posting
	DocLengths   []float64
	AvgDocLength float64
	Docs         []catalog.Record
	Fields       []config.Field

	// Names holds the display value of each record's name-class fields,
	// deduplicated case-insensitively, in corpus order.
	Names []string
	// AttributeValues holds the distinct display values of attribute-class
	// fields, in corpus order.
	AttributeValues []string
	// NameVocab holds each distinct word of the name-class fields, first
	// occurrence only.
	NameVocab []string
}

// Build constructs a Snapshot from the corpus using the configured field
// weight table. It is a full rebuild: the result shares no state with any
// previous generation.
func Build(corpus []catalog.Record, fields []config.Field) *Snapshot {
	snap := &Snapshot{
		Postings:   make(map[string]map[int]*Posting),
		DocLengths: make([]float64, len(corpus)),
		Docs:       corpus,
		Fields:     fields,
	}

	seenNames := make(map[string]struct{})
	seenValues := make(map[string]struct{})
	seenVocab := make(map[string]struct{})
	var totalLength float64

	for docID, rec := range corpus {
		for _, field := range fields {
			value, ok := rec.String(field.Name)
			if !ok {
				continue
			}
			class := tokenizer.ClassFromString(field.Class)
			for token := range tokenizer.Preprocess(value, class) {
				docs, exists := snap.Postings[token]
				if !exists {
					docs = make(map[int]*Posting)
					snap.Postings[token] = docs
				}
				p, exists := docs[docID]
				if !exists {
					p = &Posting{Fields: make(map[string]struct{}, 1)}
					docs[docID] = p
				}
				p.Weight += field.Weight
				p.Fields[field.Name] = struct{}{}
				snap.DocLengths[docID] += field.Weight
			}

			switch class {
			case tokenizer.ClassName:
				if _, dup := seenNames[strings.ToLower(value)]; !dup {
					seenNames[strings.ToLower(value)] = struct{}{}
					snap.Names = append(snap.Names, value)
				}
				for _, w := range tokenizer.Words(value) {
					if _, dup := seenVocab[w]; dup {
						continue
					}
					seenVocab[w] = struct{}{}
					snap.NameVocab = append(snap.NameVocab, w)
				}
			case tokenizer.ClassAttribute:
				if _, dup := seenValues[strings.ToLower(value)]; !dup {
					seenValues[strings.ToLower(value)] = struct{}{}
					snap.AttributeValues = append(snap.AttributeValues, value)
				}
			}
		}
		totalLength += snap.DocLengths[docID]
	}

	if len(corpus) > 0 {
		snap.AvgDocLength = totalLength / float64(len(corpus))
	}
	return snap
}

// DocCount returns the number of documents in this generation.
func (s *Snapshot) DocCount() int {
	return len(s.Docs)
}

// TermCount returns the number of distinct terms in this generation.
func (s *Snapshot) TermCount() int {
	return len(s.Postings)
}

// DF returns the document frequency of a term.
func (s *Snapshot) DF(term string) int {
	return len(s.Postings[term])
}

// Package engine is the search core: it owns the current index generation,
// the attribute vocabulary, and the result cache, and exposes the four
// operations the host calls — BuildIndex, Search, Autocomplete, and
// FilterResults.
package engine

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aquadex/aquadex/internal/catalog"
	"github.com/aquadex/aquadex/internal/engine/autocomplete"
	"github.com/aquadex/aquadex/internal/engine/cache"
	"github.com/aquadex/aquadex/internal/engine/filter"
	"github.com/aquadex/aquadex/internal/engine/index"
	"github.com/aquadex/aquadex/internal/engine/query"
	"github.com/aquadex/aquadex/internal/engine/ranker"
	"github.com/aquadex/aquadex/internal/engine/synonyms"
	"github.com/aquadex/aquadex/internal/engine/typo"
	"github.com/aquadex/aquadex/pkg/config"
	apperrors "github.com/aquadex/aquadex/pkg/errors"
	"github.com/aquadex/aquadex/pkg/metrics"
)

// DefaultPrimaryAttributeField is the record field tested for
// attribute-confirmed matches on attribute searches.
const DefaultPrimaryAttributeField = "temperament"

// Engine is safe for concurrent use. Searches read one immutable snapshot
// for their whole lifetime; BuildIndex publishes a fully built replacement
// with an atomic pointer swap, so readers never observe a partial rebuild.
type Engine struct {
	fields       []config.Field
	table        *synonyms.Table
	primaryField string
	cache        *cache.ResultCache
	group        singleflight.Group
	snapshot     atomic.Pointer[index.Snapshot]
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithCacheTTL overrides the default 30 minute result cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.cache = cache.New(ttl)
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithPrimaryAttributeField overrides the field used for attribute-confirmed
// re-ranking.
func WithPrimaryAttributeField(field string) Option {
	return func(e *Engine) {
		e.primaryField = field
	}
}

// New creates an Engine over the given field weight table and attribute
// vocabulary. BuildIndex must be called before the first Search.
func New(fields []config.Field, table *synonyms.Table, opts ...Option) *Engine {
	e := &Engine{
		fields:       fields,
		table:        table,
		primaryField: DefaultPrimaryAttributeField,
		cache:        cache.New(30 * time.Minute),
		logger:       slog.Default().With("component", "search-engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BuildIndex replaces the current index generation with one built from the
// corpus. The previous generation's document ids become invalid, so the
// result cache is invalidated in the same step.
func (e *Engine) BuildIndex(corpus []catalog.Record) {
	start := time.Now()
	snap := index.Build(corpus, e.fields)
	e.snapshot.Store(snap)
	e.cache.Invalidate()

	if e.metrics != nil {
		e.metrics.IndexRebuildsTotal.WithLabelValues("ok").Inc()
		e.metrics.IndexedDocuments.Set(float64(snap.DocCount()))
		e.metrics.IndexedTerms.Set(float64(snap.TermCount()))
	}
	e.logger.Info("index rebuilt",
		"docs", snap.DocCount(),
		"terms", snap.TermCount(),
		"avg_doc_length", snap.AvgDocLength,
		"took", time.Since(start),
	)
}

// Search runs a ranked query. Empty queries and an empty corpus yield an
// empty list, not an error; searching before any BuildIndex returns
// ErrIndexNotBuilt. Concurrent identical queries are collapsed into one
// computation.
func (e *Engine) Search(rawQuery string, limit int, minScore float64) ([]ranker.Result, error) {
	snap := e.snapshot.Load()
	if snap == nil {
		return nil, apperrors.ErrIndexNotBuilt
	}
	if strings.TrimSpace(rawQuery) == "" || snap.DocCount() == 0 {
		return []ranker.Result{}, nil
	}

	start := time.Now()
	if results, ok := e.cache.Get(rawQuery, limit, minScore); ok {
		e.observeSearch(results, true, start)
		return results, nil
	}

	flightKey := fmt.Sprintf("%s|%d|%g", strings.ToLower(rawQuery), limit, minScore)
	v, err, _ := e.group.Do(flightKey, func() (any, error) {
		if results, ok := e.cache.Get(rawQuery, limit, minScore); ok {
			return results, nil
		}
		exp := query.Expand(rawQuery, e.table)
		results := ranker.Rank(snap, e.table, exp, limit, minScore, e.primaryField)
		e.cache.Set(rawQuery, limit, minScore, results)
		e.logger.Debug("search executed",
			"query", rawQuery,
			"expanded_terms", len(exp.Terms),
			"attribute_search", exp.AttributeSearch,
			"results", len(results),
		)
		return results, nil
	})
	if err != nil {
		if e.metrics != nil {
			e.metrics.SearchQueriesTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}
	results := v.([]ranker.Result)
	e.observeSearch(results, false, start)
	return results, nil
}

// Autocomplete returns tiered suggestions for a partial query, with typo
// corrections when suggestions run thin. An empty index yields an empty
// response rather than an error.
func (e *Engine) Autocomplete(rawQuery string, limit int) autocomplete.Suggestions {
	snap := e.snapshot.Load()
	if snap == nil {
		return autocomplete.Suggestions{
			Suggestions: []string{},
			Corrections: []typo.Correction{},
			Query:       rawQuery,
		}
	}
	out := autocomplete.Suggest(rawQuery, limit, e.table,
		snap.Names, snap.AttributeValues, e.correctionVocab(snap))
	if e.metrics != nil {
		switch {
		case out.SuggestionCount > 0:
			e.metrics.AutocompleteTotal.WithLabelValues("suggestions").Inc()
		case out.HasCorrections:
			e.metrics.AutocompleteTotal.WithLabelValues("corrections").Inc()
		default:
			e.metrics.AutocompleteTotal.WithLabelValues("empty").Inc()
		}
	}
	return out
}

// Corrections computes typo corrections for a query against the attribute
// keywords and the corpus name vocabulary.
func (e *Engine) Corrections(rawQuery string, max int) []typo.Correction {
	snap := e.snapshot.Load()
	if snap == nil {
		return nil
	}
	return typo.Corrections(strings.ToLower(strings.TrimSpace(rawQuery)), max, e.correctionVocab(snap))
}

// FilterResults applies post-search structured filters to a result list.
func (e *Engine) FilterResults(results []ranker.Result, f filter.Filters) []ranker.Result {
	return filter.Apply(results, f)
}

// Snapshot returns the current index generation, or nil before the first
// BuildIndex. Exposed for health checks and diagnostics.
func (e *Engine) Snapshot() *index.Snapshot {
	return e.snapshot.Load()
}

// correctionVocab is the attribute keyword set followed by the corpus name
// vocabulary, keyword matches winning ties.
func (e *Engine) correctionVocab(snap *index.Snapshot) []string {
	vocab := make([]string, 0, len(e.table.Canonicals())+len(snap.NameVocab))
	vocab = append(vocab, e.table.Canonicals()...)
	vocab = append(vocab, snap.NameVocab...)
	return vocab
}

func (e *Engine) observeSearch(results []ranker.Result, cacheHit bool, start time.Time) {
	if e.metrics == nil {
		return
	}
	status := "miss"
	if cacheHit {
		status = "hit"
		e.metrics.CacheHitsTotal.Inc()
	} else {
		e.metrics.CacheMissesTotal.Inc()
	}
	e.metrics.SearchLatency.WithLabelValues(status).Observe(time.Since(start).Seconds())
	e.metrics.SearchResultsCount.Observe(float64(len(results)))
	if len(results) == 0 {
		e.metrics.SearchQueriesTotal.WithLabelValues("zero_result").Inc()
	} else {
		e.metrics.SearchQueriesTotal.WithLabelValues("hit").Inc()
	}
}

// Package server exposes the search engine over HTTP: ranked search with
// optional post-search filters, autocomplete, and an operational reindex
// endpoint. It is a thin transport layer; all ranking semantics live in the
// engine.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aquadex/aquadex/internal/engine"
	"github.com/aquadex/aquadex/internal/engine/filter"
	"github.com/aquadex/aquadex/internal/engine/ranker"
	"github.com/aquadex/aquadex/pkg/config"
	apperrors "github.com/aquadex/aquadex/pkg/errors"
	"github.com/aquadex/aquadex/pkg/logger"
)

// SearchResponse is the /search payload.
type SearchResponse struct {
	Query   string          `json:"query"`
	Total   int             `json:"total"`
	Results []ranker.Result `json:"results"`
}

// Handler serves the search API.
type Handler struct {
	engine  *engine.Engine
	cfg     config.SearchConfig
	rebuild func(ctx context.Context) error
	logger  *slog.Logger
}

// New creates a Handler. rebuild reloads the catalog and rebuilds the index;
// it may be nil to disable the reindex endpoint.
func New(eng *engine.Engine, cfg config.SearchConfig, rebuild func(ctx context.Context) error) *Handler {
	return &Handler{
		engine:  eng,
		cfg:     cfg,
		rebuild: rebuild,
		logger:  slog.Default().With("component", "search-handler"),
	}
}

// Register attaches all routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/autocomplete", h.Autocomplete)
	if h.rebuild != nil {
		mux.HandleFunc("POST /api/v1/reindex", h.Reindex)
	}
}

// Search handles GET /api/v1/search?q=...&limit=...&min_score=... plus the
// optional filter parameters temperament, diet, care_level, max_size, and
// min_tank_size.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := logger.FromContext(r.Context())

	q := r.URL.Query()
	rawQuery := q.Get("q")

	limit := h.cfg.DefaultLimit
	if v := q.Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if parsed > h.cfg.MaxResults {
			parsed = h.cfg.MaxResults
		}
		limit = parsed
	}

	minScore := h.cfg.MinScore
	if v := q.Get("min_score"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			h.writeError(w, http.StatusBadRequest, "min_score must be a non-negative number")
			return
		}
		minScore = parsed
	}

	filters, err := parseFilters(q)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.engine.Search(rawQuery, limit, minScore)
	if err != nil {
		log.Error("search failed", "query", rawQuery, "error", err)
		h.writeError(w, apperrors.HTTPStatusCode(err), "search failed")
		return
	}
	results = h.engine.FilterResults(results, filters)

	log.Info("search completed",
		"query", rawQuery,
		"returned", len(results),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	h.writeJSON(w, http.StatusOK, SearchResponse{
		Query:   rawQuery,
		Total:   len(results),
		Results: results,
	})
}

// Autocomplete handles GET /api/v1/autocomplete?q=...&limit=...
func (h *Handler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := h.cfg.AutocompleteLimit
	if v := q.Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	h.writeJSON(w, http.StatusOK, h.engine.Autocomplete(q.Get("q"), limit))
}

// Reindex handles POST /api/v1/reindex: reload the catalog and swap in a
// fresh index generation.
func (h *Handler) Reindex(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	if err := h.rebuild(r.Context()); err != nil {
		log.Error("reindex failed", "error", err)
		h.writeError(w, apperrors.HTTPStatusCode(err), "reindex failed")
		return
	}
	snap := h.engine.Snapshot()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"documents": snap.DocCount(),
		"terms":     snap.TermCount(),
	})
}

func parseFilters(q map[string][]string) (filter.Filters, error) {
	get := func(key string) string {
		if vs := q[key]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}
	f := filter.Filters{
		Temperament: get("temperament"),
		Diet:        get("diet"),
		CareLevel:   get("care_level"),
	}
	for key, dst := range map[string]**float64{
		"max_size":      &f.MaxSize,
		"min_tank_size": &f.MinTankSize,
	} {
		v := get(key)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter.Filters{}, errors.New(key + " must be a number")
		}
		*dst = &parsed
	}
	return f, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

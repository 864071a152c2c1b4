// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"toilanguoisaigon/internal/app"
	"toilanguoisaigon/internal/domain"
)

type Handlers struct {
	Crawl  *app.CrawlService
	Enrich *app.EnrichService
	Cache  domain.Cache

	// One ingestion run at a time; the dedup sets are preloaded per run
	// and concurrent runs would race each other in the database.
	busy atomic.Bool

	// Upper bound on a background run kicked off over HTTP.
	RunTimeout time.Duration
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type crawlRunRequest struct {
	Queries    []string `json:"queries,omitempty"`
	QueryCount int      `json:"query_count,omitempty"`
	DryRun     bool     `json:"dry_run,omitempty"`
}

type enrichRunRequest struct {
	BatchSize int  `json:"batch_size,omitempty"`
	DryRun    bool `json:"dry_run,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/runs/crawl", h.startCrawl)
	s.mux.Post("/v1/runs/enrich", h.startEnrich)
	s.mux.Get("/v1/runs/latest", h.latestRun)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func (h *Handlers) runTimeout() time.Duration {
	if h.RunTimeout > 0 {
		return h.RunTimeout
	}
	return 30 * time.Minute
}

func (h *Handlers) startCrawl(w http.ResponseWriter, r *http.Request) {
	var req crawlRunRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be JSON")
			return
		}
	}

	if !h.busy.CompareAndSwap(false, true) {
		writeProblem(w, http.StatusConflict, "Run in progress", "another run is already in progress")
		return
	}

	params := app.CrawlParams{
		Queries:    app.Explicit(req.Queries),
		QueryCount: req.QueryCount,
		DryRun:     req.DryRun,
	}
	go func() {
		defer h.busy.Store(false)
		ctx, cancel := context.WithTimeout(context.Background(), h.runTimeout())
		defer cancel()
		if _, err := h.Crawl.Run(ctx, params); err != nil {
			log.Error().Err(err).Msg("crawl run failed to start")
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status": "accepted",
		"mode":   "crawl",
	})
}

func (h *Handlers) startEnrich(w http.ResponseWriter, r *http.Request) {
	var req enrichRunRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be JSON")
			return
		}
	}

	if !h.busy.CompareAndSwap(false, true) {
		writeProblem(w, http.StatusConflict, "Run in progress", "another run is already in progress")
		return
	}

	go func() {
		defer h.busy.Store(false)
		ctx, cancel := context.WithTimeout(context.Background(), h.runTimeout())
		defer cancel()
		sum, err := h.Enrich.Run(ctx, req.BatchSize, req.DryRun)
		if err != nil {
			log.Error().Err(err).Msg("enrich run failed to start")
			return
		}
		if h.Cache != nil && !req.DryRun {
			_ = h.Cache.Set(ctx, app.LatestRunKey(sum.Mode), sum, 0)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status": "accepted",
		"mode":   "enrich",
	})
}

func (h *Handlers) latestRun(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = "crawl"
	}
	if mode != "crawl" && mode != "enrich" {
		writeProblem(w, http.StatusBadRequest, "Invalid mode", "mode must be crawl or enrich")
		return
	}
	if h.Cache == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "no run recorded")
		return
	}

	var sum domain.RunSummary
	ok, err := h.Cache.Get(r.Context(), app.LatestRunKey(mode), &sum)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Cache error", err.Error())
		return
	}
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "no run recorded")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

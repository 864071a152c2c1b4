package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"toilanguoisaigon/internal/adapters/observability"
	"toilanguoisaigon/internal/domain"
)

// CrawlService drives the discovery pipeline: query -> grounded
// generation -> JSON recovery -> per-candidate normalize, classify,
// dedupe, persist. Every per-query and per-candidate failure is isolated
// and recorded; only a preload failure stops a run before it starts.
type CrawlService struct {
	provider   domain.Grounder
	repo       domain.LocationRepository
	classifier *Classifier
	norm       Normalizer
	sched      *Scheduler
	cache      domain.Cache // optional; latest-summary + query rotation

	Workers        int
	RecentQueryTTL time.Duration
}

func NewCrawlService(p domain.Grounder, r domain.LocationRepository, c *Classifier, n Normalizer, s *Scheduler, cache domain.Cache) *CrawlService {
	return &CrawlService{
		provider:   p,
		repo:       r,
		classifier: c,
		norm:       n,
		sched:      s,
		cache:      cache,
		Workers:    1,
	}
}

type CrawlParams struct {
	Queries    []domain.EnrichmentQuery // explicit mode; nil samples from the pool
	QueryCount int
	DryRun     bool
	Seed       int64 // fixed sampling order when non-zero
}

// LatestRunKey is the cache slot holding the most recent finished
// summary for a mode ("crawl" or "enrich").
func LatestRunKey(mode string) string { return "runs:latest:" + mode }

// Run executes one crawl batch and always returns a summary. The error is
// non-nil only when the run could not start (identity or taxonomy preload
// failed); per-item failures live in the summary.
func (s *CrawlService) Run(ctx context.Context, p CrawlParams) (domain.RunSummary, error) {
	sum := domain.RunSummary{
		RunID:     ulid.Make().String(),
		Mode:      "crawl",
		DryRun:    p.DryRun,
		StartedAt: time.Now().UTC(),
	}

	slugs, placeIDs, err := s.repo.ListIdentities(ctx)
	if err != nil {
		sum.AddError("preload identities: " + err.Error())
		sum.FinishedAt = time.Now().UTC()
		return sum, fmt.Errorf("preload identities: %w", err)
	}
	dedup := NewDeduplicator(slugs, placeIDs)

	tax, err := s.repo.TaxonomyIDs(ctx)
	if err != nil {
		sum.AddError("preload taxonomy: " + err.Error())
		sum.FinishedAt = time.Now().UTC()
		return sum, fmt.Errorf("preload taxonomy: %w", err)
	}

	queries := p.Queries
	if len(queries) == 0 {
		seed := p.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		n := p.QueryCount
		if n <= 0 {
			n = 3
		}
		queries = s.sched.Sample(ctx, rand.New(rand.NewSource(seed)), n)
	}
	for _, q := range queries {
		sum.QueriesUsed = append(sum.QueriesUsed, q.Text)
	}

	var mu sync.Mutex // guards sum + dedup inserts happen under dedup's own lock
	workers := s.Workers
	if workers < 1 {
		workers = 1
	}

	if workers == 1 {
		for _, q := range queries {
			s.runQuery(ctx, q, dedup, tax, p.DryRun, &mu, &sum)
		}
	} else {
		sem := semaphore.NewWeighted(int64(workers))
		var wg sync.WaitGroup
		for _, q := range queries {
			if err := sem.Acquire(ctx, 1); err != nil {
				break // ctx canceled: stop issuing new work
			}
			wg.Add(1)
			go func(q domain.EnrichmentQuery) {
				defer wg.Done()
				defer sem.Release(1)
				s.runQuery(ctx, q, dedup, tax, p.DryRun, &mu, &sum)
			}(q)
		}
		wg.Wait()
	}

	if !p.DryRun {
		ttl := int(s.RecentQueryTTL.Seconds())
		if ttl <= 0 {
			ttl = int((72 * time.Hour).Seconds())
		}
		s.sched.MarkUsed(ctx, queries, ttl)
	}

	sum.FinishedAt = time.Now().UTC()
	if s.cache != nil && !p.DryRun {
		_ = s.cache.Set(ctx, LatestRunKey(sum.Mode), sum, 0)
	}
	log.Info().
		Str("run_id", sum.RunID).
		Int("queries", sum.QueriesRun).
		Int("found", sum.Found).
		Int("new", sum.New).
		Int("duplicate", sum.Duplicate).
		Int("errors", sum.ErrorCount).
		Bool("dry_run", sum.DryRun).
		Msg("crawl run finished")
	return sum, nil
}

func (s *CrawlService) runQuery(ctx context.Context, q domain.EnrichmentQuery, dedup *Deduplicator, tax domain.TaxonomyIDs, dryRun bool, mu *sync.Mutex, sum *domain.RunSummary) {
	mu.Lock()
	sum.QueriesRun++
	mu.Unlock()

	log.Info().Str("query", q.Text).Str("source", string(q.Source)).Msg("crawl query")

	res, err := s.provider.Generate(ctx, domain.GroundingRequest{
		Prompt:      crawlPrompt(q.Text),
		Temperature: 0.3,
		MaxTokens:   8192,
	})
	if err != nil {
		observability.ObserveCrawlItem("query", "provider_error")
		mu.Lock()
		sum.AddError(fmt.Sprintf("query %q: %v", q.Text, err))
		mu.Unlock()
		return
	}

	objs, err := ExtractObjects(res.Text)
	if err != nil {
		// Keep the raw text around for manual inspection; the skip itself
		// is not fatal.
		if errors.Is(err, domain.ErrExtraction) && !dryRun {
			if lerr := s.repo.LogExtractionFailure(ctx, q.Text, res.Text); lerr != nil {
				log.Warn().Err(lerr).Str("query", q.Text).Msg("diagnostic sink write failed")
			}
		}
		observability.ObserveCrawlItem("query", "extraction_error")
		mu.Lock()
		sum.AddError(fmt.Sprintf("query %q: %v", q.Text, err))
		mu.Unlock()
		return
	}

	mu.Lock()
	sum.Found += len(objs)
	mu.Unlock()

	for _, raw := range objs {
		s.processCandidate(ctx, raw, res.Citations, dedup, tax, dryRun, mu, sum)
	}
}

func (s *CrawlService) processCandidate(ctx context.Context, raw map[string]any, cits []domain.MapsCitation, dedup *Deduplicator, tax domain.TaxonomyIDs, dryRun bool, mu *sync.Mutex, sum *domain.RunSummary) {
	rec := s.norm.Normalize(raw)
	if rec.Name == "" {
		return
	}

	var placeID string
	if c := MatchCitation(rec.Name, cits); c != nil {
		if c.PlaceID != "" {
			placeID = c.PlaceID
			rec.GooglePlaceID = &c.PlaceID
		}
		if c.URI != "" {
			rec.GoogleMapsURI = &c.URI
		}
	}

	if dedup.Seen(rec.Slug, placeID) {
		observability.ObserveCrawlItem("candidate", "duplicate")
		mu.Lock()
		sum.Duplicate++
		mu.Unlock()
		return
	}

	categories := s.classifier.Categories(rec.Name)
	desc := ""
	if rec.Description != nil {
		desc = *rec.Description
	}
	tags := s.classifier.Tags(rec.Name, desc)
	collections := s.classifier.Collections(categories, tags, rec.Name, rec.PriceRange, rec.GoogleRating)

	if dryRun {
		dedup.Remember(rec.Slug, placeID)
		mu.Lock()
		sum.New++
		sum.CategoriesAssigned += len(categories)
		sum.TagsAssigned += len(tags)
		sum.CollectionsAssigned += len(collections)
		mu.Unlock()
		log.Info().Str("name", rec.Name).Str("slug", rec.Slug).Bool("dry_run", true).Msg("would insert")
		return
	}

	id, err := s.repo.InsertLocation(ctx, rec)
	if err != nil {
		observability.ObserveCrawlItem("candidate", "persistence_error")
		mu.Lock()
		sum.AddError(fmt.Sprintf("insert %q: %v", rec.Name, err))
		mu.Unlock()
		return
	}
	dedup.Remember(rec.Slug, placeID)
	observability.ObserveCrawlItem("candidate", "inserted")

	mu.Lock()
	sum.New++
	mu.Unlock()

	// Membership edges are idempotent and best effort: a failed edge is
	// recorded, the record stays.
	for _, slug := range categories {
		if catID, ok := tax.Categories[slug]; ok {
			if err := s.repo.AddCategory(ctx, id, catID); err != nil {
				mu.Lock()
				sum.AddError(fmt.Sprintf("category %s for %q: %v", slug, rec.Name, err))
				mu.Unlock()
				continue
			}
			mu.Lock()
			sum.CategoriesAssigned++
			mu.Unlock()
		}
	}
	for _, slug := range tags {
		if tagID, ok := tax.Tags[slug]; ok {
			if err := s.repo.AddTag(ctx, id, tagID); err != nil {
				mu.Lock()
				sum.AddError(fmt.Sprintf("tag %s for %q: %v", slug, rec.Name, err))
				mu.Unlock()
				continue
			}
			mu.Lock()
			sum.TagsAssigned++
			mu.Unlock()
		}
	}
	for _, slug := range collections {
		if collID, ok := tax.Collections[slug]; ok {
			if err := s.repo.AddCollection(ctx, id, collID); err != nil {
				mu.Lock()
				sum.AddError(fmt.Sprintf("collection %s for %q: %v", slug, rec.Name, err))
				mu.Unlock()
				continue
			}
			mu.Lock()
			sum.CollectionsAssigned++
			mu.Unlock()
		}
	}

	log.Info().
		Str("name", rec.Name).
		Str("slug", rec.Slug).
		Int("categories", len(categories)).
		Int("tags", len(tags)).
		Int("collections", len(collections)).
		Msg("location inserted")
}

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"toilanguoisaigon/internal/adapters/observability"
	"toilanguoisaigon/internal/domain"
)

// EnrichService backfills missing provider data on stored records. One
// grounded call per record; the resulting patch only ever fills columns
// that are currently NULL, so re-running it is harmless.
type EnrichService struct {
	provider domain.Grounder
	repo     domain.LocationRepository
	norm     Normalizer
}

func NewEnrichService(p domain.Grounder, r domain.LocationRepository, n Normalizer) *EnrichService {
	return &EnrichService{provider: p, repo: r, norm: n}
}

// Run enriches up to batch records. The error is non-nil only when the
// candidate list could not be loaded.
func (s *EnrichService) Run(ctx context.Context, batch int, dryRun bool) (domain.RunSummary, error) {
	sum := domain.RunSummary{
		RunID:     ulid.Make().String(),
		Mode:      "enrich",
		DryRun:    dryRun,
		StartedAt: time.Now().UTC(),
	}
	if batch <= 0 {
		batch = 10
	}

	locs, err := s.repo.ListNeedingEnrichment(ctx, batch)
	if err != nil {
		sum.AddError("list candidates: " + err.Error())
		sum.FinishedAt = time.Now().UTC()
		return sum, fmt.Errorf("list candidates: %w", err)
	}
	if len(locs) == 0 {
		log.Info().Msg("nothing to enrich")
		sum.FinishedAt = time.Now().UTC()
		return sum, nil
	}

	for _, loc := range locs {
		s.enrichOne(ctx, loc, dryRun, &sum)
	}

	sum.FinishedAt = time.Now().UTC()
	log.Info().
		Str("run_id", sum.RunID).
		Int("records", sum.QueriesRun).
		Int("updated", sum.New).
		Int("unchanged", sum.Unchanged).
		Int("errors", sum.ErrorCount).
		Bool("dry_run", dryRun).
		Msg("enrich run finished")
	return sum, nil
}

func (s *EnrichService) enrichOne(ctx context.Context, loc domain.LocationRecord, dryRun bool, sum *domain.RunSummary) {
	sum.QueriesRun++
	log.Info().Str("name", loc.Name).Str("district", loc.District).Msg("enriching")

	res, err := s.provider.Generate(ctx, domain.GroundingRequest{
		Prompt:      enrichPrompt(loc.Name, loc.Address, loc.District),
		Temperature: 0.1,
		MaxTokens:   2048,
	})
	if err != nil {
		observability.ObserveEnrichItem("provider_error")
		sum.AddError(fmt.Sprintf("enrich %q: %v", loc.Name, err))
		return
	}

	objs, err := ExtractObjects(res.Text)
	if err != nil {
		if !dryRun {
			if lerr := s.repo.LogExtractionFailure(ctx, "enrich:"+loc.Slug, res.Text); lerr != nil {
				log.Warn().Err(lerr).Str("slug", loc.Slug).Msg("diagnostic sink write failed")
			}
		}
		observability.ObserveEnrichItem("extraction_error")
		sum.AddError(fmt.Sprintf("enrich %q: %v", loc.Name, err))
		return
	}
	if len(objs) == 0 {
		observability.ObserveEnrichItem("not_found")
		sum.AddError(fmt.Sprintf("enrich %q: empty response", loc.Name))
		return
	}
	raw := objs[0]
	sum.Found++

	if found, ok := raw["found"].(bool); ok && !found {
		observability.ObserveEnrichItem("not_found")
		sum.AddError(fmt.Sprintf("enrich %q: not found on maps", loc.Name))
		return
	}

	cand := s.norm.Normalize(raw)
	// The single-record prompt pins the place, so the first maps citation
	// is the match; crawl-style title matching is not needed here.
	if len(res.Citations) > 0 {
		c := res.Citations[0]
		if c.PlaceID != "" {
			cand.GooglePlaceID = &c.PlaceID
		}
		if c.URI != "" {
			cand.GoogleMapsURI = &c.URI
		}
	}

	patch := BuildPatch(loc, cand)
	if len(patch) == 0 {
		observability.ObserveEnrichItem("unchanged")
		sum.Unchanged++
		return
	}

	if dryRun {
		observability.ObserveEnrichItem("would_update")
		sum.New++
		log.Info().Str("name", loc.Name).Int("fields", len(patch)).Bool("dry_run", true).Msg("would update")
		return
	}

	if err := s.repo.UpdateLocation(ctx, loc.ID, patch); err != nil {
		observability.ObserveEnrichItem("persistence_error")
		sum.AddError(fmt.Sprintf("update %q: %v", loc.Name, err))
		return
	}
	observability.ObserveEnrichItem("updated")
	sum.New++
	log.Info().Str("name", loc.Name).Int("fields", len(patch)).Msg("location enriched")
}

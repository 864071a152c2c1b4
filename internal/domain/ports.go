package domain

import "context"

// TaxonomyIDs maps category/tag/collection slugs to their row ids,
// preloaded once per run so membership inserts don't need lookups.
type TaxonomyIDs struct {
	Categories  map[string]int64
	Tags        map[string]int64
	Collections map[string]int64
}

type LocationRepository interface {
	// Write paths
	InsertLocation(ctx context.Context, rec LocationRecord) (int64, error)
	UpdateLocation(ctx context.Context, id int64, patch Patch) error
	AddCategory(ctx context.Context, locationID, categoryID int64) error
	AddTag(ctx context.Context, locationID, tagID int64) error
	AddCollection(ctx context.Context, locationID, collectionID int64) error
	LogExtractionFailure(ctx context.Context, query, raw string) error

	// Read paths
	ListIdentities(ctx context.Context) (slugs []string, placeIDs []string, err error)
	TaxonomyIDs(ctx context.Context) (TaxonomyIDs, error)
	ListNeedingEnrichment(ctx context.Context, limit int) ([]LocationRecord, error)
}

// GroundingRequest is one generation call against the maps-grounded model.
type GroundingRequest struct {
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// GroundingResult carries the concatenated text parts plus any maps
// citations the provider attached.
type GroundingResult struct {
	Text      string
	Citations []MapsCitation
}

type Grounder interface {
	Generate(ctx context.Context, req GroundingRequest) (GroundingResult, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error

	// Set-membership used for query rotation across runs.
	MarkRecent(ctx context.Context, key string, members []string, ttlSec int) error
	IsRecent(ctx context.Context, key, member string) (bool, error)
}

package domain

// Record lifecycle. Promotion out of draft happens in the admin app,
// never in this service.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusRejected  = "rejected"
)

// PriceRanges are the only accepted price literals; anything else
// normalizes to NULL.
var PriceRanges = []string{"$", "$$", "$$$", "$$$$"}

func ValidPriceRange(s string) bool {
	for _, p := range PriceRanges {
		if s == p {
			return true
		}
	}
	return false
}

// LocationRecord mirrors a row of the locations table. Pointer fields are
// nullable columns; Lat/Lng are set together or not at all.
type LocationRecord struct {
	ID                  int64
	Name                string
	Slug                string
	Address             string
	District            string
	Description         *string
	Phone               *string
	PriceRange          *string
	OpeningHours        map[string]string
	Lat                 *float64
	Lng                 *float64
	GoogleRating        *float64
	GoogleReviewCount   *int64
	GoogleReviewSummary *string
	GoogleHighlights    []string
	GooglePlaceID       *string
	GoogleMapsURI       *string
	Status              string
	AverageRating       float64
	ReviewCount         int64
}

// Patch is a partial update: column name -> new value. Built by the merge
// step so it only ever contains columns that are NULL on the stored row.
type Patch map[string]any

// MapsCitation is one grounding chunk from the provider: a place the model
// actually looked at while answering.
type MapsCitation struct {
	Title   string
	URI     string
	PlaceID string
}

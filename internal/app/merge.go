package app

import "toilanguoisaigon/internal/domain"

// BuildPatch computes the enrichment update for a stored record: only
// columns that are NULL on current and non-null on the candidate make it
// into the patch. A field the store already has is never overwritten by
// this pipeline, so applying the same enrichment twice yields an empty
// second patch. Pure function.
func BuildPatch(current, cand domain.LocationRecord) domain.Patch {
	patch := domain.Patch{}

	if current.GoogleRating == nil && cand.GoogleRating != nil {
		patch["google_rating"] = *cand.GoogleRating
		patch["average_rating"] = *cand.GoogleRating
		if cand.GoogleReviewCount != nil {
			patch["google_review_count"] = *cand.GoogleReviewCount
		}
	}
	if current.GoogleReviewSummary == nil && cand.GoogleReviewSummary != nil {
		patch["google_review_summary"] = *cand.GoogleReviewSummary
	}
	if current.GoogleHighlights == nil && cand.GoogleHighlights != nil {
		patch["google_highlights"] = cand.GoogleHighlights
	}
	if current.Lat == nil && cand.Lat != nil && cand.Lng != nil {
		patch["latitude"] = *cand.Lat
		patch["longitude"] = *cand.Lng
	}
	if current.PriceRange == nil && cand.PriceRange != nil {
		patch["price_range"] = *cand.PriceRange
	}
	if current.Phone == nil && cand.Phone != nil {
		patch["phone_number"] = *cand.Phone
	}
	if current.OpeningHours == nil && cand.OpeningHours != nil {
		patch["opening_hours"] = cand.OpeningHours
	}
	if current.Description == nil && cand.Description != nil && len(*cand.Description) > 20 {
		patch["description"] = *cand.Description
	}
	if current.GoogleMapsURI == nil && cand.GoogleMapsURI != nil {
		patch["google_maps_uri"] = *cand.GoogleMapsURI
	}
	if current.GooglePlaceID == nil && cand.GooglePlaceID != nil {
		patch["google_place_id"] = *cand.GooglePlaceID
	}

	return patch
}

package app_test

import (
	"testing"

	"toilanguoisaigon/internal/app"
	"toilanguoisaigon/internal/domain"
)

func pint64(v int64) *int64 { return &v }

func TestBuildPatch_FillsOnlyNullFields(t *testing.T) {
	current := domain.LocationRecord{
		Name:       "Phở Lệ",
		Slug:       "pho-le",
		PriceRange: pstr("$$"), // already known, must never change
	}
	cand := domain.LocationRecord{
		GoogleRating:        pfloat(4.4),
		GoogleReviewCount:   pint64(2300),
		GoogleReviewSummary: pstr("Nước dùng ngọt thanh, phục vụ nhanh."),
		PriceRange:          pstr("$"),
		Phone:               pstr("028 1234 5678"),
		Lat:                 pfloat(10.75),
		Lng:                 pfloat(106.66),
		Description:         pstr("Quán phở gốc Hoa nổi tiếng ở khu Chợ Lớn."),
		GoogleMapsURI:       pstr("https://maps.google.com/?cid=42"),
		GooglePlaceID:       pstr("place-42"),
		OpeningHours:        map[string]string{"monday": "06:00-22:00"},
		GoogleHighlights:    []string{"nước dùng"},
	}

	patch := app.BuildPatch(current, cand)

	if _, ok := patch["price_range"]; ok {
		t.Fatal("existing price_range overwritten")
	}
	if patch["google_rating"] != 4.4 || patch["average_rating"] != 4.4 {
		t.Fatalf("rating not mirrored: %+v", patch)
	}
	if patch["google_review_count"] != int64(2300) {
		t.Fatalf("review count: %v", patch["google_review_count"])
	}
	if patch["latitude"] != 10.75 || patch["longitude"] != 106.66 {
		t.Fatalf("coords: %+v", patch)
	}
	if patch["description"] == nil {
		t.Fatal("description dropped")
	}
	if patch["google_place_id"] != "place-42" {
		t.Fatalf("place id: %v", patch["google_place_id"])
	}
}

func TestBuildPatch_ShortDescriptionIgnored(t *testing.T) {
	cand := domain.LocationRecord{Description: pstr("Quán ngon.")}
	patch := app.BuildPatch(domain.LocationRecord{}, cand)
	if _, ok := patch["description"]; ok {
		t.Fatal("short description made it into the patch")
	}
}

func TestBuildPatch_CoordsOnlyTogether(t *testing.T) {
	cand := domain.LocationRecord{Lat: pfloat(10.7)}
	patch := app.BuildPatch(domain.LocationRecord{}, cand)
	if _, ok := patch["latitude"]; ok {
		t.Fatal("lone latitude patched")
	}
}

func TestBuildPatch_SecondPassIsEmpty(t *testing.T) {
	cand := domain.LocationRecord{
		GoogleRating:        pfloat(4.4),
		GoogleReviewSummary: pstr("Nước dùng ngọt thanh, phục vụ nhanh."),
		Lat:                 pfloat(10.75),
		Lng:                 pfloat(106.66),
		PriceRange:          pstr("$"),
		Phone:               pstr("028 1234 5678"),
		OpeningHours:        map[string]string{"monday": "06:00-22:00"},
		Description:         pstr("Quán phở gốc Hoa nổi tiếng ở khu Chợ Lớn."),
		GoogleMapsURI:       pstr("https://maps.google.com/?cid=42"),
		GooglePlaceID:       pstr("place-42"),
		GoogleHighlights:    []string{"nước dùng"},
	}

	// After the first enrichment the stored record carries the candidate's
	// values, so the same candidate again produces nothing to write.
	first := app.BuildPatch(domain.LocationRecord{}, cand)
	if len(first) == 0 {
		t.Fatal("first patch empty")
	}
	second := app.BuildPatch(cand, cand)
	if len(second) != 0 {
		t.Fatalf("second patch not empty: %+v", second)
	}
}

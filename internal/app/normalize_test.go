package app_test

import (
	"testing"

	"toilanguoisaigon/internal/app"
	"toilanguoisaigon/internal/domain"
	"toilanguoisaigon/internal/shared"
)

var testBox = shared.Bounds{MinLat: 8, MaxLat: 13, MinLng: 104, MaxLng: 110}

func TestNormalize_FullObject(t *testing.T) {
	n := app.Normalizer{Box: testBox}
	rec := n.Normalize(map[string]any{
		"name":                  "Phở Hòa Pasteur",
		"address":               "260C Pasteur",
		"district":              "Quận 3",
		"description":           "Quán phở lâu đời nổi tiếng với nước dùng thanh.",
		"phone_number":          "028 3829 7943",
		"price_range":           "$$",
		"latitude":              10.7831,
		"longitude":             106.6899,
		"google_rating":         4.2,
		"google_review_count":   float64(5100),
		"google_review_summary": "Khách khen nước dùng đậm đà và bánh phở mềm.",
		"google_highlights":     []any{" nước dùng ", "x", "không gian rộng"},
		"opening_hours":         map[string]any{"monday": "06:00-22:00", "junk": 1},
	})

	if rec.Slug != "pho-hoa-pasteur" {
		t.Fatalf("slug = %q", rec.Slug)
	}
	if rec.Status != domain.StatusDraft {
		t.Fatalf("status = %q", rec.Status)
	}
	if rec.PriceRange == nil || *rec.PriceRange != "$$" {
		t.Fatalf("price = %v", rec.PriceRange)
	}
	if rec.Lat == nil || rec.Lng == nil || *rec.Lat != 10.7831 {
		t.Fatalf("coords dropped: %v %v", rec.Lat, rec.Lng)
	}
	if rec.GoogleRating == nil || *rec.GoogleRating != 4.2 || rec.AverageRating != 4.2 {
		t.Fatalf("rating: %v avg %v", rec.GoogleRating, rec.AverageRating)
	}
	if rec.GoogleReviewCount == nil || *rec.GoogleReviewCount != 5100 {
		t.Fatalf("review count: %v", rec.GoogleReviewCount)
	}
	if rec.GoogleReviewSummary == nil {
		t.Fatal("summary dropped")
	}
	// "x" is a single rune, filtered
	if len(rec.GoogleHighlights) != 2 || rec.GoogleHighlights[0] != "nước dùng" {
		t.Fatalf("highlights: %v", rec.GoogleHighlights)
	}
	if len(rec.OpeningHours) != 1 || rec.OpeningHours["monday"] != "06:00-22:00" {
		t.Fatalf("hours: %v", rec.OpeningHours)
	}
}

func TestNormalize_RejectsBadShapes(t *testing.T) {
	n := app.Normalizer{Box: testBox}
	rec := n.Normalize(map[string]any{
		"name":                  "Quán Thử",
		"price_range":           "rẻ",
		"latitude":              21.0278, // Hanoi, outside the operating box
		"longitude":             105.8342,
		"google_rating":         "bốn sao",
		"google_review_summary": "Không có thông tin đánh giá.",
		"opening_hours":         []any{"06:00"},
	})
	if rec.PriceRange != nil {
		t.Fatalf("price kept: %v", *rec.PriceRange)
	}
	if rec.Lat != nil || rec.Lng != nil {
		t.Fatal("out-of-box coords kept")
	}
	if rec.GoogleRating != nil {
		t.Fatal("non-numeric rating kept")
	}
	if rec.GoogleReviewSummary != nil {
		t.Fatal("junk summary kept")
	}
	if rec.OpeningHours != nil {
		t.Fatal("array opening_hours kept")
	}
}

func TestNormalize_LoneCoordinateDropped(t *testing.T) {
	n := app.Normalizer{Box: testBox}
	rec := n.Normalize(map[string]any{"name": "X Quán", "latitude": 10.5})
	if rec.Lat != nil || rec.Lng != nil {
		t.Fatal("lone latitude kept")
	}
}

func TestNormalize_QuotedNumbers(t *testing.T) {
	n := app.Normalizer{Box: testBox}
	rec := n.Normalize(map[string]any{
		"name":      "Quán Dấu Phẩy",
		"latitude":  "10,7769",
		"longitude": "106.7009",
	})
	if rec.Lat == nil || *rec.Lat != 10.7769 {
		t.Fatalf("comma decimal not parsed: %v", rec.Lat)
	}
	if rec.Lng == nil || *rec.Lng != 106.7009 {
		t.Fatalf("lng: %v", rec.Lng)
	}
}

func TestMatchCitation(t *testing.T) {
	cits := []domain.MapsCitation{
		{Title: "Phở Lệ", PlaceID: "p1"},
		{Title: "Phở Lệ Quận 5", PlaceID: "p2"},
	}

	// record name contains citation title: first pass, first match wins
	if c := app.MatchCitation("Phở Lệ Nguyễn Trãi", cits); c == nil || c.PlaceID != "p1" {
		t.Fatalf("first pass: %+v", c)
	}
	// citation title contains record name: second pass
	if c := app.MatchCitation("Lệ Quận 5", cits); c == nil || c.PlaceID != "p2" {
		t.Fatalf("second pass: %+v", c)
	}
	if c := app.MatchCitation("Bún Đậu Cô Ba", cits); c != nil {
		t.Fatalf("expected no match, got %+v", c)
	}
	if c := app.MatchCitation("", cits); c != nil {
		t.Fatal("empty name matched")
	}
}

package app

import (
	"strconv"
	"strings"

	"toilanguoisaigon/internal/domain"
	"toilanguoisaigon/internal/shared"
)

// Normalizer turns one raw JSON object from the model into a typed
// candidate record. Fields of unexpected shape are coerced to null here;
// nothing loosely typed propagates past this boundary.
type Normalizer struct {
	Box shared.Bounds
}

func (n Normalizer) Normalize(raw map[string]any) domain.LocationRecord {
	rec := domain.LocationRecord{
		Name:     getString(raw, "name"),
		Address:  getString(raw, "address"),
		District: getString(raw, "district"),
		Status:   domain.StatusDraft,
	}
	rec.Slug = domain.Slugify(rec.Name)

	if d := strings.TrimSpace(getString(raw, "description")); d != "" {
		rec.Description = &d
	}
	if p := strings.TrimSpace(getString(raw, "phone_number")); p != "" {
		rec.Phone = &p
	}
	if pr := getString(raw, "price_range"); domain.ValidPriceRange(pr) {
		rec.PriceRange = &pr
	}

	// Coordinates only count when both are numbers inside the operating
	// box; a lone or out-of-range value means the model guessed.
	lat, latOK := getFloat(raw, "latitude")
	lng, lngOK := getFloat(raw, "longitude")
	if latOK && lngOK && n.Box.Contains(lat, lng) {
		rec.Lat, rec.Lng = &lat, &lng
	}

	if hours := asStringMap(raw["opening_hours"]); len(hours) > 0 {
		rec.OpeningHours = hours
	}
	if f, ok := getFloat(raw, "google_rating"); ok {
		rec.GoogleRating = &f
		rec.AverageRating = f
	}
	if v, ok := getInt64(raw, "google_review_count"); ok {
		rec.GoogleReviewCount = &v
	}
	rec.GoogleReviewSummary = CleanText(getString(raw, "google_review_summary"))
	rec.GoogleHighlights = cleanHighlights(raw["google_highlights"])

	return rec
}

// MatchCitation correlates a record to a maps grounding chunk by
// case-insensitive substring in either direction. First match wins.
func MatchCitation(name string, cits []domain.MapsCitation) *domain.MapsCitation {
	lower := strings.ToLower(name)
	if lower == "" {
		return nil
	}
	for i := range cits {
		t := strings.ToLower(cits[i].Title)
		if t != "" && strings.Contains(lower, t) {
			return &cits[i]
		}
	}
	for i := range cits {
		t := strings.ToLower(cits[i].Title)
		if t != "" && strings.Contains(t, lower) {
			return &cits[i]
		}
	}
	return nil
}

/********** loose-shape helpers **********/

func getString(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// getFloat accepts float64/int and numeric strings (the model sometimes
// quotes numbers, with either decimal separator).
func getFloat(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		if s == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func getInt64(m map[string]any, key string) (int64, bool) {
	if f, ok := getFloat(m, key); ok {
		return int64(f), true
	}
	return 0, false
}

// asStringMap accepts only a plain key-value object; arrays and
// primitives yield nil. Non-string values inside the object are dropped.
func asStringMap(v any) map[string]string {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(obj))
	for k, val := range obj {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func cleanHighlights(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, it := range raw {
		if s, ok := it.(string); ok {
			if t := strings.TrimSpace(s); len(t) > 1 {
				out = append(out, t)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

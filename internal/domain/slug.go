package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives the unique URL-safe identifier for a location name.
// Vietnamese diacritics are folded (phở -> pho, đ -> d), everything
// non-alphanumeric collapses to single dashes.
func Slugify(name string) string {
	s := strings.ReplaceAll(name, "đ", "d")
	s = strings.ReplaceAll(s, "Đ", "D")
	if folded, _, err := transform.String(diacriticStripper, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	prevDash := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash && b.Len() > 0 {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

package app

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// The model sometimes "answers" with a polite shrug instead of data, in
// either Vietnamese or English. Any summary matching one of these is junk.
var junkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)không\s*(được\s*)?cung\s*cấp`),
	regexp.MustCompile(`(?i)không\s*có\s*thông\s*tin`),
	regexp.MustCompile(`(?i)chưa\s*có\s*(thông\s*tin|review|đánh\s*giá)`),
	regexp.MustCompile(`(?i)không\s*có\s*dữ\s*liệu`),
	regexp.MustCompile(`(?i)không\s*tìm\s*thấy`),
	regexp.MustCompile(`(?i)no\s*review`),
	regexp.MustCompile(`(?i)not\s*(available|provided)`),
	regexp.MustCompile(`(?i)n/a`),
}

// CleanText trims s and returns nil for anything too short to be a real
// summary or matching a no-data boilerplate pattern. Pure function.
func CleanText(s string) *string {
	t := strings.TrimSpace(s)
	if utf8.RuneCountInString(t) < 10 {
		return nil
	}
	for _, p := range junkPatterns {
		if p.MatchString(t) {
			return nil
		}
	}
	return &t
}

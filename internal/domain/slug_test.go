package domain_test

import (
	"testing"

	"toilanguoisaigon/internal/domain"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Phở Hòa Pasteur", "pho-hoa-pasteur"},
		{"Bánh Mì Huỳnh Hoa!!!", "banh-mi-huynh-hoa"},
		{"Quán Ăn Đệ Nhất", "quan-an-de-nhat"},
		{"Cơm Tấm  Ba   Ghiền", "com-tam-ba-ghien"},
		{"Ốc Đào - Quận 4", "oc-dao-quan-4"},
		{"  CAFE 1985  ", "cafe-1985"},
		{"", ""},
	}
	for _, c := range cases {
		if got := domain.Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSlugify_Stable(t *testing.T) {
	// The slug is a dedup identity; it must not vary between calls.
	in := "Bún Bò Huế Đông Ba"
	if a, b := domain.Slugify(in), domain.Slugify(in); a != b {
		t.Fatalf("unstable slug: %q vs %q", a, b)
	}
}

func TestValidPriceRange(t *testing.T) {
	for _, ok := range []string{"$", "$$", "$$$", "$$$$"} {
		if !domain.ValidPriceRange(ok) {
			t.Errorf("ValidPriceRange(%q) = false", ok)
		}
	}
	for _, bad := range []string{"", "$$$$$", "cheap", "50k", "$ "} {
		if domain.ValidPriceRange(bad) {
			t.Errorf("ValidPriceRange(%q) = true", bad)
		}
	}
}

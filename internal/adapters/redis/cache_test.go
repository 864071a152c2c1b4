package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "toilanguoisaigon/internal/adapters/redis"
	"toilanguoisaigon/internal/domain"
)

func newTestCache(t *testing.T) *redisad.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.New(mr.Addr(), "", 0)
}

func TestCache_SetGetRoundtrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	in := domain.RunSummary{RunID: "01TEST", Mode: "crawl", New: 3}
	if err := c.Set(ctx, "runs:latest:crawl", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out domain.RunSummary
	ok, err := c.Get(ctx, "runs:latest:crawl", &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if out.RunID != "01TEST" || out.New != 3 {
		t.Fatalf("unexpected summary: %+v", out)
	}

	ok, _ = c.Get(ctx, "missing", &out)
	if ok {
		t.Fatalf("expected miss for absent key")
	}
}

func TestCache_RecentQuerySet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.MarkRecent(ctx, "crawl:recent_queries", []string{"q1", "q2"}, 3600); err != nil {
		t.Fatalf("mark: %v", err)
	}

	for _, tc := range []struct {
		member string
		want   bool
	}{
		{"q1", true},
		{"q2", true},
		{"q3", false},
	} {
		got, err := c.IsRecent(ctx, "crawl:recent_queries", tc.member)
		if err != nil {
			t.Fatalf("isrecent %s: %v", tc.member, err)
		}
		if got != tc.want {
			t.Fatalf("isrecent %s = %v, want %v", tc.member, got, tc.want)
		}
	}
}

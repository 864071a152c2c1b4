package app

import (
	"bufio"
	"context"
	"io"
	"math/rand"
	"strings"

	"toilanguoisaigon/internal/domain"
)

// QueryPool is the fixed rotating set of discovery searches. Each run
// samples a handful so consecutive runs cover different corners of the
// city instead of re-crawling the same thing daily.
var QueryPool = []string{
	// By food type
	"quán phở ngon mới mở Sài Gòn",
	"bún bò Huế ngon quận 1 quận 3",
	"cơm tấm ngon nhất Sài Gòn 2025",
	"bánh mì ngon Sài Gòn",
	"quán cà phê mới mở đẹp Sài Gòn",
	"quán ốc hải sản ngon Sài Gòn",
	"quán lẩu nướng ngon giá rẻ Sài Gòn",
	"quán chè ngon truyền thống Sài Gòn",
	"hủ tiếu Nam Vang ngon Sài Gòn",
	"quán chay ngon Sài Gòn",
	"quán nhậu bình dân ngon Sài Gòn",
	"bánh canh cua ngon Sài Gòn",
	"quán cháo ngon khuya Sài Gòn",
	"xôi ngon buổi sáng Sài Gòn",
	"quán kem gelato ngon Sài Gòn",
	"trà sữa ngon Sài Gòn",
	// By district
	"quán ăn ngon quận Bình Thạnh",
	"quán ăn ngon quận Phú Nhuận",
	"quán ăn ngon Thủ Đức",
	"quán ăn ngon quận 7",
	"quán ăn ngon quận Tân Bình",
	"quán ăn ngon quận Gò Vấp",
	"quán ăn ngon quận 2 Thảo Điền",
	"quán ăn ngon quận 5 Chợ Lớn",
	"quán ăn ngon quận 10",
	"quán ăn ngon quận 4 vỉa hè",
	// By style / occasion
	"nhà hàng fine dining mới Sài Gòn",
	"quán ăn vỉa hè đánh giá cao Sài Gòn",
	"quán cà phê rooftop view đẹp Sài Gòn",
	"quán ăn gia đình cuối tuần Sài Gòn",
	"quán ăn khuya 24h Sài Gòn",
	"quán ăn sáng ngon bổ rẻ Sài Gòn",
	"quán brunch mới mở Sài Gòn",
	"quán nướng BBQ Hàn Quốc Sài Gòn",
	"quán ăn Nhật ngon Sài Gòn",
	"quán ăn Thái ngon Sài Gòn",
	"pizza pasta ngon Sài Gòn",
	"quán pet friendly Sài Gòn",
	"quán có phòng riêng Sài Gòn",
	"quán live music Sài Gòn",
}

// Scheduler decides which queries a crawl run executes. Pool mode samples
// without replacement; explicit mode takes whatever the caller supplied.
// The cache remembers recently-run pool queries across runs so the pool
// actually rotates.
type Scheduler struct {
	Pool  []string
	Cache domain.Cache // optional
}

const recentQueriesKey = "crawl:recent_queries"

// Sample picks up to n distinct pool queries, preferring ones the cache
// has not seen recently. The rng is injected so tests can fix the order.
func (s *Scheduler) Sample(ctx context.Context, rng *rand.Rand, n int) []domain.EnrichmentQuery {
	if n <= 0 || len(s.Pool) == 0 {
		return nil
	}
	idx := rng.Perm(len(s.Pool))

	fresh := make([]string, 0, n)
	var stale []string
	for _, i := range idx {
		q := s.Pool[i]
		if s.Cache != nil {
			if recent, err := s.Cache.IsRecent(ctx, recentQueriesKey, q); err == nil && recent {
				stale = append(stale, q)
				continue
			}
		}
		fresh = append(fresh, q)
		if len(fresh) == n {
			break
		}
	}
	// Pool exhausted: fall back to recently-used queries rather than
	// running a short batch.
	for _, q := range stale {
		if len(fresh) == n {
			break
		}
		fresh = append(fresh, q)
	}

	out := make([]domain.EnrichmentQuery, 0, len(fresh))
	for _, q := range fresh {
		out = append(out, domain.EnrichmentQuery{Text: q, Source: domain.QueryFromPool})
	}
	return out
}

// MarkUsed records executed pool queries so the next run rotates past them.
func (s *Scheduler) MarkUsed(ctx context.Context, queries []domain.EnrichmentQuery, ttlSec int) {
	if s.Cache == nil {
		return
	}
	var members []string
	for _, q := range queries {
		if q.Source == domain.QueryFromPool {
			members = append(members, q.Text)
		}
	}
	if len(members) > 0 {
		_ = s.Cache.MarkRecent(ctx, recentQueriesKey, members, ttlSec)
	}
}

// Explicit wraps caller-supplied query strings, dropping empties.
func Explicit(texts []string) []domain.EnrichmentQuery {
	out := make([]domain.EnrichmentQuery, 0, len(texts))
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, domain.EnrichmentQuery{Text: t, Source: domain.QueryFromExplicit})
		}
	}
	return out
}

// ReadQueries parses a query file: one query per line, blank lines and
// #-comments ignored.
func ReadQueries(r io.Reader) ([]domain.EnrichmentQuery, error) {
	var out []domain.EnrichmentQuery
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, domain.EnrichmentQuery{Text: line, Source: domain.QueryFromExplicit})
	}
	return out, sc.Err()
}

package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"toilanguoisaigon/internal/adapters/observability"
)

// Cache backs two small concerns: the latest run summary (JSON values)
// and the recently-run query set that makes the crawl pool rotate.
type Cache struct{ c *redis.Client }

func New(addr, pass string, db int) *Cache {
	return &Cache{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveCache("redis", "hit")
	return true, json.Unmarshal(v, dst)
}

func (r *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, _ := json.Marshal(v)
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, key, b, time.Duration(ttlSec)*time.Second).Err()
}

func (r *Cache) Del(ctx context.Context, key string) error {
	observability.ObserveCache("redis", "del")
	return r.c.Del(ctx, key).Err()
}

// MarkRecent adds members to a rotation set and refreshes its TTL so the
// whole set ages out together.
func (r *Cache) MarkRecent(ctx context.Context, key string, members []string, ttlSec int) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]any, len(members))
	for i, m := range members {
		args[i] = m
	}
	if err := r.c.SAdd(ctx, key, args...).Err(); err != nil {
		return err
	}
	observability.ObserveCache("redis", "set")
	if ttlSec > 0 {
		return r.c.Expire(ctx, key, time.Duration(ttlSec)*time.Second).Err()
	}
	return nil
}

func (r *Cache) IsRecent(ctx context.Context, key, member string) (bool, error) {
	ok, err := r.c.SIsMember(ctx, key, member).Result()
	if err != nil {
		return false, err
	}
	if ok {
		observability.ObserveCache("redis", "hit")
	} else {
		observability.ObserveCache("redis", "miss")
	}
	return ok, nil
}

// Package redisad is an optional response-cache backend for
// multi-process deployments. Entries expire by TTL; eviction order is
// left to the Redis server's maxmemory policy.
package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"bistro_finder/internal/adapters/observability"
	"bistro_finder/internal/domain"
)

const keyPrefix = "rec:"

type Cache struct {
	c   *redis.Client
	ttl time.Duration
}

func New(addr, pass string, db int, ttl time.Duration) *Cache {
	return &Cache{
		c:   redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		ttl: ttl,
	}
}

func (r *Cache) Get(ctx context.Context, key string) (domain.Recommendation, bool, error) {
	v, err := r.c.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		observability.ObserveCache("redis", "miss")
		return domain.Recommendation{}, false, nil
	}
	if err != nil {
		return domain.Recommendation{}, false, err
	}
	var out domain.Recommendation
	if err := json.Unmarshal(v, &out); err != nil {
		return domain.Recommendation{}, false, err
	}
	observability.ObserveCache("redis", "hit")
	return out, true, nil
}

func (r *Cache) Set(ctx context.Context, key string, v domain.Recommendation) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, keyPrefix+key, b, r.ttl).Err()
}

func (r *Cache) Clear(ctx context.Context) error {
	iter := r.c.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.c.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

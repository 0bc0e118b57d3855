package memcache_test

import (
	"context"
	"fmt"
	"testing"

	"bistro_finder/internal/adapters/memcache"
	"bistro_finder/internal/domain"
)

func rec(name string) domain.Recommendation {
	return domain.Recommendation{Restaurants: []domain.Restaurant{{Name: name}}}
}

func TestCache_GetSet(t *testing.T) {
	c := memcache.New(10)
	ctx := context.Background()

	if _, ok, _ := c.Get(ctx, "missing"); ok {
		t.Fatalf("unexpected hit")
	}
	if err := c.Set(ctx, "k", rec("Jalsa")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || got.Restaurants[0].Name != "Jalsa" {
		t.Fatalf("get: ok=%v err=%v got=%+v", ok, err, got)
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := memcache.New(3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = c.Set(ctx, fmt.Sprintf("k%d", i), rec(fmt.Sprintf("r%d", i)))
	}
	// k0 is oldest; one more set evicts it
	_ = c.Set(ctx, "k3", rec("r3"))

	if _, ok, _ := c.Get(ctx, "k0"); ok {
		t.Fatalf("k0 should have been evicted")
	}
	for _, k := range []string{"k1", "k2", "k3"} {
		if _, ok, _ := c.Get(ctx, k); !ok {
			t.Fatalf("%s should be present", k)
		}
	}
	if c.Len() != 3 {
		t.Fatalf("len=%d", c.Len())
	}
}

func TestCache_ReadRefreshesRecency(t *testing.T) {
	c := memcache.New(2)
	ctx := context.Background()

	_ = c.Set(ctx, "a", rec("a"))
	_ = c.Set(ctx, "b", rec("b"))
	// touch a so b becomes the eviction candidate
	if _, ok, _ := c.Get(ctx, "a"); !ok {
		t.Fatalf("a missing")
	}
	_ = c.Set(ctx, "c", rec("c"))

	if _, ok, _ := c.Get(ctx, "b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if _, ok, _ := c.Get(ctx, "a"); !ok {
		t.Fatalf("a should have survived")
	}
}

func TestCache_SetExistingUpdatesInPlace(t *testing.T) {
	c := memcache.New(2)
	ctx := context.Background()

	_ = c.Set(ctx, "a", rec("old"))
	_ = c.Set(ctx, "b", rec("b"))
	_ = c.Set(ctx, "a", rec("new")) // no eviction, a refreshed

	if c.Len() != 2 {
		t.Fatalf("len=%d", c.Len())
	}
	got, ok, _ := c.Get(ctx, "a")
	if !ok || got.Restaurants[0].Name != "new" {
		t.Fatalf("update lost: %+v", got)
	}
}

func TestCache_Clear(t *testing.T) {
	c := memcache.New(2)
	ctx := context.Background()
	_ = c.Set(ctx, "a", rec("a"))
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("len=%d after clear", c.Len())
	}
}

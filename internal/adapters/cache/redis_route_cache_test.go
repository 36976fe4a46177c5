package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"hos-trip-service/internal/ports"
)

func newTestRedisCache(t *testing.T) (*RedisRouteCache, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisRouteCache(client, time.Hour), srv
}

func TestRedisRouteCacheRoundTrip(t *testing.T) {
	c, _ := newTestRedisCache(t)
	ctx := context.Background()

	want := ports.DistanceResult{DistanceMiles: 113.4, DurationHours: 1.82}
	if err := c.Put(ctx, "Phoenix, AZ", "Tucson, AZ", want); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := c.Get(ctx, "Phoenix, AZ", "Tucson, AZ")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestRedisRouteCacheMiss(t *testing.T) {
	c, _ := newTestRedisCache(t)

	_, ok, err := c.Get(context.Background(), "A", "B")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected a miss for an unknown pair")
	}
}

func TestRedisRouteCacheEntriesExpire(t *testing.T) {
	c, srv := newTestRedisCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "A", "B", ports.DistanceResult{DistanceMiles: 10, DurationHours: 0.2}); err != nil {
		t.Fatalf("put: %v", err)
	}

	srv.FastForward(2 * time.Hour)

	_, ok, err := c.Get(ctx, "A", "B")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected the entry to expire after the TTL")
	}
}

func TestRedisRouteCacheRejectsEmptyKeys(t *testing.T) {
	c, _ := newTestRedisCache(t)

	if _, _, err := c.Get(context.Background(), "", "B"); err == nil {
		t.Error("expected error for empty origin")
	}
	if err := c.Put(context.Background(), "A", "", ports.DistanceResult{}); err == nil {
		t.Error("expected error for empty destination")
	}
}

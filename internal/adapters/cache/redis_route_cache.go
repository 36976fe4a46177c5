package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"hos-trip-service/internal/ports"
)

// RedisRouteCache shares route lookups across service instances. Entries
// carry a TTL so stale road data eventually expires, unlike the persistent
// SQL caches.
type RedisRouteCache struct {
	Client *redis.Client
	TTL    time.Duration
}

const defaultRouteTTL = 30 * 24 * time.Hour

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	if ttl <= 0 {
		ttl = defaultRouteTTL
	}
	return &RedisRouteCache{Client: client, TTL: ttl}
}

type redisRouteEntry struct {
	DistanceMiles float64 `json:"distance_miles"`
	DurationHours float64 `json:"duration_hours"`
}

func routeKey(origin, destination string) string {
	return "route:" + origin + "|" + destination
}

func (r *RedisRouteCache) Get(
	ctx context.Context,
	origin string,
	destination string,
) (ports.DistanceResult, bool, error) {
	if r.Client == nil {
		return ports.DistanceResult{}, false, errors.New("route cache: redis client is nil")
	}

	if origin == "" || destination == "" {
		return ports.DistanceResult{}, false, errors.New("get route cache: origin and destination must not be empty")
	}

	raw, err := r.Client.Get(ctx, routeKey(origin, destination)).Result()
	if errors.Is(err, redis.Nil) {
		return ports.DistanceResult{}, false, nil
	}
	if err != nil {
		return ports.DistanceResult{}, false, fmt.Errorf("get route cache: redis get: %w", err)
	}

	var entry redisRouteEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return ports.DistanceResult{}, false, fmt.Errorf("get route cache: decode entry: %w", err)
	}

	return ports.DistanceResult{
		DistanceMiles: entry.DistanceMiles,
		DurationHours: entry.DurationHours,
	}, true, nil
}

func (r *RedisRouteCache) Put(
	ctx context.Context,
	origin string,
	destination string,
	result ports.DistanceResult,
) error {
	if r.Client == nil {
		return errors.New("route cache: redis client is nil")
	}

	if origin == "" || destination == "" {
		return errors.New("insert route cache: origin and destination must not be empty")
	}

	payload, err := json.Marshal(redisRouteEntry{
		DistanceMiles: result.DistanceMiles,
		DurationHours: result.DurationHours,
	})
	if err != nil {
		return fmt.Errorf("insert route cache: encode entry: %w", err)
	}

	if err := r.Client.Set(ctx, routeKey(origin, destination), payload, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert route cache %q -> %q: redis set: %w", origin, destination, err)
	}

	return nil
}

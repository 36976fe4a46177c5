package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hos-trip-service/internal/ports"
)

// SQLite backed cache for origin->destination route lookups. Keys are
// expected to be consistent (e.g., already normalized) by the caller.
type SqliteRouteCache struct {
	DB *sql.DB
}

func NewSqliteRouteCache(db *sql.DB) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db}
}

// Fetch a cached route result. The second return reports whether the pair
// was present.
func (s *SqliteRouteCache) Get(
	ctx context.Context,
	origin string,
	destination string,
) (ports.DistanceResult, bool, error) {
	if s.DB == nil {
		return ports.DistanceResult{}, false, errors.New("route cache: db is nil")
	}

	if origin == "" || destination == "" {
		return ports.DistanceResult{}, false, errors.New("get route cache: origin and destination must not be empty")
	}

	q := `
	SELECT distance_miles, duration_hours
	FROM route_cache
	WHERE origin = ? AND destination = ?;
	`

	var miles, hours float64
	err := s.DB.QueryRowContext(ctx, q, origin, destination).Scan(&miles, &hours)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.DistanceResult{}, false, nil
	}
	if err != nil {
		return ports.DistanceResult{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	return ports.DistanceResult{DistanceMiles: miles, DurationHours: hours}, true, nil
}

// Store a route result for an origin/destination pair.
func (s *SqliteRouteCache) Put(
	ctx context.Context,
	origin string,
	destination string,
	result ports.DistanceResult,
) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	if origin == "" || destination == "" {
		return errors.New("insert route cache: origin and destination must not be empty")
	}

	q := `
	INSERT OR REPLACE INTO route_cache (
		origin,
		destination,
		distance_miles,
		duration_hours
	)
	VALUES (?, ?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q, origin, destination, result.DistanceMiles, result.DurationHours); err != nil {
		return fmt.Errorf("insert route cache %q -> %q: %w", origin, destination, err)
	}

	return nil
}

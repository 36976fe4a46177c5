package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hos-trip-service/internal/platform/obs"
	"hos-trip-service/internal/ports"
)

// SQLRouteCache is the Postgres variant of the route cache, used when the
// service runs against a shared database instead of local SQLite.
type SQLRouteCache struct {
	DB *sql.DB
}

func NewSQLRouteCache(db *sql.DB) *SQLRouteCache {
	return &SQLRouteCache{DB: db}
}

func (s *SQLRouteCache) Get(
	ctx context.Context,
	origin string,
	destination string,
) (_ ports.DistanceResult, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return ports.DistanceResult{}, false, errors.New("route cache: db is nil")
	}

	if origin == "" || destination == "" {
		return ports.DistanceResult{}, false, errors.New("get route cache: origin and destination must not be empty")
	}

	q := `
	SELECT distance_miles, duration_hours
	FROM route_cache
	WHERE origin = $1 AND destination = $2;
	`

	var miles, hours float64
	err = s.DB.QueryRowContext(ctx, q, origin, destination).Scan(&miles, &hours)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.DistanceResult{}, false, nil
	}
	if err != nil {
		return ports.DistanceResult{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	return ports.DistanceResult{DistanceMiles: miles, DurationHours: hours}, true, nil
}

func (s *SQLRouteCache) Put(
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
	INSERT INTO route_cache (origin, destination, distance_miles, duration_hours)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_miles = EXCLUDED.distance_miles,
		duration_hours = EXCLUDED.duration_hours;
	`

	if _, err := s.DB.ExecContext(ctx, q, origin, destination, result.DistanceMiles, result.DurationHours); err != nil {
		return fmt.Errorf("insert route cache %q -> %q: %w", origin, destination, err)
	}

	return nil
}

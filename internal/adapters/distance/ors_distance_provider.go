package distance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"hos-trip-service/internal/domain"
	"hos-trip-service/internal/platform/obs"
	"hos-trip-service/internal/ports"
)

const (
	metersPerMile    = 1609.344
	secondsPerHour   = 3600.0
	truckProfileName = "driving-hgv"
)

// RouteCache stores resolved origin->destination route results.
type RouteCache interface {
	Get(ctx context.Context, origin, destination string) (ports.DistanceResult, bool, error)
	Put(ctx context.Context, origin, destination string, result ports.DistanceResult) error
}

// GeocodeCache stores resolved address coordinates.
type GeocodeCache interface {
	Get(ctx context.Context, address string) (domain.Coordinates, bool, error)
	Put(ctx context.Context, address string, coords domain.Coordinates) error
}

// ORSDistanceProvider implements DistanceProvider using OpenRouteService.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode caching
//   - Route result caching
//   - External API calls with retry/backoff
//
// Distances come back in the engine's units (miles/hours); the heavy-goods
// routing profile is used since the schedules are for commercial trucks.
// The provider is safe for concurrent use.
type ORSDistanceProvider struct {
	session      *http.Client
	apiKey       string
	baseURL      string
	profile      string
	routeCache   RouteCache
	geocodeCache GeocodeCache
}

func NewORSDistanceProvider(
	apiKey string,
	routeCache RouteCache,
	geocodeCache GeocodeCache,
) (*ORSDistanceProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSDistanceProvider{
		session:      &http.Client{Timeout: 30 * time.Second},
		apiKey:       apiKey,
		baseURL:      "https://api.openrouteservice.org",
		profile:      truckProfileName,
		routeCache:   routeCache,
		geocodeCache: geocodeCache,
	}

	return provider, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (o *ORSDistanceProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// GetDistance resolves road distance and travel time for one leg, consulting
// the route cache before geocoding and calling the directions API.
func (o *ORSDistanceProvider) GetDistance(
	ctx context.Context,
	origin string,
	destination string,
) (_ ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.GetDistance")(&err)

	normOrigin := o.normalize(origin)
	normDestination := o.normalize(destination)
	if normOrigin == "" || normDestination == "" {
		return ports.DistanceResult{}, errors.New("get ORS distance: origin and destination must be non-empty")
	}

	if o.routeCache != nil {
		cached, ok, err := o.routeCache.Get(ctx, normOrigin, normDestination)
		if err != nil {
			return ports.DistanceResult{}, fmt.Errorf("ORS get route cache: %w", err)
		}
		if ok {
			return cached, nil
		}
	}

	originCoord, err := o.resolveCoordinates(ctx, normOrigin)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("resolve origin %q: %w", normOrigin, err)
	}

	destinationCoord, err := o.resolveCoordinates(ctx, normDestination)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("resolve destination %q: %w", normDestination, err)
	}

	result, err := o.fetchDirections(ctx, originCoord, destinationCoord)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("fetch directions %q -> %q: %w", normOrigin, normDestination, err)
	}

	if o.routeCache != nil {
		if err := o.routeCache.Put(ctx, normOrigin, normDestination, result); err != nil {
			log.Printf("route cache write failed: %v", err)
		}
	}

	return result, nil
}

// resolveCoordinates returns the address's coordinates, geocoding through
// ORS only on a cache miss.
func (o *ORSDistanceProvider) resolveCoordinates(
	ctx context.Context,
	address string,
) (domain.Coordinates, error) {
	if o.geocodeCache != nil {
		coords, ok, err := o.geocodeCache.Get(ctx, address)
		if err != nil {
			return domain.Coordinates{}, fmt.Errorf("ORS get geocode cache: %w", err)
		}
		if ok {
			return coords, nil
		}
	}

	coords, err := o.geocode(ctx, address)
	if err != nil {
		return domain.Coordinates{}, err
	}

	if o.geocodeCache != nil {
		if err := o.geocodeCache.Put(ctx, address, coords); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	return coords, nil
}

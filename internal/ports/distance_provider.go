package ports

import "context"

// Road distance and estimated travel time between two locations, in the
// units the simulation engine works in.
type DistanceResult struct {
	DistanceMiles float64
	DurationHours float64
}

// Contract for resolving travel distance and duration between two addresses.
// Lookup failures (geocoding misses, network errors) are the provider's
// concern; callers must tolerate DurationHours <= 0 by substituting a
// default speed.
type DistanceProvider interface {
	// Return travel distance and estimated duration between two locations.
	GetDistance(ctx context.Context, origin string, destination string) (DistanceResult, error)
}

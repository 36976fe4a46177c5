package ports

import (
	"context"
	"errors"

	"hos-trip-service/internal/domain"
)

// ErrTripNotFound is returned by Get/Delete when no trip has the given id.
var ErrTripNotFound = errors.New("trip not found")

// TripPage is one page of stored trips plus paging metadata.
type TripPage struct {
	Trips      []*domain.Trip
	TotalCount int
	TotalPages int
	Page       int
}

// Port: a boundary for storing and retrieving calculated trips.
type TripRepository interface {
	// Persist a fully calculated trip.
	Save(ctx context.Context, trip *domain.Trip) error
	// Return a page of trips, newest first, optionally filtered by a
	// substring match over the three location fields.
	List(ctx context.Context, query string, page, pageSize int) (TripPage, error)
	// Retrieve a single trip with its stored calculation result.
	Get(ctx context.Context, id string) (*domain.Trip, error)
	// Remove a trip and its stored result.
	Delete(ctx context.Context, id string) error
}

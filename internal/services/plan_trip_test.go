package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"hos-trip-service/internal/domain"
	"hos-trip-service/internal/ports"
)

type stubProvider struct {
	results map[string]ports.DistanceResult
}

func (p *stubProvider) GetDistance(ctx context.Context, origin, destination string) (ports.DistanceResult, error) {
	r, ok := p.results[origin+"|"+destination]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %q -> %q", origin, destination)
	}
	return r, nil
}

type memRepo struct {
	saved []*domain.Trip
}

func (m *memRepo) Save(ctx context.Context, trip *domain.Trip) error {
	m.saved = append(m.saved, trip)
	return nil
}

func (m *memRepo) List(ctx context.Context, query string, page, pageSize int) (ports.TripPage, error) {
	return ports.TripPage{Trips: m.saved, TotalCount: len(m.saved), TotalPages: 1, Page: 1}, nil
}

func (m *memRepo) Get(ctx context.Context, id string) (*domain.Trip, error) {
	for _, t := range m.saved {
		if t.ID.String() == id {
			return t, nil
		}
	}
	return nil, ports.ErrTripNotFound
}

func (m *memRepo) Delete(ctx context.Context, id string) error { return nil }

func TestPlanTrip(t *testing.T) {
	provider := &stubProvider{results: map[string]ports.DistanceResult{
		"Phoenix, AZ|Tucson, AZ": {DistanceMiles: 113, DurationHours: 1.8},
		"Tucson, AZ|El Paso, TX": {DistanceMiles: 317, DurationHours: 4.6},
	}}
	repo := &memRepo{}

	req := PlanTripRequest{
		CurrentLocation:  "Phoenix, AZ",
		PickupLocation:   "Tucson, AZ",
		DropoffLocation:  "El Paso, TX",
		CurrentCycleUsed: 10,
		StartDate:        testDate(),
	}

	trip, err := PlanTrip(context.Background(), req, domain.DefaultHOSRules(), provider, repo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trip.TotalMiles != 430 {
		t.Errorf("total miles = %v, want 430", trip.TotalMiles)
	}
	if trip.TotalDurationHours != 6.4 {
		t.Errorf("total duration = %v, want 6.4", trip.TotalDurationHours)
	}
	if len(trip.Legs) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(trip.Legs))
	}
	if len(trip.Events) == 0 || len(trip.DailyLogs) == 0 {
		t.Fatal("expected events and daily logs")
	}
	if trip.Summary.TotalDays != len(trip.DailyLogs) {
		t.Errorf("summary days = %d, logs = %d", trip.Summary.TotalDays, len(trip.DailyLogs))
	}
	if trip.Summary.TotalDutyHours < trip.Summary.TotalDrivingHours {
		t.Errorf("duty hours %v cannot be below driving hours %v",
			trip.Summary.TotalDutyHours, trip.Summary.TotalDrivingHours)
	}

	if len(repo.saved) != 1 {
		t.Fatalf("expected 1 saved trip, got %d", len(repo.saved))
	}
	if repo.saved[0].ID != trip.ID {
		t.Error("saved trip does not match returned trip")
	}
}

// A provider reporting no usable travel time still yields a valid schedule:
// the engine substitutes its fallback speed.
func TestPlanTripZeroDurationLeg(t *testing.T) {
	provider := &stubProvider{results: map[string]ports.DistanceResult{
		"A|B": {DistanceMiles: 110, DurationHours: 0},
		"B|C": {DistanceMiles: 55, DurationHours: 1},
	}}

	req := PlanTripRequest{
		CurrentLocation: "A",
		PickupLocation:  "B",
		DropoffLocation: "C",
		StartDate:       testDate(),
	}

	trip, err := PlanTrip(context.Background(), req, domain.DefaultHOSRules(), provider, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 110 miles at the 55 mph fallback is two hours of driving.
	var leg1Driving float64
	for _, ev := range trip.Events {
		if ev.Status == domain.StatusDriving && ev.Location == "Near A" {
			leg1Driving += ev.Duration
		}
	}
	if leg1Driving != 2 {
		t.Errorf("leg 1 driving = %v hours, want 2 (fallback speed)", leg1Driving)
	}
}

func TestPlanTripRejectsBlankLocations(t *testing.T) {
	req := PlanTripRequest{
		CurrentLocation: "A",
		PickupLocation:  "   ",
		DropoffLocation: "C",
		StartDate:       testDate(),
	}

	if _, err := PlanTrip(context.Background(), req, domain.DefaultHOSRules(), &stubProvider{}, nil); err == nil {
		t.Fatal("expected error for blank pickup location")
	}
}

func TestPlanTripPropagatesProviderError(t *testing.T) {
	req := PlanTripRequest{
		CurrentLocation: "A",
		PickupLocation:  "B",
		DropoffLocation: "C",
		StartDate:       time.Now(),
	}

	if _, err := PlanTrip(context.Background(), req, domain.DefaultHOSRules(), &stubProvider{}, nil); err == nil {
		t.Fatal("expected error when the provider cannot resolve a leg")
	}
}

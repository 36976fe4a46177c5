package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hos-trip-service/internal/domain"
	"hos-trip-service/internal/ports"
)

type PlanTripRequest struct {
	CurrentLocation  string
	PickupLocation   string
	DropoffLocation  string
	CurrentCycleUsed float64
	// StartDate anchors day 1 of the daily logs. Callers supply it
	// explicitly so the calculation is replayable.
	StartDate time.Time
}

// PlanTrip resolves both legs through the distance provider, simulates the
// HOS schedule, partitions it into daily logs, and persists the result.
func PlanTrip(
	ctx context.Context,
	req PlanTripRequest,
	rules domain.HOSRules,
	provider ports.DistanceProvider,
	repo ports.TripRepository,
) (*domain.Trip, error) {
	currentLoc := strings.TrimSpace(req.CurrentLocation)
	pickupLoc := strings.TrimSpace(req.PickupLocation)
	dropoffLoc := strings.TrimSpace(req.DropoffLocation)
	if currentLoc == "" || pickupLoc == "" || dropoffLoc == "" {
		return nil, fmt.Errorf("plan trip: all three locations must be non-empty")
	}

	leg1, err := provider.GetDistance(ctx, currentLoc, pickupLoc)
	if err != nil {
		return nil, fmt.Errorf("plan trip: get distance %q -> %q: %w", currentLoc, pickupLoc, err)
	}

	leg2, err := provider.GetDistance(ctx, pickupLoc, dropoffLoc)
	if err != nil {
		return nil, fmt.Errorf("plan trip: get distance %q -> %q: %w", pickupLoc, dropoffLoc, err)
	}

	sim := NewSimulator(rules)
	result := sim.Simulate(SimulationRequest{
		CycleHoursUsed:  req.CurrentCycleUsed,
		Leg1:            Leg{Miles: leg1.DistanceMiles, Hours: leg1.DurationHours},
		Leg2:            Leg{Miles: leg2.DistanceMiles, Hours: leg2.DurationHours},
		CurrentLocation: currentLoc,
		PickupLocation:  pickupLoc,
		DropoffLocation: dropoffLoc,
	})

	dailyLogs := PartitionByDay(result.Events, req.StartDate)

	trip := domain.NewTrip(currentLoc, pickupLoc, dropoffLoc, req.CurrentCycleUsed)
	trip.TotalMiles = round2(leg1.DistanceMiles + leg2.DistanceMiles)
	trip.TotalDurationHours = round2(leg1.DurationHours + leg2.DurationHours)
	trip.Legs = []domain.RouteLeg{
		{From: currentLoc, To: pickupLoc, DistanceMiles: round2(leg1.DistanceMiles), DurationHours: round2(leg1.DurationHours)},
		{From: pickupLoc, To: dropoffLoc, DistanceMiles: round2(leg2.DistanceMiles), DurationHours: round2(leg2.DurationHours)},
	}
	trip.Events = result.Events
	trip.DailyLogs = dailyLogs
	trip.Summary = summarize(result, dailyLogs)
	trip.CreatedAt = time.Now().UTC()

	if repo != nil {
		if err := repo.Save(ctx, trip); err != nil {
			return nil, fmt.Errorf("plan trip: save trip %s: %w", trip.ID, err)
		}
	}

	return trip, nil
}

func summarize(result SimulationResult, dailyLogs []domain.DailyLog) domain.TripSummary {
	var driving, duty, rest float64
	for _, ev := range result.Events {
		switch ev.Status {
		case domain.StatusDriving:
			driving += ev.Duration
			duty += ev.Duration
		case domain.StatusOnDutyNotDriving:
			duty += ev.Duration
		case domain.StatusSleeperBerth:
			rest += ev.Duration
		}
	}

	return domain.TripSummary{
		TotalDays:         len(dailyLogs),
		TotalDrivingHours: round2(driving),
		TotalDutyHours:    round2(duty),
		TotalRestHours:    round2(rest),
		CycleHoursAtEnd:   result.FinalCycleHours,
	}
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// RouteLeg is one resolved leg of the trip as reported by the distance
// provider (not the simulated schedule).
type RouteLeg struct {
	From          string  `json:"from"`
	To            string  `json:"to"`
	DistanceMiles float64 `json:"distance_miles"`
	DurationHours float64 `json:"duration_hours"`
}

// TripSummary aggregates the simulated schedule for list views.
type TripSummary struct {
	TotalDays         int     `json:"total_days"`
	TotalDrivingHours float64 `json:"total_driving_hours"`
	TotalDutyHours    float64 `json:"total_duty_hours"`
	TotalRestHours    float64 `json:"total_rest_hours"`
	CycleHoursAtEnd   float64 `json:"cycle_hours_at_end"`
}

// Trip is the persisted aggregate: the request inputs plus the full
// calculation result (legs, event timeline, daily logs, summary).
type Trip struct {
	ID               uuid.UUID
	CurrentLocation  string
	PickupLocation   string
	DropoffLocation  string
	CurrentCycleUsed float64

	TotalMiles         float64
	TotalDurationHours float64

	Legs      []RouteLeg
	Events    []Event
	DailyLogs []DailyLog
	Summary   TripSummary

	CreatedAt time.Time
}

// NewTrip creates a Trip shell for the given request inputs.
func NewTrip(currentLoc, pickupLoc, dropoffLoc string, cycleUsed float64) *Trip {
	return &Trip{
		ID:               uuid.New(),
		CurrentLocation:  currentLoc,
		PickupLocation:   pickupLoc,
		DropoffLocation:  dropoffLoc,
		CurrentCycleUsed: cycleUsed,
	}
}

package dto

import (
	"time"

	"hos-trip-service/internal/domain"
)

type CalculateTripRequest struct {
	CurrentLocation  string  `json:"current_location"`
	PickupLocation   string  `json:"pickup_location"`
	DropoffLocation  string  `json:"dropoff_location"`
	CurrentCycleUsed float64 `json:"current_cycle_used"`
	// Optional anchor date (YYYY-MM-DD) for day 1 of the logs; defaults to
	// the server's current date.
	StartDate string `json:"start_date,omitempty"`
}

type RouteResponse struct {
	TotalMiles         float64          `json:"total_miles"`
	TotalDurationHours float64          `json:"total_duration_hours"`
	Legs               []domain.RouteLeg `json:"legs"`
}

type DailyLogResponse struct {
	Day        int                           `json:"day"`
	Date       string                        `json:"date"`
	TotalMiles float64                       `json:"total_miles"`
	Activities []domain.Activity             `json:"activities"`
	Remarks    []domain.Remark               `json:"remarks"`
	Totals     map[domain.DutyStatus]float64 `json:"totals"`
}

type CalculateTripResponse struct {
	TripID    string             `json:"trip_id"`
	Route     RouteResponse      `json:"route"`
	Events    []domain.Event     `json:"events"`
	DailyLogs []DailyLogResponse `json:"daily_logs"`
	Summary   domain.TripSummary `json:"summary"`
}

type TripListItem struct {
	ID                string    `json:"id"`
	CurrentLocation   string    `json:"current_location"`
	PickupLocation    string    `json:"pickup_location"`
	DropoffLocation   string    `json:"dropoff_location"`
	CurrentCycleUsed  float64   `json:"current_cycle_used"`
	TotalMiles        float64   `json:"total_miles"`
	NumberOfDays      int       `json:"number_of_days"`
	TotalDrivingHours float64   `json:"total_driving_hours"`
	TotalDutyHours    float64   `json:"total_duty_hours"`
	CreatedAt         time.Time `json:"created_at"`
}

type ListTripsResponse struct {
	Trips       []TripListItem `json:"trips"`
	TotalCount  int            `json:"total_count"`
	TotalPages  int            `json:"total_pages"`
	CurrentPage int            `json:"current_page"`
	HasNext     bool           `json:"has_next"`
	HasPrevious bool           `json:"has_previous"`
}

type TripFormData struct {
	CurrentLocation  string  `json:"current_location"`
	PickupLocation   string  `json:"pickup_location"`
	DropoffLocation  string  `json:"dropoff_location"`
	CurrentCycleUsed float64 `json:"current_cycle_used"`
}

type TripResult struct {
	Route     RouteResponse      `json:"route"`
	Events    []domain.Event     `json:"events"`
	DailyLogs []DailyLogResponse `json:"daily_logs"`
	Summary   domain.TripSummary `json:"summary"`
}

type GetTripResponse struct {
	ID        string       `json:"id"`
	FormData  TripFormData `json:"formData"`
	Result    TripResult   `json:"result"`
	Timestamp int64        `json:"timestamp"` // creation time, unix millis
}

// DailyLogsFromDomain formats domain logs for responses (dates as
// YYYY-MM-DD, matching the log sheet).
func DailyLogsFromDomain(logs []domain.DailyLog) []DailyLogResponse {
	out := make([]DailyLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, DailyLogResponse{
			Day:        l.DayNumber,
			Date:       l.Date.Format("2006-01-02"),
			TotalMiles: l.TotalMiles,
			Activities: l.Activities,
			Remarks:    l.Remarks,
			Totals:     l.Totals,
		})
	}
	return out
}

// RouteFromTrip assembles the route block of a trip response.
func RouteFromTrip(trip *domain.Trip) RouteResponse {
	return RouteResponse{
		TotalMiles:         trip.TotalMiles,
		TotalDurationHours: trip.TotalDurationHours,
		Legs:               trip.Legs,
	}
}

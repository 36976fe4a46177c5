package domain

// HOSRules is the immutable regulatory rule set a Simulator runs under.
// Durations are hours, distances are miles, speeds are mph.
//
// Keeping the limits on a value (rather than package constants) lets tests
// and future rule variants substitute a different set without touching the
// engine.
type HOSRules struct {
	MaxDriving        float64 // driving allowed per shift
	MaxDutyWindow     float64 // duty window from shift start
	BreakAfterDriving float64 // cumulative driving before a break is due
	BreakDuration     float64
	RequiredRest      float64 // off-duty hours between shifts
	MaxCycle          float64 // rolling on-duty budget
	RestartHours      float64 // consecutive off-duty hours that reset the cycle

	FuelIntervalMiles float64
	FuelDuration      float64

	PickupDuration   float64
	DropoffDuration  float64
	PreTripDuration  float64
	PostTripDuration float64

	FallbackSpeedMPH float64 // used when a leg reports no travel time
	StartHour        float64 // fixed reference clock origin for a trip
}

// DefaultHOSRules returns the 70-hour/8-day property-carrying rule set
// (no adverse-driving or passenger-carrying variants).
func DefaultHOSRules() HOSRules {
	return HOSRules{
		MaxDriving:        11,
		MaxDutyWindow:     14,
		BreakAfterDriving: 8,
		BreakDuration:     0.5,
		RequiredRest:      10,
		MaxCycle:          70,
		RestartHours:      34,
		FuelIntervalMiles: 1000,
		FuelDuration:      0.5,
		PickupDuration:    1.0,
		DropoffDuration:   1.0,
		PreTripDuration:   0.25,
		PostTripDuration:  0.25,
		FallbackSpeedMPH:  55,
		StartHour:         8,
	}
}

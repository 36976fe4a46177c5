package services

import (
	"math"

	"hos-trip-service/internal/domain"
)

// Leg is one resolved driving leg: total mileage and the provider's travel
// time estimate. Hours <= 0 means "no usable estimate" and falls back to
// the rule set's default speed.
type Leg struct {
	Miles float64
	Hours float64
}

// SimulationRequest are the value inputs of one trip simulation.
type SimulationRequest struct {
	CycleHoursUsed  float64
	Leg1            Leg
	Leg2            Leg
	CurrentLocation string
	PickupLocation  string
	DropoffLocation string
}

// SimulationResult is the complete simulated schedule.
type SimulationResult struct {
	Events             []domain.Event
	TotalDistanceMiles float64
	FinalCycleHours    float64
}

// Simulator plays out a two-leg trip (start -> pickup -> dropoff) under its
// HOS rule set, inserting breaks, rests, restarts and fuel stops wherever a
// regulatory limit would otherwise be crossed.
//
// Simulate is a pure function of its inputs: no wall clock, no shared state.
// A Simulator value is safe to reuse across goroutines.
type Simulator struct {
	Rules domain.HOSRules
}

func NewSimulator(rules domain.HOSRules) *Simulator {
	return &Simulator{Rules: rules}
}

// simRun is the mutable scalar state threaded through one simulation.
// All procedures operate on it so every transition stays in one place.
type simRun struct {
	rules  domain.HOSRules
	events []domain.Event

	clock             float64 // hours since the reference origin
	shiftStart        float64 // clock value opening the current duty window
	shiftDriving      float64 // driving accumulated since shiftStart
	drivingSinceBreak float64 // driving since the last 30+ minute stop
	cycleHours        float64 // on-duty hours in the rolling cycle budget
	totalDistance     float64 // odometer, miles
	lastFuelDistance  float64 // odometer at the last fueling stop
}

// Simulate runs the full trip and returns the ordered event timeline.
func (s *Simulator) Simulate(req SimulationRequest) SimulationResult {
	r := &simRun{
		rules:      s.Rules,
		clock:      s.Rules.StartHour,
		shiftStart: s.Rules.StartHour,
		// Out-of-range cycle input is clamped, not rejected.
		cycleHours: math.Min(math.Max(req.CycleHoursUsed, 0), s.Rules.MaxCycle),
	}

	if r.cycleHours >= r.rules.MaxCycle {
		r.restart(req.CurrentLocation)
	}

	r.emit(domain.StatusOnDutyNotDriving, r.rules.PreTripDuration, "Pre-trip inspection", req.CurrentLocation, nil)
	r.clock += r.rules.PreTripDuration
	r.cycleHours += r.rules.PreTripDuration

	if req.Leg1.Miles > 0.5 {
		r.drive(req.Leg1.Miles, legSpeed(req.Leg1, r.rules), req.CurrentLocation, req.PickupLocation)
	}

	r.onDuty(r.rules.PickupDuration, "Pickup / Loading", req.PickupLocation)

	if req.Leg2.Miles > 0.5 {
		r.drive(req.Leg2.Miles, legSpeed(req.Leg2, r.rules), req.PickupLocation, req.DropoffLocation)
	}

	r.onDuty(r.rules.DropoffDuration, "Dropoff / Unloading", req.DropoffLocation)

	r.emit(domain.StatusOnDutyNotDriving, r.rules.PostTripDuration, "Post-trip inspection", req.DropoffLocation, nil)
	r.clock += r.rules.PostTripDuration
	r.cycleHours += r.rules.PostTripDuration

	return SimulationResult{
		Events:             r.events,
		TotalDistanceMiles: round1(r.totalDistance),
		FinalCycleHours:    round2(r.cycleHours),
	}
}

func legSpeed(leg Leg, rules domain.HOSRules) float64 {
	if leg.Hours > 0 {
		return leg.Miles / leg.Hours
	}
	return rules.FallbackSpeedMPH
}

// onDuty performs a fixed-duration on-duty activity, first inserting a rest
// and/or restart if the activity would breach the duty window or the cycle
// budget. Both checks fire against the pre-activity state: when both limits
// would be crossed, a rest and a restart are inserted back to back.
func (r *simRun) onDuty(duration float64, description, location string) {
	if (r.clock-r.shiftStart)+duration > r.rules.MaxDutyWindow {
		r.rest(location)
	}
	if r.cycleHours+duration > r.rules.MaxCycle {
		r.restart(location)
	}

	r.emit(domain.StatusOnDutyNotDriving, duration, description, location, nil)
	r.clock += duration
	r.cycleHours += duration

	// Any stop of at least break length counts as a break, whatever its
	// purpose.
	if duration >= r.rules.BreakDuration {
		r.drivingSinceBreak = 0
	}
}

// rest inserts the required off-duty block between shifts and opens a fresh
// duty window. The cycle budget is untouched: rest neither consumes nor
// restores it.
func (r *simRun) rest(location string) {
	r.emit(domain.StatusSleeperBerth, r.rules.RequiredRest, "10-hour rest period", location, nil)
	r.clock += r.rules.RequiredRest
	r.shiftStart = r.clock
	r.shiftDriving = 0
	r.drivingSinceBreak = 0
}

// restart inserts the consecutive off-duty block that zeroes the cycle
// budget and opens a fresh duty window.
func (r *simRun) restart(location string) {
	r.emit(domain.StatusSleeperBerth, r.rules.RestartHours, "34-hour restart (70-hour cycle limit)", location, nil)
	r.clock += r.rules.RestartHours
	r.cycleHours = 0
	r.shiftStart = r.clock
	r.shiftDriving = 0
	r.drivingSinceBreak = 0
}

func (r *simRun) emit(status domain.DutyStatus, duration float64, description, location string, miles *float64) {
	r.events = append(r.events, domain.Event{
		Status:      status,
		Clock:       round2(r.clock),
		Duration:    round2(duration),
		Description: description,
		Location:    location,
		Distance:    round1(r.totalDistance),
		Miles:       miles,
	})
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

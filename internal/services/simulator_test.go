package services

import (
	"math"
	"reflect"
	"testing"

	"hos-trip-service/internal/domain"
)

func defaultRequest() SimulationRequest {
	return SimulationRequest{
		CycleHoursUsed:  0,
		Leg1:            Leg{Miles: 50, Hours: 1},
		Leg2:            Leg{Miles: 500, Hours: 9},
		CurrentLocation: "Phoenix, AZ",
		PickupLocation:  "Tucson, AZ",
		DropoffLocation: "El Paso, TX",
	}
}

func countEvents(events []domain.Event, status domain.DutyStatus, description string) int {
	n := 0
	for _, ev := range events {
		if ev.Status == status && (description == "" || ev.Description == description) {
			n++
		}
	}
	return n
}

func TestSimulateTimelineIsContiguous(t *testing.T) {
	sim := NewSimulator(domain.DefaultHOSRules())
	result := sim.Simulate(defaultRequest())

	if len(result.Events) == 0 {
		t.Fatal("expected events, got none")
	}

	prevEnd := result.Events[0].Clock
	for i, ev := range result.Events {
		if ev.Duration <= 0 {
			t.Errorf("event %d has non-positive duration %v", i, ev.Duration)
		}
		if ev.Clock < prevEnd-0.01 {
			t.Errorf("event %d starts at %v before previous end %v", i, ev.Clock, prevEnd)
		}
		if math.Abs(ev.Clock-prevEnd) > 0.01 {
			t.Errorf("gap before event %d: previous end %v, start %v", i, prevEnd, ev.Clock)
		}
		prevEnd = ev.End()
	}
}

func TestSimulateRespectsDrivingLimits(t *testing.T) {
	sim := NewSimulator(domain.DefaultHOSRules())
	result := sim.Simulate(SimulationRequest{
		Leg1:            Leg{Miles: 120, Hours: 2},
		Leg2:            Leg{Miles: 2400, Hours: 44},
		CurrentLocation: "A",
		PickupLocation:  "B",
		DropoffLocation: "C",
	})

	sinceBreak := 0.0
	sinceRest := 0.0
	for i, ev := range result.Events {
		switch ev.Status {
		case domain.StatusDriving:
			if sinceBreak > 8.005 {
				t.Errorf("event %d: driving starts with %.2fh since last break", i, sinceBreak)
			}
			if sinceRest > 11.005 {
				t.Errorf("event %d: driving starts with %.2fh shift driving", i, sinceRest)
			}
			sinceBreak += ev.Duration
			sinceRest += ev.Duration
		case domain.StatusSleeperBerth:
			sinceBreak = 0
			sinceRest = 0
		default:
			if ev.Duration >= 0.5 {
				sinceBreak = 0
			}
		}
	}
}

// A 50-mile first leg and a 9-hour second leg: one 30-minute break must be
// inserted once cumulative driving passes 8h, and the whole trip fits in a
// single duty window with no 10-hour rest.
func TestSimulateSingleShiftTrip(t *testing.T) {
	sim := NewSimulator(domain.DefaultHOSRules())
	result := sim.Simulate(defaultRequest())

	if n := countEvents(result.Events, domain.StatusOffDuty, ""); n < 1 {
		t.Errorf("expected at least one 30-minute break, got %d", n)
	}
	if n := countEvents(result.Events, domain.StatusSleeperBerth, ""); n != 0 {
		t.Errorf("expected no rest/restart events, got %d", n)
	}

	last := result.Events[len(result.Events)-1]
	if span := last.End(); span > 24 {
		t.Errorf("trip should finish within the first day, ended at %.2fh", span)
	}
	if result.TotalDistanceMiles != 550 {
		t.Errorf("total distance = %v, want 550", result.TotalDistanceMiles)
	}

	logs := PartitionByDay(result.Events, testDate())
	if len(logs) != 1 {
		t.Fatalf("expected 1 daily log, got %d", len(logs))
	}
}

// With 68 cycle hours already used, the cycle budget runs dry during the trip
// and a 34-hour restart must be inserted before any further on-duty time.
func TestSimulateNearExhaustedCycleTriggersRestart(t *testing.T) {
	sim := NewSimulator(domain.DefaultHOSRules())
	result := sim.Simulate(SimulationRequest{
		CycleHoursUsed:  68,
		Leg1:            Leg{Miles: 30, Hours: 0.6},
		Leg2:            Leg{Miles: 30, Hours: 0.6},
		CurrentLocation: "A",
		PickupLocation:  "B",
		DropoffLocation: "C",
	})

	restarts := 0
	for _, ev := range result.Events {
		if ev.Status == domain.StatusSleeperBerth && ev.Duration == 34 {
			restarts++
		}
	}
	if restarts != 1 {
		t.Fatalf("expected exactly one 34-hour restart, got %d", restarts)
	}
	if result.FinalCycleHours > 70 {
		t.Errorf("final cycle hours = %v, want <= 70", result.FinalCycleHours)
	}
}

func TestSimulateInitialRestartWhenCycleExhausted(t *testing.T) {
	sim := NewSimulator(domain.DefaultHOSRules())
	result := sim.Simulate(SimulationRequest{
		CycleHoursUsed:  70,
		CurrentLocation: "A",
		PickupLocation:  "B",
		DropoffLocation: "C",
	})

	first := result.Events[0]
	if first.Status != domain.StatusSleeperBerth || first.Duration != 34 {
		t.Fatalf("expected leading 34-hour restart, got %+v", first)
	}
}

// Out-of-range cycle input is clamped at both ends rather than rejected.
func TestSimulateClampsCycleInput(t *testing.T) {
	sim := NewSimulator(domain.DefaultHOSRules())

	over := sim.Simulate(SimulationRequest{CycleHoursUsed: 120, CurrentLocation: "A", PickupLocation: "B", DropoffLocation: "C"})
	if over.Events[0].Duration != 34 {
		t.Errorf("cycle input above the limit should behave as a full cycle, first event %+v", over.Events[0])
	}

	under := sim.Simulate(SimulationRequest{CycleHoursUsed: -5, CurrentLocation: "A", PickupLocation: "B", DropoffLocation: "C"})
	if n := countEvents(under.Events, domain.StatusSleeperBerth, ""); n != 0 {
		t.Errorf("negative cycle input should clamp to zero, got %d sleeper events", n)
	}
	if under.FinalCycleHours < 0 {
		t.Errorf("final cycle hours = %v, want >= 0", under.FinalCycleHours)
	}
}

// Legs at or below half a mile are not driven at all.
func TestSimulateSkipsNegligibleLegs(t *testing.T) {
	sim := NewSimulator(domain.DefaultHOSRules())
	result := sim.Simulate(SimulationRequest{
		Leg1:            Leg{Miles: 0.4, Hours: 0.1},
		Leg2:            Leg{Miles: 0.5, Hours: 0.1},
		CurrentLocation: "A",
		PickupLocation:  "B",
		DropoffLocation: "C",
	})

	if len(result.Events) != 4 {
		t.Fatalf("expected exactly 4 events (pre-trip, pickup, dropoff, post-trip), got %d", len(result.Events))
	}
	if n := countEvents(result.Events, domain.StatusDriving, ""); n != 0 {
		t.Errorf("expected no driving events, got %d", n)
	}
	if result.TotalDistanceMiles != 0 {
		t.Errorf("total distance = %v, want 0", result.TotalDistanceMiles)
	}
}

func TestSimulateFuelStops(t *testing.T) {
	sim := NewSimulator(domain.DefaultHOSRules())
	result := sim.Simulate(SimulationRequest{
		Leg1:            Leg{Miles: 100, Hours: 2},
		Leg2:            Leg{Miles: 2400, Hours: 44},
		CurrentLocation: "A",
		PickupLocation:  "B",
		DropoffLocation: "C",
	})

	var fuelDistances []float64
	for _, ev := range result.Events {
		if ev.Description == "Fueling stop" {
			fuelDistances = append(fuelDistances, ev.Distance)
		}
	}
	if len(fuelDistances) < 2 {
		t.Fatalf("expected at least 2 fueling stops over 2500 miles, got %d", len(fuelDistances))
	}

	prev := 0.0
	for i, d := range fuelDistances {
		if d-prev < 1000 {
			t.Errorf("fuel stop %d at %.1f miles, only %.1f since last fueling", i, d, d-prev)
		}
		prev = d
	}
}

func TestSimulateDeterministic(t *testing.T) {
	sim := NewSimulator(domain.DefaultHOSRules())
	a := sim.Simulate(defaultRequest())
	b := sim.Simulate(defaultRequest())

	if !reflect.DeepEqual(a, b) {
		t.Error("two runs with identical inputs differ")
	}

	logsA := PartitionByDay(a.Events, testDate())
	logsB := PartitionByDay(b.Events, testDate())
	if !reflect.DeepEqual(logsA, logsB) {
		t.Error("daily logs differ between identical runs")
	}
}

// When the duty window and the cycle budget would both be breached by one
// activity, a 10-hour rest and a 34-hour restart are inserted back to back.
// Both checks fire against the pre-activity state.
func TestOnDutyRestThenRestartBackToBack(t *testing.T) {
	r := &simRun{
		rules:      domain.DefaultHOSRules(),
		clock:      21.5,
		shiftStart: 8,
		cycleHours: 69.8,
	}

	r.onDuty(1.0, "Pickup / Loading", "Depot")

	if len(r.events) != 3 {
		t.Fatalf("expected rest + restart + activity, got %d events", len(r.events))
	}
	if r.events[0].Status != domain.StatusSleeperBerth || r.events[0].Duration != 10 {
		t.Errorf("first event should be a 10-hour rest, got %+v", r.events[0])
	}
	if r.events[1].Status != domain.StatusSleeperBerth || r.events[1].Duration != 34 {
		t.Errorf("second event should be a 34-hour restart, got %+v", r.events[1])
	}
	if r.events[2].Status != domain.StatusOnDutyNotDriving {
		t.Errorf("third event should be the activity, got %+v", r.events[2])
	}
	if r.drivingSinceBreak != 0 {
		t.Errorf("a 1-hour activity should reset the break counter, got %v", r.drivingSinceBreak)
	}
}

// Zero average speed cannot make progress; the planner must terminate
// silently instead of looping.
func TestDriveZeroSpeedTerminates(t *testing.T) {
	r := &simRun{rules: domain.DefaultHOSRules(), clock: 8, shiftStart: 8}

	r.drive(100, 0, "A", "B")

	if n := countEvents(r.events, domain.StatusDriving, ""); n != 0 {
		t.Errorf("expected no driving events at zero speed, got %d", n)
	}
	if r.totalDistance != 0 {
		t.Errorf("total distance = %v, want 0", r.totalDistance)
	}
}

func TestProgressLabelInterpolation(t *testing.T) {
	r := &simRun{rules: domain.DefaultHOSRules()}

	cases := []struct {
		total     float64
		remaining float64
		want      string
	}{
		{total: 100, remaining: 95, want: "Near A"},
		{total: 100, remaining: 50, want: "En route (50% A → B)"},
		{total: 100, remaining: 5, want: "Near B"},
		{total: 0, remaining: 0, want: "A"},
	}
	for _, c := range cases {
		if got := r.progressLabel("A", "B", c.total, c.remaining); got != c.want {
			t.Errorf("progressLabel(total=%v, remaining=%v) = %q, want %q", c.total, c.remaining, got, c.want)
		}
	}
}

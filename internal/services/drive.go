package services

import (
	"fmt"

	"hos-trip-service/internal/domain"
)

// drive advances through one leg's mileage in constraint-bounded increments.
// Each pass inserts whichever compensating stop is due (restart, rest,
// 30-minute break, fueling) and then drives until the tightest of six bounds:
// break due, driving limit, duty window, cycle budget, next fuel stop, or
// end of segment.
func (r *simRun) drive(segmentMiles, avgSpeed float64, from, to string) {
	remaining := segmentMiles

	for remaining > 0.5 {
		if r.cycleHours >= r.rules.MaxCycle {
			r.restart(r.progressLabel(from, to, segmentMiles, remaining))
		}

		if r.clock-r.shiftStart >= r.rules.MaxDutyWindow || r.shiftDriving >= r.rules.MaxDriving {
			r.rest(r.progressLabel(from, to, segmentMiles, remaining))
		}

		if r.drivingSinceBreak >= r.rules.BreakAfterDriving {
			loc := r.progressLabel(from, to, segmentMiles, remaining)
			// A break only helps if it fits in the duty window and driving
			// hours remain; otherwise a full rest is due anyway.
			if (r.clock-r.shiftStart)+r.rules.BreakDuration < r.rules.MaxDutyWindow &&
				r.shiftDriving < r.rules.MaxDriving {
				r.emit(domain.StatusOffDuty, r.rules.BreakDuration, "30-minute break (8-hr driving limit)", loc, nil)
				r.clock += r.rules.BreakDuration
				r.drivingSinceBreak = 0
			} else {
				r.rest(loc)
			}
		}

		if r.totalDistance-r.lastFuelDistance >= r.rules.FuelIntervalMiles {
			loc := r.progressLabel(from, to, segmentMiles, remaining)
			if (r.clock-r.shiftStart)+r.rules.FuelDuration > r.rules.MaxDutyWindow {
				r.rest(loc)
			}
			r.emit(domain.StatusOnDutyNotDriving, r.rules.FuelDuration, "Fueling stop", loc, nil)
			r.clock += r.rules.FuelDuration
			r.cycleHours += r.rules.FuelDuration
			r.lastFuelDistance = r.totalDistance
			r.drivingSinceBreak = 0
		}

		boundTime := r.bindingConstraint(avgSpeed, remaining)

		driveMiles := boundTime * avgSpeed
		if driveMiles > remaining {
			driveMiles = remaining
		}
		driveTime := 0.0
		if avgSpeed > 0 {
			driveTime = driveMiles / avgSpeed
		}

		// Safety stop: should be unreachable given the 0.01h floors above,
		// but a zero increment must never spin the loop.
		if driveTime < 0.01 {
			break
		}

		driveTime = round2(driveTime)
		driveMiles = round1(driveMiles)

		loc := r.progressLabel(from, to, segmentMiles, remaining)
		miles := driveMiles
		r.emit(domain.StatusDriving, driveTime, fmt.Sprintf("Driving %.1f miles", driveMiles), loc, &miles)

		r.clock += driveTime
		r.shiftDriving += driveTime
		r.drivingSinceBreak += driveTime
		r.cycleHours += driveTime
		r.totalDistance += driveMiles
		remaining -= driveMiles

		if remaining < 0.5 {
			remaining = 0
		}
	}
}

// bindingConstraint returns the drivable hours before the tightest limit
// bites. Every bound is floored at 0.01h so the planner always makes
// forward progress.
func (r *simRun) bindingConstraint(avgSpeed, remaining float64) float64 {
	shiftElapsed := r.clock - r.shiftStart

	tBreak := floor01(r.rules.BreakAfterDriving - r.drivingSinceBreak)
	tDriving := floor01(r.rules.MaxDriving - r.shiftDriving)
	tWindow := floor01(r.rules.MaxDutyWindow - shiftElapsed)
	tCycle := floor01(r.rules.MaxCycle - r.cycleHours)

	tFuel := 999.0
	tFinish := 0.0
	if avgSpeed > 0 {
		tFuel = floor01((r.rules.FuelIntervalMiles - (r.totalDistance - r.lastFuelDistance)) / avgSpeed)
		tFinish = remaining / avgSpeed
	}

	bound := tBreak
	for _, t := range []float64{tDriving, tWindow, tCycle, tFuel, tFinish} {
		if t < bound {
			bound = t
		}
	}
	return floor01(bound)
}

func floor01(v float64) float64 {
	if v < 0.01 {
		return 0.01
	}
	return v
}

// progressLabel interpolates a human-readable position along the segment.
// Pure string formatting; real geometry belongs to the routing provider.
func (r *simRun) progressLabel(from, to string, total, remaining float64) string {
	if total <= 0 {
		return from
	}
	progress := (total - remaining) / total
	switch {
	case progress < 0.1:
		return "Near " + from
	case progress > 0.9:
		return "Near " + to
	default:
		return fmt.Sprintf("En route (%d%% %s → %s)", int(progress*100), from, to)
	}
}

package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"hos-trip-service/internal/domain"
)

// PartitionByDay splits a continuous event timeline into per-calendar-day
// logs. Each day covers exactly midnight-to-midnight: events are clipped at
// day boundaries, gaps are filled with off-duty spans, and the per-status
// totals are forced to sum to 24.00.
//
// anchorDate stamps day 1; it is passed explicitly (never read from a wall
// clock) so the partitioner stays deterministic and replayable.
func PartitionByDay(events []domain.Event, anchorDate time.Time) []domain.DailyLog {
	if len(events) == 0 {
		return []domain.DailyLog{}
	}

	last := events[len(events)-1]
	totalHours := last.Clock + last.Duration
	numDays := int(math.Ceil(totalHours / 24))
	if numDays < 1 {
		numDays = 1
	}

	logs := make([]domain.DailyLog, 0, numDays)

	for dayIdx := 0; dayIdx < numDays; dayIdx++ {
		dayStart := float64(dayIdx) * 24
		dayEnd := float64(dayIdx+1) * 24

		var activities []domain.Activity
		var remarks []domain.Remark
		dayMiles := 0.0

		for _, ev := range events {
			evStart := ev.Clock
			evEnd := ev.End()

			if evEnd <= dayStart || evStart >= dayEnd {
				continue
			}

			clippedStart := math.Max(evStart, dayStart) - dayStart
			clippedEnd := math.Min(evEnd, dayEnd) - dayStart
			if clippedEnd-clippedStart < 0.01 {
				continue
			}

			activities = append(activities, domain.Activity{
				Status:      ev.Status,
				StartHour:   round2(clippedStart),
				EndHour:     round2(clippedEnd),
				Duration:    round2(clippedEnd - clippedStart),
				Description: ev.Description,
				Location:    ev.Location,
			})

			// Mileage counts wholly toward the day the driving event starts
			// on, even when the event spans midnight.
			if ev.Miles != nil && evStart >= dayStart {
				dayMiles += *ev.Miles
			}

			remarks = append(remarks, domain.Remark{
				Time:     clockLabel(clippedStart),
				Status:   ev.Status,
				Text:     ev.Description,
				Location: ev.Location,
			})
		}

		filled := fillGaps(activities)
		totals := statusTotals(filled)

		logs = append(logs, domain.DailyLog{
			DayNumber:  dayIdx + 1,
			Date:       anchorDate.AddDate(0, 0, dayIdx),
			TotalMiles: round1(dayMiles),
			Activities: filled,
			Remarks:    remarks,
			Totals:     totals,
		})
	}

	return logs
}

// fillGaps inserts synthetic off-duty activities so the day's grid covers
// the full 0-24 span without holes.
func fillGaps(activities []domain.Activity) []domain.Activity {
	if len(activities) == 0 {
		return []domain.Activity{{
			Status:      domain.StatusOffDuty,
			StartHour:   0,
			EndHour:     24,
			Duration:    24,
			Description: "Off Duty",
		}}
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].StartHour < activities[j].StartHour
	})

	filled := make([]domain.Activity, 0, len(activities)+2)
	current := 0.0

	for _, act := range activities {
		if act.StartHour > current+0.01 {
			filled = append(filled, offDutySpan(current, act.StartHour))
		}
		filled = append(filled, act)
		current = act.EndHour
	}

	if current < 23.99 {
		filled = append(filled, offDutySpan(current, 24))
	}

	return filled
}

func offDutySpan(from, to float64) domain.Activity {
	return domain.Activity{
		Status:      domain.StatusOffDuty,
		StartHour:   round2(from),
		EndHour:     round2(to),
		Duration:    round2(to - from),
		Description: "Off Duty",
	}
}

// statusTotals sums clipped durations per duty status. Any rounding residual
// lands on off-duty so the four rows always add up to exactly 24.00.
func statusTotals(activities []domain.Activity) map[domain.DutyStatus]float64 {
	totals := map[domain.DutyStatus]float64{
		domain.StatusOffDuty:          0,
		domain.StatusSleeperBerth:     0,
		domain.StatusDriving:          0,
		domain.StatusOnDutyNotDriving: 0,
	}

	for _, act := range activities {
		if _, ok := totals[act.Status]; ok {
			totals[act.Status] += act.Duration
		}
	}

	for status, hours := range totals {
		totals[status] = round2(hours)
	}

	sum := 0.0
	for _, hours := range totals {
		sum += hours
	}
	if math.Abs(sum-24) > 0.01 {
		totals[domain.StatusOffDuty] = round2(totals[domain.StatusOffDuty] + (24 - sum))
	}

	return totals
}

func clockLabel(hour float64) string {
	h := int(hour)
	m := int(math.Mod(hour, 1) * 60)
	return fmt.Sprintf("%02d:%02d", h, m)
}

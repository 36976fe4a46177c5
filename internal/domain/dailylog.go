package domain

import "time"

// Activity is one clipped duty-status span on a daily log grid.
// StartHour/EndHour are hours from the day's midnight, so StartHour is in
// [0,24) and EndHour in (0,24].
type Activity struct {
	Status      DutyStatus `json:"status"`
	StartHour   float64    `json:"start_hour"`
	EndHour     float64    `json:"end_hour"`
	Duration    float64    `json:"duration"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
}

// Remark annotates a status change on the log (the "remarks" line of an
// ELD record sheet).
type Remark struct {
	Time     string     `json:"time"` // HH:MM within the day
	Status   DutyStatus `json:"status"`
	Text     string     `json:"text"`
	Location string     `json:"location"`
}

// DailyLog is one calendar day of the trip, derived from the event timeline.
// Totals maps each duty status to its hours for the day and always sums to
// 24.00 within a 0.01 tolerance; gaps are filled with off-duty activities.
// Immutable once produced.
type DailyLog struct {
	DayNumber  int                    `json:"day"`
	Date       time.Time              `json:"date"`
	TotalMiles float64                `json:"total_miles"`
	Activities []Activity             `json:"activities"`
	Remarks    []Remark               `json:"remarks"`
	Totals     map[DutyStatus]float64 `json:"totals"`
}

package domain

// DutyStatus is one of the four ELD duty-status lines.
type DutyStatus string

const (
	StatusDriving          DutyStatus = "driving"
	StatusOnDutyNotDriving DutyStatus = "on_duty_not_driving"
	StatusOffDuty          DutyStatus = "off_duty"
	StatusSleeperBerth     DutyStatus = "sleeper_berth"
)

// Event is a single entry on the continuous trip timeline.
// Clock and Duration are hours relative to the trip's reference origin,
// Distance is the cumulative odometer (miles) at the event's start, and
// Miles is set only for driving events.
type Event struct {
	Status      DutyStatus `json:"status"`
	Clock       float64    `json:"clock"`
	Duration    float64    `json:"duration"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Distance    float64    `json:"distance"`
	Miles       *float64   `json:"miles,omitempty"`
}

// End returns the event's finishing instant on the trip clock.
func (e Event) End() float64 { return e.Clock + e.Duration }

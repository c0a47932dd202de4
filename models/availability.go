package models

// DayStatus is the resolved public-calendar state of a single date. Booked
// covers both actual bookings and client-blocked dates; the public calendar
// deliberately does not distinguish the two.
type DayStatus string

const (
	DayPast        DayStatus = "past"
	DayAvailable   DayStatus = "available"
	DayBooked      DayStatus = "booked"
	DayUnavailable DayStatus = "unavailable"
)

// AvailabilityEntry is an admin-authored slot list under availability/<date>.
// Dates with no entry have no explicit availability.
type AvailabilityEntry struct {
	Slots     []string `json:"slots"`
	UpdatedAt string   `json:"updated_at,omitempty"`
}

// SetAvailabilityRequest writes the same slot list to every date in the
// inclusive range.
type SetAvailabilityRequest struct {
	From  string   `json:"from" binding:"required"`
	To    string   `json:"to" binding:"required"`
	Slots []string `json:"slots,omitempty"`
}

// CalendarDay is one cell of the public month grid. Today is orthogonal to
// the status; Selectable mirrors what a consumer may make clickable.
type CalendarDay struct {
	Day        int       `json:"day"`
	Date       string    `json:"date"`
	Status     DayStatus `json:"status"`
	Today      bool      `json:"today,omitempty"`
	Selectable bool      `json:"selectable"`
}

// CalendarMonth is the public calendar rendering contract: Leading empty
// placeholder cells before day 1, then one exclusive status per day.
// Degraded is the passive warning flag for unreachable availability data.
type CalendarMonth struct {
	Year     int           `json:"year"`
	Month    int           `json:"month"`
	Leading  int           `json:"leading"`
	Days     []CalendarDay `json:"days"`
	Degraded bool          `json:"degraded,omitempty"`
}

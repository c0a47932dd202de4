package models

// Calendar event types rendered as colored dots on the admin calendar.
const (
	EventTrial    = "trial"
	EventSession  = "session"
	EventBlocked  = "blocked"
	EventClient   = "client"
	EventOverride = "override"
)

// CalendarEvent is an admin-only overlay entry. Stored events live under
// calendar_events/<key>; accepted bookings and active-client contract days
// are synthesized into the same shape at read time (Source "booking" or
// "client") and are not persisted or deletable.
type CalendarEvent struct {
	ID        string `json:"id,omitempty"`
	Date      string `json:"date"`
	Type      string `json:"type"`
	Title     string `json:"title,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Source    string `json:"source,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type CreateEventRequest struct {
	Date      string `json:"date" binding:"required"`
	Type      string `json:"type" binding:"required"`
	Title     string `json:"title,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// AdminCalendarDay carries the per-day dot indicators for the admin grid.
type AdminCalendarDay struct {
	Day   int      `json:"day"`
	Date  string   `json:"date"`
	Today bool     `json:"today,omitempty"`
	Types []string `json:"types,omitempty"`
}

type AdminCalendarMonth struct {
	Year    int                `json:"year"`
	Month   int                `json:"month"`
	Leading int                `json:"leading"`
	Days    []AdminCalendarDay `json:"days"`
	Events  []CalendarEvent    `json:"events"`
}

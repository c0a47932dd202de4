package models

// Booking statuses. Accepted bookings stay accepted after a convert-to-client;
// declined is terminal.
const (
	BookingPending  = "pending"
	BookingAccepted = "accepted"
	BookingDeclined = "declined"
)

type BookingChild struct {
	Name string `json:"name"`
	Age  string `json:"age,omitempty"`
}

// TrialBooking is a prospective family's request for an introductory session.
// Records live under trial_bookings/<key>; ID carries the store key and is
// never persisted as a field.
type TrialBooking struct {
	ID            string         `json:"id,omitempty"`
	ParentName    string         `json:"parent_name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	Children      []BookingChild `json:"children,omitempty"`
	SelectedDate  string         `json:"selected_date"`
	PreferredTime string         `json:"preferred_time,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	Status        string         `json:"status"`
	DeclineReason string         `json:"decline_reason,omitempty"`
	CreatedAt     string         `json:"created_at"`
	UpdatedAt     string         `json:"updated_at,omitempty"`
}

type CreateTrialBookingRequest struct {
	ParentName    string         `json:"parent_name" binding:"required"`
	Email         string         `json:"email" binding:"required,email"`
	Phone         string         `json:"phone" binding:"required"`
	Children      []BookingChild `json:"children,omitempty"`
	SelectedDate  string         `json:"selected_date" binding:"required"`
	PreferredTime string         `json:"preferred_time,omitempty"`
	Notes         string         `json:"notes,omitempty"`
}

type DeclineBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}

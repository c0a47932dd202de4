package handlers

import (
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sanz-the-nanny/backend-booking/config"
	"github.com/sanz-the-nanny/backend-booking/models"
	"github.com/sanz-the-nanny/backend-booking/services"
	"github.com/sanz-the-nanny/backend-booking/store"
)

type BookingHandler struct {
	store    store.Client
	config   *config.Config
	email    services.EmailSender
	activity *services.ActivityLogger
}

func NewBookingHandler(st store.Client, cfg *config.Config, email services.EmailSender, activity *services.ActivityLogger) *BookingHandler {
	return &BookingHandler{
		store:    st,
		config:   cfg,
		email:    email,
		activity: activity,
	}
}

// CreateTrialBooking handles the public booking-form submission. The date
// must resolve as available at the moment of creation; the check is
// best-effort and fails open when no availability data is reachable.
func (h *BookingHandler) CreateTrialBooking(c *gin.Context) {
	var req models.CreateTrialBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	date, err := services.ParseDateKey(req.SelectedDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Invalid selected_date, expected YYYY-MM-DD",
		})
		return
	}

	maps := services.LoadDayMaps(c.Request.Context(), h.store)
	if status := services.Resolve(date, maps, time.Now()); status != models.DayAvailable {
		c.JSON(http.StatusConflict, models.Response{
			Success: false,
			Error:   "Selected date is not available",
		})
		return
	}

	booking := models.TrialBooking{
		ParentName:    req.ParentName,
		Email:         req.Email,
		Phone:         req.Phone,
		Children:      req.Children,
		SelectedDate:  req.SelectedDate,
		PreferredTime: req.PreferredTime,
		Notes:         req.Notes,
		Status:        models.BookingPending,
		CreatedAt:     services.NowISO(),
	}

	key, err := h.store.Push(c.Request.Context(), store.PathTrialBookings, booking)
	if err != nil {
		log.Printf("[Bookings] create failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to save booking",
		})
		return
	}
	booking.ID = key

	// Auto-create a client record from the submission. Independent write:
	// a failure here is logged and never undoes the booking.
	client := models.Client{
		FamilyName: req.ParentName,
		ParentName: req.ParentName,
		Email:      req.Email,
		Phone:      req.Phone,
		Children:   bookingChildrenToClient(req.Children),
		Notes:      "Auto-created from trial booking on " + req.SelectedDate,
		Status:     models.ClientActive,
		Source:     "trial_booking",
		CreatedAt:  services.NowISO(),
	}
	if _, err := h.store.Push(c.Request.Context(), store.PathClients, client); err != nil {
		log.Printf("[Bookings] auto-create client failed: %v", err)
	}

	// Admin notice and visitor confirmation are dispatched independently;
	// neither blocks the response or the other.
	go h.sendNewBookingAdminNotice(booking)
	go h.sendNewBookingConfirmation(booking)

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Trial session requested",
		Data:    booking,
	})
}

// GetBookings lists trial bookings for the admin dashboard, newest first.
func (h *BookingHandler) GetBookings(c *gin.Context) {
	statusFilter := c.Query("status")

	var records map[string]models.TrialBooking
	if err := h.store.ReadOnce(c.Request.Context(), store.PathTrialBookings, &records); err != nil {
		log.Printf("[Bookings] list failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to fetch bookings",
		})
		return
	}

	bookings := make([]models.TrialBooking, 0, len(records))
	for key, b := range records {
		b.ID = key
		if statusFilter != "" && b.Status != statusFilter {
			continue
		}
		bookings = append(bookings, b)
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt > bookings[j].CreatedAt
	})

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data:    bookings,
	})
}

// AcceptBooking confirms a pending booking. The status write is blocking;
// the confirmation email and audit record are best-effort side effects.
func (h *BookingHandler) AcceptBooking(c *gin.Context) {
	key := c.Param("id")

	booking, ok := h.readBooking(c, key)
	if !ok {
		return
	}
	if booking.Status != models.BookingPending {
		c.JSON(http.StatusConflict, models.Response{
			Success: false,
			Error:   "Only pending bookings can be accepted",
		})
		return
	}

	updatedAt := services.NowISO()
	err := h.store.Update(c.Request.Context(), store.ChildPath(store.PathTrialBookings, key), map[string]interface{}{
		"status":     models.BookingAccepted,
		"updated_at": updatedAt,
	})
	if err != nil {
		log.Printf("[Bookings] accept failed for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to accept booking",
		})
		return
	}
	booking.Status = models.BookingAccepted
	booking.UpdatedAt = updatedAt

	h.activity.Log("booking_accepted", "Accepted trial booking: "+key, "booking", c.GetString("email"))
	go h.sendAcceptedEmail(booking)

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Booking accepted",
		Data:    booking,
	})
}

// DeclineBooking declines a pending booking with an optional free-text
// reason. Declined is terminal; the record persists as history.
func (h *BookingHandler) DeclineBooking(c *gin.Context) {
	key := c.Param("id")

	var req models.DeclineBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.Response{
				Success: false,
				Error:   "Invalid request body",
			})
			return
		}
	}

	booking, ok := h.readBooking(c, key)
	if !ok {
		return
	}
	if booking.Status != models.BookingPending {
		c.JSON(http.StatusConflict, models.Response{
			Success: false,
			Error:   "Only pending bookings can be declined",
		})
		return
	}

	updatedAt := services.NowISO()
	err := h.store.Update(c.Request.Context(), store.ChildPath(store.PathTrialBookings, key), map[string]interface{}{
		"status":         models.BookingDeclined,
		"decline_reason": req.Reason,
		"updated_at":     updatedAt,
	})
	if err != nil {
		log.Printf("[Bookings] decline failed for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to decline booking",
		})
		return
	}
	booking.Status = models.BookingDeclined
	booking.DeclineReason = req.Reason
	booking.UpdatedAt = updatedAt

	h.activity.Log("booking_declined", "Declined trial booking: "+key, "booking", c.GetString("email"))
	go h.sendDeclinedEmail(booking, req.Reason)

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Booking declined",
		Data:    booking,
	})
}

// ConvertToClient returns a client draft prefilled from the booking. It does
// not mutate the booking; saving the draft is a separate client create, so a
// family auto-created at submission time can end up with a second record.
func (h *BookingHandler) ConvertToClient(c *gin.Context) {
	key := c.Param("id")

	booking, ok := h.readBooking(c, key)
	if !ok {
		return
	}

	draft := models.ClientDraft{
		FamilyName: booking.ParentName,
		ParentName: booking.ParentName,
		Email:      booking.Email,
		Phone:      booking.Phone,
		Children:   bookingChildrenToClient(booking.Children),
		Notes:      "Converted from trial booking on " + booking.SelectedDate,
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data:    draft,
	})
}

func (h *BookingHandler) readBooking(c *gin.Context, key string) (models.TrialBooking, bool) {
	var booking models.TrialBooking
	err := h.store.ReadOnce(c.Request.Context(), store.ChildPath(store.PathTrialBookings, key), &booking)
	if err != nil {
		log.Printf("[Bookings] read failed for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to fetch booking",
		})
		return booking, false
	}
	if booking.ParentName == "" && booking.SelectedDate == "" {
		c.JSON(http.StatusNotFound, models.Response{
			Success: false,
			Error:   "Booking not found",
		})
		return booking, false
	}
	booking.ID = key
	return booking, true
}

func bookingChildrenToClient(children []models.BookingChild) []models.ClientChild {
	out := make([]models.ClientChild, 0, len(children))
	for _, ch := range children {
		out = append(out, models.ClientChild{Name: ch.Name, Age: ch.Age})
	}
	return out
}

func childrenSummary(children []models.BookingChild) string {
	parts := make([]string, 0, len(children))
	for _, ch := range children {
		s := ch.Name
		if ch.Age != "" {
			s += " (age " + ch.Age + ")"
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, ", ")
}

func (h *BookingHandler) sendNewBookingAdminNotice(b models.TrialBooking) {
	notes := b.Notes
	if notes == "" {
		notes = "None"
	}
	body := `<p style="font-size:15px;color:#333;">Hi ` + h.config.AdminName + `,</p>` +
		`<p style="color:#555;">A new trial booking request has been submitted:</p>` +
		`<table style="width:100%;font-size:14px;margin:16px 0;">` +
		emailRow("Parent", b.ParentName) +
		emailRow("Email", b.Email) +
		emailRow("Phone", b.Phone) +
		emailRow("Date", services.FormatDateNice(b.SelectedDate)) +
		emailRow("Time", b.PreferredTime) +
		emailRow("Children", childrenSummary(b.Children)) +
		emailRow("Notes", notes) +
		`</table>`
	err := h.email.Send(h.config.NotifyEmail, "New Trial Booking - "+b.ParentName,
		"New Trial Booking", body, "", b.Email)
	if err != nil {
		log.Printf("[Bookings] admin notice email failed: %v", err)
	}
}

func (h *BookingHandler) sendNewBookingConfirmation(b models.TrialBooking) {
	body := `<p style="font-size:15px;color:#333;">Hi ` + b.ParentName + `,</p>` +
		`<p style="color:#555;">Thank you for requesting a trial session! Here are the details I received:</p>` +
		`<div style="background:#fff5f7;padding:16px;border-radius:8px;margin:16px 0;">` +
		`<p style="margin:4px 0;"><strong>Date:</strong> ` + services.FormatDateNice(b.SelectedDate) + `</p>` +
		`<p style="margin:4px 0;"><strong>Time:</strong> ` + b.PreferredTime + `</p>` +
		`<p style="margin:4px 0;"><strong>Children:</strong> ` + childrenSummary(b.Children) + `</p>` +
		`</div>` +
		`<p style="color:#555;">I'll review your request and confirm your booking soon. Looking forward to meeting your family!</p>` +
		`<p style="color:#c44569;font-weight:600;">&mdash; ` + h.config.AdminName + `</p>`
	err := h.email.Send(b.Email, "Trial Booking Received! - Sanz the Nanny",
		"Booking Received!", body, "This is an automated confirmation. "+h.config.AdminName+" will follow up shortly.", "")
	if err != nil {
		log.Printf("[Bookings] booking auto-reply failed: %v", err)
	}
}

func (h *BookingHandler) sendAcceptedEmail(b models.TrialBooking) {
	if b.Email == "" {
		return
	}
	body := `<p style="font-size:15px;color:#333;">Hi ` + b.ParentName + `,</p>` +
		`<p style="color:#555;">Great news! Your trial session has been <strong style="color:#4caf50;">confirmed</strong>!</p>` +
		`<div style="background:#fff5f7;padding:16px;border-radius:8px;margin:16px 0;">` +
		`<p style="margin:4px 0;"><strong>Date:</strong> ` + services.FormatDateNice(b.SelectedDate) + `</p>` +
		`<p style="margin:4px 0;"><strong>Time:</strong> ` + b.PreferredTime + `</p>` +
		`</div>` +
		`<p style="color:#555;">Looking forward to meeting your family!</p>` +
		`<p style="color:#c44569;font-weight:600;">&mdash; ` + h.config.AdminName + `</p>`
	err := h.email.Send(b.Email, "Trial Session Confirmed! - Sanz the Nanny",
		"Session Confirmed!", body, "If you need to reschedule, please reply to this email.", "")
	if err != nil {
		log.Printf("[Bookings] confirmation email failed: %v", err)
	}
}

func (h *BookingHandler) sendDeclinedEmail(b models.TrialBooking, reason string) {
	if b.Email == "" {
		return
	}
	msg := "Unfortunately, this time slot is not available. Please try another date."
	if reason != "" {
		msg = "Unfortunately, this time slot is not available. Reason: " + reason
	}
	body := `<p style="font-size:15px;color:#333;">Hi ` + b.ParentName + `,</p>` +
		`<p style="color:#555;">` + msg + `</p>` +
		`<div style="background:#fff5f7;padding:16px;border-radius:8px;margin:16px 0;">` +
		`<p style="margin:4px 0;"><strong>Requested Date:</strong> ` + services.FormatDateNice(b.SelectedDate) + `</p>` +
		`<p style="margin:4px 0;"><strong>Requested Time:</strong> ` + b.PreferredTime + `</p>` +
		`</div>` +
		`<p style="color:#555;">Please feel free to request a different date — I'd love to find a time that works for your family!</p>` +
		`<p style="color:#c44569;font-weight:600;">&mdash; ` + h.config.AdminName + `</p>`
	err := h.email.Send(b.Email, "Booking Update - Sanz the Nanny",
		"Booking Update", body, "Reply to this email if you'd like to try another date.", "")
	if err != nil {
		log.Printf("[Bookings] decline email failed: %v", err)
	}
}

func emailRow(label, value string) string {
	if value == "" {
		value = "—"
	}
	return `<tr><td style="padding:6px 12px;font-weight:600;color:#c44569;width:100px;">` + label +
		`</td><td style="padding:6px 12px;">` + value + `</td></tr>`
}

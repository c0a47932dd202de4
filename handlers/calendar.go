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

type CalendarHandler struct {
	store    store.Client
	config   *config.Config
	activity *services.ActivityLogger
}

func NewCalendarHandler(st store.Client, cfg *config.Config, activity *services.ActivityLogger) *CalendarHandler {
	return &CalendarHandler{
		store:    st,
		config:   cfg,
		activity: activity,
	}
}

// GetAdminCalendar returns the month grid with per-day event-type dots plus
// the month's event list. Stored events are merged with two synthesized
// overlays: accepted trial bookings and active clients' contract windows.
func (h *CalendarHandler) GetAdminCalendar(c *gin.Context) {
	now := time.Now()
	year, month, ok := monthParams(c, now)
	if !ok {
		return
	}

	events := h.loadStoredEvents(c)
	events = append(events, h.bookingEvents(c)...)
	events = append(events, h.clientEvents(c)...)

	byDate := map[string][]string{}
	for _, ev := range events {
		byDate[ev.Date] = appendType(byDate[ev.Date], ev.Type)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, now.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()

	grid := models.AdminCalendarMonth{
		Year:    year,
		Month:   month,
		Leading: int(first.Weekday()),
		Days:    make([]models.AdminCalendarDay, 0, daysInMonth),
	}
	for day := 1; day <= daysInMonth; day++ {
		date := first.AddDate(0, 0, day-1)
		key := services.DateKey(date)
		grid.Days = append(grid.Days, models.AdminCalendarDay{
			Day:   day,
			Date:  key,
			Today: isToday(date, now),
			Types: byDate[key],
		})
	}

	monthEvents := make([]models.CalendarEvent, 0)
	prefix := services.DateKey(first)[:7]
	for _, ev := range events {
		if len(ev.Date) >= 7 && ev.Date[:7] == prefix {
			monthEvents = append(monthEvents, ev)
		}
	}
	sort.Slice(monthEvents, func(i, j int) bool {
		if monthEvents[i].Date != monthEvents[j].Date {
			return monthEvents[i].Date < monthEvents[j].Date
		}
		return monthEvents[i].StartTime < monthEvents[j].StartTime
	})
	grid.Events = monthEvents

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data:    grid,
	})
}

func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}
	if _, err := services.ParseDateKey(req.Date); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Invalid date, expected YYYY-MM-DD",
		})
		return
	}

	title := req.Title
	if title == "" {
		title = req.Type
	}
	event := models.CalendarEvent{
		Date:      req.Date,
		Type:      req.Type,
		Title:     title,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
		CreatedAt: services.NowISO(),
	}

	key, err := h.store.Push(c.Request.Context(), store.PathCalendarEvents, event)
	if err != nil {
		log.Printf("[Calendar] create event failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to save event",
		})
		return
	}
	event.ID = key

	h.activity.Log("event_created", "Added calendar event: "+title, "calendar_event", c.GetString("email"))

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Event created",
		Data:    event,
	})
}

// DeleteEvent removes a stored event. Synthesized booking and client
// entries carry prefixed ids and are rejected here.
func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	key := c.Param("id")
	if strings.HasPrefix(key, "booking-") || strings.HasPrefix(key, "client-") {
		c.JSON(http.StatusConflict, models.Response{
			Success: false,
			Error:   "Derived events cannot be deleted",
		})
		return
	}
	if err := h.store.Remove(c.Request.Context(), store.ChildPath(store.PathCalendarEvents, key)); err != nil {
		log.Printf("[Calendar] delete event failed for %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to delete event",
		})
		return
	}
	h.activity.Log("event_deleted", "Removed calendar event", "calendar_event", c.GetString("email"))
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Event deleted",
	})
}

func (h *CalendarHandler) loadStoredEvents(c *gin.Context) []models.CalendarEvent {
	var records map[string]models.CalendarEvent
	if err := h.store.ReadOnce(c.Request.Context(), store.PathCalendarEvents, &records); err != nil {
		log.Printf("[Calendar] events read failed: %v", err)
		return nil
	}
	events := make([]models.CalendarEvent, 0, len(records))
	for key, ev := range records {
		ev.ID = key
		events = append(events, ev)
	}
	return events
}

// bookingEvents synthesizes a trial entry for every accepted booking.
func (h *CalendarHandler) bookingEvents(c *gin.Context) []models.CalendarEvent {
	var records map[string]models.TrialBooking
	if err := h.store.ReadOnce(c.Request.Context(), store.PathTrialBookings, &records); err != nil {
		log.Printf("[Calendar] bookings read failed: %v", err)
		return nil
	}
	events := make([]models.CalendarEvent, 0)
	for key, b := range records {
		if b.Status != models.BookingAccepted || b.SelectedDate == "" {
			continue
		}
		notes := ""
		if len(b.Children) > 0 {
			notes = "Children: " + childrenSummary(b.Children)
		}
		events = append(events, models.CalendarEvent{
			ID:        "booking-" + key,
			Date:      b.SelectedDate,
			Type:      models.EventTrial,
			Title:     "Trial: " + b.ParentName,
			StartTime: b.PreferredTime,
			Notes:     notes,
			Source:    "booking",
		})
	}
	return events
}

// clientEvents expands each active client's contract window into per-day
// entries, typed "override" when the client's block is switched off.
func (h *CalendarHandler) clientEvents(c *gin.Context) []models.CalendarEvent {
	var records map[string]models.Client
	if err := h.store.ReadOnce(c.Request.Context(), store.PathClients, &records); err != nil {
		log.Printf("[Calendar] clients read failed: %v", err)
		return nil
	}
	events := make([]models.CalendarEvent, 0)
	for key, cl := range records {
		if cl.Status != "" && cl.Status != models.ClientActive {
			continue
		}
		if cl.ContractStart == "" {
			continue
		}
		start, err := services.ParseDateKey(cl.ContractStart)
		if err != nil {
			continue
		}
		end := start.AddDate(0, 0, services.DefaultContractDays)
		if cl.ContractEnd != "" {
			if e, err := services.ParseDateKey(cl.ContractEnd); err == nil {
				end = e
			}
		}
		evType := models.EventClient
		if cl.AvailabilityOverride {
			evType = models.EventOverride
		}
		next := services.IterateDates(start, end)
		for d, ok := next(); ok; d, ok = next() {
			dateKey := services.DateKey(d)
			events = append(events, models.CalendarEvent{
				ID:     "client-" + key + "-" + dateKey,
				Date:   dateKey,
				Type:   evType,
				Title:  clientDisplayName(cl),
				Source: "client",
			})
		}
	}
	return events
}

func appendType(types []string, t string) []string {
	for _, existing := range types {
		if existing == t {
			return types
		}
	}
	return append(types, t)
}

package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sanz-the-nanny/backend-booking/config"
	"github.com/sanz-the-nanny/backend-booking/models"
	"github.com/sanz-the-nanny/backend-booking/services"
	"github.com/sanz-the-nanny/backend-booking/store"
)

type AvailabilityHandler struct {
	store    store.Client
	config   *config.Config
	activity *services.ActivityLogger
}

func NewAvailabilityHandler(st store.Client, cfg *config.Config, activity *services.ActivityLogger) *AvailabilityHandler {
	return &AvailabilityHandler{
		store:    st,
		config:   cfg,
		activity: activity,
	}
}

// GetCalendar resolves one month of the public booking calendar. Every call
// re-reads the store; there is no server-side cache to go stale.
func (h *AvailabilityHandler) GetCalendar(c *gin.Context) {
	now := time.Now()
	year, month, ok := monthParams(c, now)
	if !ok {
		return
	}

	maps := services.LoadDayMaps(c.Request.Context(), h.store)

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	payload := models.CalendarMonth{
		Year:     year,
		Month:    month,
		Leading:  int(first.Weekday()),
		Days:     make([]models.CalendarDay, 0, daysInMonth),
		Degraded: maps.Degraded,
	}

	for d := 1; d <= daysInMonth; d++ {
		date := time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.Local)
		status := services.Resolve(date, maps, now)
		payload.Days = append(payload.Days, models.CalendarDay{
			Day:        d,
			Date:       services.DateKey(date),
			Status:     status,
			Today:      isToday(date, now),
			Selectable: status == models.DayAvailable,
		})
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data:    payload,
	})
}

// SetAvailability bulk-writes the same slot list to every date in the
// inclusive range. Dates never written stay without an explicit entry.
func (h *AvailabilityHandler) SetAvailability(c *gin.Context) {
	var req models.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	from, err := services.ParseDateKey(req.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Invalid from date, expected YYYY-MM-DD",
		})
		return
	}
	to, err := services.ParseDateKey(req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Invalid to date, expected YYYY-MM-DD",
		})
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Error:   "Date range is reversed",
		})
		return
	}

	slots := make([]string, 0, len(req.Slots))
	for _, s := range req.Slots {
		if s != "" {
			slots = append(slots, s)
		}
	}
	if len(slots) == 0 {
		slots = []string{"Flexible"}
	}

	updates := map[string]interface{}{}
	next := services.IterateDates(from, to)
	for d, more := next(); more; d, more = next() {
		updates[services.DateKey(d)] = models.AvailabilityEntry{
			Slots:     slots,
			UpdatedAt: services.NowISO(),
		}
	}

	if err := h.store.Update(c.Request.Context(), store.PathAvailability, updates); err != nil {
		log.Printf("[Availability] bulk write failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Error:   "Failed to save availability",
		})
		return
	}

	h.activity.Log("availability_set", "Set availability from "+req.From+" to "+req.To, "calendar", c.GetString("email"))

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Availability saved",
	})
}

func monthParams(c *gin.Context, now time.Time) (int, int, bool) {
	year := now.Year()
	month := int(now.Month())
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 2000 || y > 2200 {
			c.JSON(http.StatusBadRequest, models.Response{Success: false, Error: "Invalid year"})
			return 0, 0, false
		}
		year = y
	}
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			c.JSON(http.StatusBadRequest, models.Response{Success: false, Error: "Invalid month"})
			return 0, 0, false
		}
		month = m
	}
	return year, month, true
}

func isToday(date, now time.Time) bool {
	return date.Year() == now.Year() && date.Month() == now.Month() && date.Day() == now.Day()
}

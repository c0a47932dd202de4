package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sanz-the-nanny/backend-booking/models"
	"github.com/sanz-the-nanny/backend-booking/services"
	"github.com/sanz-the-nanny/backend-booking/store"
)

func newCalendarRouter(st store.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	activity := services.NewActivityLogger(st)
	h := NewCalendarHandler(st, cfg, activity)

	router := gin.New()
	router.GET("/api/v1/admin/calendar", h.GetAdminCalendar)
	router.POST("/api/v1/admin/events", h.CreateEvent)
	router.DELETE("/api/v1/admin/events/:id", h.DeleteEvent)
	return router
}

func adminMonth(t *testing.T, router *gin.Engine, year, month string) models.AdminCalendarMonth {
	t.Helper()
	w := doJSON(router, http.MethodGet, "/api/v1/admin/calendar?year="+year+"&month="+month, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data models.AdminCalendarMonth `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.Data
}

func TestAdminCalendarOverlay(t *testing.T) {
	st := store.NewMemory()
	router := newCalendarRouter(st)
	ctx := context.Background()

	st.Set(ctx, store.ChildPath(store.PathCalendarEvents, "ev1"), models.CalendarEvent{
		Date:      "2099-06-10",
		Type:      models.EventSession,
		Title:     "Afternoon session",
		CreatedAt: services.NowISO(),
	})
	st.Set(ctx, store.ChildPath(store.PathTrialBookings, "b1"), models.TrialBooking{
		ParentName:   "Emma Miller",
		SelectedDate: "2099-06-12",
		Status:       models.BookingAccepted,
		CreatedAt:    services.NowISO(),
	})
	st.Set(ctx, store.ChildPath(store.PathTrialBookings, "b2"), models.TrialBooking{
		ParentName:   "Pending Parent",
		SelectedDate: "2099-06-13",
		Status:       models.BookingPending,
		CreatedAt:    services.NowISO(),
	})
	seedTestClient(t, st, "c1", models.Client{
		FamilyName:    "Davis",
		Status:        models.ClientActive,
		ContractStart: "2099-06-01",
		ContractEnd:   "2099-06-05",
	})

	grid := adminMonth(t, router, "2099", "6")

	types := map[string][]string{}
	for _, day := range grid.Days {
		types[day.Date] = day.Types
	}
	if got := types["2099-06-10"]; len(got) != 1 || got[0] != models.EventSession {
		t.Errorf("stored event dots = %v", got)
	}
	if got := types["2099-06-12"]; len(got) != 1 || got[0] != models.EventTrial {
		t.Errorf("accepted booking dots = %v, want trial", got)
	}
	if got := types["2099-06-13"]; len(got) != 0 {
		t.Errorf("pending booking produced dots: %v", got)
	}
	for _, date := range []string{"2099-06-01", "2099-06-03", "2099-06-05"} {
		if got := types[date]; len(got) != 1 || got[0] != models.EventClient {
			t.Errorf("contract day %s dots = %v, want client", date, got)
		}
	}
	if got := types["2099-06-06"]; len(got) != 0 {
		t.Errorf("day past contract end has dots: %v", got)
	}

	var trial *models.CalendarEvent
	for i := range grid.Events {
		if grid.Events[i].Source == "booking" {
			trial = &grid.Events[i]
		}
	}
	if trial == nil {
		t.Fatal("no synthesized trial event in month list")
	}
	if trial.Title != "Trial: Emma Miller" || trial.ID != "booking-b1" {
		t.Errorf("trial event = %+v", trial)
	}
}

func TestAdminCalendarOverrideType(t *testing.T) {
	st := store.NewMemory()
	router := newCalendarRouter(st)

	seedTestClient(t, st, "c1", models.Client{
		FamilyName:           "Davis",
		Status:               models.ClientActive,
		ContractStart:        "2099-06-01",
		ContractEnd:          "2099-06-03",
		AvailabilityOverride: true,
	})

	grid := adminMonth(t, router, "2099", "6")
	for _, day := range grid.Days {
		if day.Date == "2099-06-02" {
			if len(day.Types) != 1 || day.Types[0] != models.EventOverride {
				t.Errorf("override day dots = %v, want override", day.Types)
			}
		}
	}
}

func TestCreateAndDeleteEvent(t *testing.T) {
	st := store.NewMemory()
	router := newCalendarRouter(st)
	ctx := context.Background()

	w := doJSON(router, http.MethodPost, "/api/v1/admin/events", gin.H{
		"date": "2099-06-10",
		"type": models.EventBlocked,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data models.CalendarEvent `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Title != models.EventBlocked {
		t.Errorf("title = %q, want type as default", resp.Data.Title)
	}

	w = doJSON(router, http.MethodDelete, "/api/v1/admin/events/"+resp.Data.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	var events map[string]models.CalendarEvent
	st.ReadOnce(ctx, store.PathCalendarEvents, &events)
	if len(events) != 0 {
		t.Errorf("%d events remain after delete", len(events))
	}
}

func TestDeleteDerivedEventRejected(t *testing.T) {
	st := store.NewMemory()
	router := newCalendarRouter(st)

	w := doJSON(router, http.MethodDelete, "/api/v1/admin/events/booking-b1", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sanz-the-nanny/backend-booking/config"
	"github.com/sanz-the-nanny/backend-booking/models"
	"github.com/sanz-the-nanny/backend-booking/services"
	"github.com/sanz-the-nanny/backend-booking/store"
)

type fakeEmail struct {
	mu   sync.Mutex
	sent []string
	fail error
}

func (f *fakeEmail) Send(to, subject, title, bodyHTML, footerNote, replyTo string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, to+"|"+subject)
	return nil
}

func (f *fakeEmail) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeEmail) waitFor(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for f.count() < n {
		if time.Now().After(deadline) {
			t.Fatalf("sent %d emails, waited for %d", f.count(), n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		AdminName:   "Sanz",
		AdminEmail:  "sanz.the.nanny@gmail.com",
		NotifyEmail: "sanz.the.nanny@gmail.com",
		JWTSecret:   "test-secret",
	}
}

func newBookingRouter(st store.Client, email services.EmailSender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	activity := services.NewActivityLogger(st)
	h := NewBookingHandler(st, cfg, email, activity)
	ah := NewAvailabilityHandler(st, cfg, activity)

	router := gin.New()
	router.GET("/api/v1/calendar", ah.GetCalendar)
	router.POST("/api/v1/bookings", h.CreateTrialBooking)
	router.GET("/api/v1/bookings", h.GetBookings)
	router.PUT("/api/v1/bookings/:id/accept", h.AcceptBooking)
	router.PUT("/api/v1/bookings/:id/decline", h.DeclineBooking)
	router.POST("/api/v1/bookings/:id/convert", h.ConvertToClient)
	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newRecorder(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func futureDate(days int) string {
	return services.DateKey(time.Now().AddDate(0, 0, days))
}

func TestCreateTrialBooking(t *testing.T) {
	st := store.NewMemory()
	email := &fakeEmail{}
	router := newBookingRouter(st, email)

	date := futureDate(14)
	w := doJSON(router, http.MethodPost, "/api/v1/bookings", gin.H{
		"parent_name":   "Emma Miller",
		"email":         "emma@example.com",
		"phone":         "555-0101",
		"selected_date": date,
		"children":      []gin.H{{"name": "Lily", "age": "4"}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var bookings map[string]models.TrialBooking
	if err := st.ReadOnce(context.Background(), store.PathTrialBookings, &bookings); err != nil {
		t.Fatalf("read bookings: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("stored %d bookings, want 1", len(bookings))
	}
	for _, b := range bookings {
		if b.Status != models.BookingPending {
			t.Errorf("status = %q, want pending", b.Status)
		}
		if b.SelectedDate != date {
			t.Errorf("selected_date = %q, want %q", b.SelectedDate, date)
		}
		if b.CreatedAt == "" {
			t.Error("created_at not set")
		}
	}

	// The submission also seeds a client record.
	var clients map[string]models.Client
	if err := st.ReadOnce(context.Background(), store.PathClients, &clients); err != nil {
		t.Fatalf("read clients: %v", err)
	}
	if len(clients) != 1 {
		t.Fatalf("stored %d clients, want 1", len(clients))
	}
	for _, cl := range clients {
		if cl.Source != "trial_booking" {
			t.Errorf("client source = %q, want trial_booking", cl.Source)
		}
	}

	// Admin notice plus visitor confirmation.
	email.waitFor(t, 2)
}

func TestCreateTrialBookingValidation(t *testing.T) {
	st := store.NewMemory()
	router := newBookingRouter(st, &fakeEmail{})

	w := doJSON(router, http.MethodPost, "/api/v1/bookings", gin.H{
		"parent_name": "Emma",
		"email":       "not-an-email",
		"phone":       "555-0101",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	w = doJSON(router, http.MethodPost, "/api/v1/bookings", gin.H{
		"parent_name":   "Emma",
		"email":         "emma@example.com",
		"phone":         "555-0101",
		"selected_date": "06/20/2026",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d for bad date, want 400", w.Code)
	}
}

func TestCreateTrialBookingDateTaken(t *testing.T) {
	st := store.NewMemory()
	router := newBookingRouter(st, &fakeEmail{})
	date := futureDate(14)

	st.Set(context.Background(), store.ChildPath(store.PathTrialBookings, "b1"), models.TrialBooking{
		ParentName:   "First",
		Email:        "first@example.com",
		SelectedDate: date,
		Status:       models.BookingPending,
		CreatedAt:    services.NowISO(),
	})

	w := doJSON(router, http.MethodPost, "/api/v1/bookings", gin.H{
		"parent_name":   "Second",
		"email":         "second@example.com",
		"phone":         "555-0102",
		"selected_date": date,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409; body %s", w.Code, w.Body.String())
	}
}

func TestCreateTrialBookingPastDate(t *testing.T) {
	st := store.NewMemory()
	router := newBookingRouter(st, &fakeEmail{})

	w := doJSON(router, http.MethodPost, "/api/v1/bookings", gin.H{
		"parent_name":   "Emma",
		"email":         "emma@example.com",
		"phone":         "555-0101",
		"selected_date": "2020-01-01",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d for past date, want 409", w.Code)
	}
}

func TestAcceptBooking(t *testing.T) {
	st := store.NewMemory()
	email := &fakeEmail{}
	router := newBookingRouter(st, email)
	date := futureDate(10)

	st.Set(context.Background(), store.ChildPath(store.PathTrialBookings, "b1"), models.TrialBooking{
		ParentName:   "Emma",
		Email:        "emma@example.com",
		SelectedDate: date,
		Status:       models.BookingPending,
		CreatedAt:    services.NowISO(),
	})

	w := doJSON(router, http.MethodPut, "/api/v1/bookings/b1/accept", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var b models.TrialBooking
	st.ReadOnce(context.Background(), store.ChildPath(store.PathTrialBookings, "b1"), &b)
	if b.Status != models.BookingAccepted {
		t.Errorf("status = %q, want accepted", b.Status)
	}
	if b.UpdatedAt == "" {
		t.Error("updated_at not set")
	}

	// An accepted booking still holds its date on the public calendar.
	cal := doJSON(router, http.MethodGet, "/api/v1/calendar?year="+date[:4]+"&month="+trimLeadingZero(date[5:7]), nil)
	if cal.Code != http.StatusOK {
		t.Fatalf("calendar status = %d", cal.Code)
	}
	var resp struct {
		Data models.CalendarMonth `json:"data"`
	}
	if err := json.Unmarshal(cal.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode calendar: %v", err)
	}
	found := false
	for _, day := range resp.Data.Days {
		if day.Date == date {
			found = true
			if day.Status != models.DayBooked {
				t.Errorf("day status = %q, want booked", day.Status)
			}
			if day.Selectable {
				t.Error("booked day should not be selectable")
			}
		}
	}
	if !found {
		t.Fatalf("date %s not in calendar payload", date)
	}

	email.waitFor(t, 1)

	// Accepting again is rejected.
	w = doJSON(router, http.MethodPut, "/api/v1/bookings/b1/accept", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("second accept status = %d, want 409", w.Code)
	}
}

func TestDeclineBooking(t *testing.T) {
	st := store.NewMemory()
	email := &fakeEmail{}
	router := newBookingRouter(st, email)
	date := futureDate(10)

	st.Set(context.Background(), store.ChildPath(store.PathTrialBookings, "b1"), models.TrialBooking{
		ParentName:   "Emma",
		Email:        "emma@example.com",
		SelectedDate: date,
		Status:       models.BookingPending,
		CreatedAt:    services.NowISO(),
	})

	w := doJSON(router, http.MethodPut, "/api/v1/bookings/b1/decline", gin.H{
		"reason": "Family emergency that week",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var b models.TrialBooking
	st.ReadOnce(context.Background(), store.ChildPath(store.PathTrialBookings, "b1"), &b)
	if b.Status != models.BookingDeclined {
		t.Errorf("status = %q, want declined", b.Status)
	}
	if b.DeclineReason != "Family emergency that week" {
		t.Errorf("decline_reason = %q", b.DeclineReason)
	}

	// Declining frees the date for a new submission.
	w = doJSON(router, http.MethodPost, "/api/v1/bookings", gin.H{
		"parent_name":   "Second",
		"email":         "second@example.com",
		"phone":         "555-0102",
		"selected_date": date,
	})
	if w.Code != http.StatusCreated {
		t.Errorf("rebooking a declined date: status = %d, want 201", w.Code)
	}

	// Declined is terminal.
	w = doJSON(router, http.MethodPut, "/api/v1/bookings/b1/accept", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("accept after decline: status = %d, want 409", w.Code)
	}
}

func TestDeclineWithoutBody(t *testing.T) {
	st := store.NewMemory()
	router := newBookingRouter(st, &fakeEmail{})

	st.Set(context.Background(), store.ChildPath(store.PathTrialBookings, "b1"), models.TrialBooking{
		ParentName:   "Emma",
		Email:        "emma@example.com",
		SelectedDate: futureDate(5),
		Status:       models.BookingPending,
		CreatedAt:    services.NowISO(),
	})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/b1/decline", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestBookingNotFound(t *testing.T) {
	st := store.NewMemory()
	router := newBookingRouter(st, &fakeEmail{})

	w := doJSON(router, http.MethodPut, "/api/v1/bookings/missing/accept", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestConvertToClientLeavesBookingUntouched(t *testing.T) {
	st := store.NewMemory()
	router := newBookingRouter(st, &fakeEmail{})
	date := futureDate(10)

	st.Set(context.Background(), store.ChildPath(store.PathTrialBookings, "b1"), models.TrialBooking{
		ParentName:   "Emma Miller",
		Email:        "emma@example.com",
		Phone:        "555-0101",
		Children:     []models.BookingChild{{Name: "Lily", Age: "4"}},
		SelectedDate: date,
		Status:       models.BookingAccepted,
		CreatedAt:    services.NowISO(),
	})

	w := doJSON(router, http.MethodPost, "/api/v1/bookings/b1/convert", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data models.ClientDraft `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	if resp.Data.ParentName != "Emma Miller" || resp.Data.Email != "emma@example.com" {
		t.Errorf("draft not prefilled: %+v", resp.Data)
	}
	if len(resp.Data.Children) != 1 || resp.Data.Children[0].Name != "Lily" {
		t.Errorf("children not carried over: %+v", resp.Data.Children)
	}

	// The booking record must be left exactly as it was.
	var b models.TrialBooking
	st.ReadOnce(context.Background(), store.ChildPath(store.PathTrialBookings, "b1"), &b)
	if b.Status != models.BookingAccepted {
		t.Errorf("booking status = %q after convert, want accepted", b.Status)
	}

	// No client record is created until the draft is saved separately.
	var clients map[string]models.Client
	st.ReadOnce(context.Background(), store.PathClients, &clients)
	if len(clients) != 0 {
		t.Errorf("convert created %d clients, want 0", len(clients))
	}
}

func TestGetBookingsFilterAndOrder(t *testing.T) {
	st := store.NewMemory()
	router := newBookingRouter(st, &fakeEmail{})

	add := func(key, status, createdAt string) {
		st.Set(context.Background(), store.ChildPath(store.PathTrialBookings, key), models.TrialBooking{
			ParentName:   key,
			SelectedDate: futureDate(5),
			Status:       status,
			CreatedAt:    createdAt,
		})
	}
	add("old", models.BookingPending, "2026-01-01T08:00:00Z")
	add("new", models.BookingPending, "2026-02-01T08:00:00Z")
	add("done", models.BookingAccepted, "2026-03-01T08:00:00Z")

	w := doJSON(router, http.MethodGet, "/api/v1/bookings?status=pending", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Data []models.TrialBooking `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("got %d bookings, want 2", len(resp.Data))
	}
	if resp.Data[0].ParentName != "new" || resp.Data[1].ParentName != "old" {
		t.Errorf("order = %s, %s; want newest first", resp.Data[0].ParentName, resp.Data[1].ParentName)
	}
}

func trimLeadingZero(s string) string {
	if len(s) == 2 && s[0] == '0' {
		return s[1:]
	}
	return s
}

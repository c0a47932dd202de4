package services

import (
	"context"
	"log"
	"time"

	"github.com/sanz-the-nanny/backend-booking/models"
	"github.com/sanz-the-nanny/backend-booking/store"
)

// publicReadTimeout bounds each of the three calendar reads; the public
// booking page must degrade quickly rather than hang.
const publicReadTimeout = 8 * time.Second

// DefaultContractDays is the blocked-window length for an active client
// whose contract has a start but no end date.
const DefaultContractDays = 90

// DayMaps holds the three lookup maps the resolver consumes: explicit
// availability entries, dates taken by a live booking, and dates covered by
// an active client's contract window.
type DayMaps struct {
	Availability  map[string]models.AvailabilityEntry
	Booked        map[string]bool
	ClientBlocked map[string]bool
	// Degraded is set when any of the three reads failed, so callers can
	// show a passive warning alongside the fail-open calendar. A failed
	// bookings or clients read leaves its map empty, which makes taken
	// dates render available; the flag is the only trace of that.
	Degraded bool
}

// HasAvailabilityData reports whether the store returned at least one
// explicit availability entry. When it has not, future dates resolve as
// available rather than leaving the public site looking closed.
func (m DayMaps) HasAvailabilityData() bool {
	return len(m.Availability) > 0
}

// LoadDayMaps reads the three collections feeding the resolver. Each read is
// independently best-effort: a failure is logged, marks the maps degraded,
// and leaves that map empty, never aborting the others or surfacing an
// error.
func LoadDayMaps(ctx context.Context, st store.Client) DayMaps {
	maps := DayMaps{
		Availability:  map[string]models.AvailabilityEntry{},
		Booked:        map[string]bool{},
		ClientBlocked: map[string]bool{},
	}

	rctx, cancel := context.WithTimeout(ctx, publicReadTimeout)
	var avail map[string]models.AvailabilityEntry
	if err := st.ReadOnce(rctx, store.PathAvailability, &avail); err != nil {
		log.Printf("[Availability] availability read failed: %v", err)
		maps.Degraded = true
	}
	cancel()
	for date, entry := range avail {
		maps.Availability[date] = entry
	}

	rctx, cancel = context.WithTimeout(ctx, publicReadTimeout)
	var bookings map[string]models.TrialBooking
	if err := st.ReadOnce(rctx, store.PathTrialBookings, &bookings); err != nil {
		log.Printf("[Availability] bookings read failed: %v", err)
		maps.Degraded = true
	}
	cancel()
	for _, b := range bookings {
		// Pending and accepted both hold the date; only declined frees it.
		if b.SelectedDate != "" && b.Status != models.BookingDeclined {
			maps.Booked[b.SelectedDate] = true
		}
	}

	rctx, cancel = context.WithTimeout(ctx, publicReadTimeout)
	var clients map[string]models.Client
	if err := st.ReadOnce(rctx, store.PathClients, &clients); err != nil {
		log.Printf("[Availability] clients read failed: %v", err)
		maps.Degraded = true
	}
	cancel()
	for _, c := range clients {
		start, end, ok := BlockedRange(c)
		if !ok {
			continue
		}
		next := IterateDates(start, end)
		for d, more := next(); more; d, more = next() {
			maps.ClientBlocked[DateKey(d)] = true
		}
	}

	return maps
}

// BlockedRange returns the inclusive date range an active client's contract
// blocks from public booking, or ok=false when the client does not block
// (not active, no start date, or the availability override is on). A
// missing end date defaults to 90 days past the start.
func BlockedRange(c models.Client) (start, end time.Time, ok bool) {
	if c.Status != models.ClientActive || c.ContractStart == "" || c.AvailabilityOverride {
		return time.Time{}, time.Time{}, false
	}
	start, err := ParseDateKey(c.ContractStart)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	if c.ContractEnd != "" {
		if end, err = ParseDateKey(c.ContractEnd); err == nil {
			return start, end, true
		}
	}
	return start, start.AddDate(0, 0, DefaultContractDays), true
}

// Resolve yields the public-calendar status of a date. The order is
// load-bearing: booked and client-blocked checks must run before the
// availability-data branch, or a booked date inside a fail-open window
// would render bookable.
func Resolve(date time.Time, maps DayMaps, now time.Time) models.DayStatus {
	key := DateKey(date)
	switch {
	case IsPast(date, now):
		return models.DayPast
	case maps.Booked[key]:
		return models.DayBooked
	case maps.ClientBlocked[key]:
		// Same outcome as a booking: the public calendar does not reveal
		// why a date is unavailable.
		return models.DayBooked
	case maps.HasAvailabilityData():
		if _, ok := maps.Availability[key]; ok {
			return models.DayAvailable
		}
		return models.DayUnavailable
	default:
		// No availability data at all: fail open.
		return models.DayAvailable
	}
}

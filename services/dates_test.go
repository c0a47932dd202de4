package services

import (
	"testing"
	"time"
)

func TestDateKeyPadsComponents(t *testing.T) {
	d := time.Date(2026, time.March, 5, 14, 30, 0, 0, time.Local)
	if got := DateKey(d); got != "2026-03-05" {
		t.Errorf("DateKey = %q, want 2026-03-05", got)
	}
}

func TestParseDateKeyRoundTrip(t *testing.T) {
	d, err := ParseDateKey("2026-06-15")
	if err != nil {
		t.Fatalf("ParseDateKey: %v", err)
	}
	if got := DateKey(d); got != "2026-06-15" {
		t.Errorf("round trip = %q", got)
	}
	if _, err := ParseDateKey("15/06/2026"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestIterateDatesInclusive(t *testing.T) {
	start, _ := ParseDateKey("2026-06-01")
	end, _ := ParseDateKey("2026-06-03")

	next := IterateDates(start, end)
	var got []string
	for d, ok := next(); ok; d, ok = next() {
		got = append(got, DateKey(d))
	}

	want := []string{"2026-06-01", "2026-06-02", "2026-06-03"}
	if len(got) != len(want) {
		t.Fatalf("got %d dates, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("date[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIterateDatesSingleDay(t *testing.T) {
	day, _ := ParseDateKey("2026-06-01")
	next := IterateDates(day, day)
	if d, ok := next(); !ok || DateKey(d) != "2026-06-01" {
		t.Fatalf("first = %v, %v", d, ok)
	}
	if _, ok := next(); ok {
		t.Error("iterator should be exhausted after a single day")
	}
}

func TestIsPast(t *testing.T) {
	now := time.Date(2026, time.June, 15, 9, 0, 0, 0, time.Local)

	yesterday := time.Date(2026, time.June, 14, 23, 0, 0, 0, time.Local)
	if !IsPast(yesterday, now) {
		t.Error("yesterday should be past")
	}
	today := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.Local)
	if IsPast(today, now) {
		t.Error("today should not be past")
	}
	tomorrow := time.Date(2026, time.June, 16, 0, 0, 0, 0, time.Local)
	if IsPast(tomorrow, now) {
		t.Error("tomorrow should not be past")
	}
}

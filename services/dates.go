package services

import (
	"fmt"
	"time"
)

// DateKey formats a calendar date as the zero-padded YYYY-MM-DD key used
// throughout the store.
func DateKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ParseDateKey parses a YYYY-MM-DD key in local time.
func ParseDateKey(key string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", key, time.Local)
}

// IterateDates returns an iterator over every date from start to end,
// inclusive of both endpoints, one day at a time. Calling it again with the
// same bounds restarts the sequence.
func IterateDates(start, end time.Time) func() (time.Time, bool) {
	cur := startOfDay(start)
	last := startOfDay(end)
	return func() (time.Time, bool) {
		if cur.After(last) {
			return time.Time{}, false
		}
		d := cur
		cur = cur.AddDate(0, 0, 1)
		return d, true
	}
}

// IsPast reports whether t falls strictly before the start of now's
// calendar day in local time.
func IsPast(t, now time.Time) bool {
	return startOfDay(t).Before(startOfDay(now))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// NowISO is the timestamp format every persisted record uses.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

package analytics

import "time"

const dateLayout = "2006-01-02"

// Clock returns the current instant. Engines take one so "today" can be pinned in tests.
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time { return time.Now() }

// dateOf truncates t to its calendar date, normalised to UTC midnight so dates compare with Equal and Before.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func withinDates(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}

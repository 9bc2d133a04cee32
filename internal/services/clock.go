package services

import "time"

// Clock returns the current time in the server's local zone. Services take
// one so tests can pin "today".
type Clock func() time.Time

func SystemClock() time.Time { return time.Now() }

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// startOfWeek is the most recent Monday 00:00 in t's zone.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return startOfDay(t).AddDate(0, 0, -offset)
}

package clock

import "time"

// Clock supplies the current time. Scoring and loan dating take it as an input
// so that "this year" and "today" are deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// System returns the wall clock in UTC.
func System() Clock { return systemClock{} }

// Fixed always reports t.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// Today truncates t to midnight UTC.
func Today(c Clock) time.Time {
	now := c.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

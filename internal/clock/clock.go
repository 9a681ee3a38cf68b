package clock

import "time"

// StartOfUTCDay normalizes an instant to 00:00:00 UTC of its calendar day.
func StartOfUTCDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfUTCHour normalizes an instant to HH:00:00 UTC of its calendar hour.
func StartOfUTCHour(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), 0, 0, 0, time.UTC)
}

// SameUTCDay reports whether two instants fall on the same UTC calendar day.
func SameUTCDay(a, b time.Time) bool {
	return StartOfUTCDay(a).Equal(StartOfUTCDay(b))
}

// DaysApart returns the number of whole UTC calendar days from a to b.
// Negative when b is on an earlier day than a.
func DaysApart(a, b time.Time) int {
	return int(StartOfUTCDay(b).Sub(StartOfUTCDay(a)) / (24 * time.Hour))
}

// utils/dates.go
package utils

import "time"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// EndOfNextMonth returns the last day of the month after t's month. Bookings
// are only accepted up to and including this day.
func EndOfNextMonth(t time.Time) time.Time {
	year, month, _ := t.Date()
	firstOfMonthAfterNext := time.Date(year, month+2, 1, 0, 0, 0, 0, t.Location())
	return firstOfMonthAfterNext.AddDate(0, 0, -1)
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

package cycle

import "github.com/example/flux/internal/core/caldate"

// PeriodLength returns the inclusive number of bleeding days between start
// and end.
func PeriodLength(start, end string) (int, error) {
	return caldate.InclusiveDays(start, end)
}

// Length returns the number of days from start until the next cycle starts.
func Length(start, nextStart string) (int, error) {
	return caldate.DaysBetween(start, nextStart)
}

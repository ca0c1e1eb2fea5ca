// Package caldate contains calendar-date helpers for ISO YYYY-MM-DD strings.
// All arithmetic happens in UTC so day differences never drift across DST.
package caldate

import (
	"fmt"
	"math"
	"regexp"
	"time"
)

// Layout is the only date format persisted by flux.
const Layout = "2006-01-02"

var leadingISO = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)

// Parse parses a strict YYYY-MM-DD string into a UTC midnight time.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// Valid reports whether s is a well-formed calendar date.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Format renders t as YYYY-MM-DD using its calendar fields.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the calendar date of now in its own location.
func Today(now time.Time) string {
	return Format(now)
}

// AddDays shifts an ISO date by n days.
func AddDays(s string, n int) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return Format(t.AddDate(0, 0, n)), nil
}

// DaysBetween returns to - from in whole days.
func DaysBetween(from, to string) (int, error) {
	a, err := Parse(from)
	if err != nil {
		return 0, err
	}
	b, err := Parse(to)
	if err != nil {
		return 0, err
	}
	return int(math.Round(b.Sub(a).Hours() / 24)), nil
}

// InclusiveDays returns the number of calendar days covered by [from, to].
func InclusiveDays(from, to string) (int, error) {
	d, err := DaysBetween(from, to)
	if err != nil {
		return 0, err
	}
	return d + 1, nil
}

// ExtractISO returns the leading YYYY-MM-DD of s if it names a real date.
func ExtractISO(s string) (string, bool) {
	m := leadingISO.FindString(s)
	if m == "" || !Valid(m) {
		return "", false
	}
	return m, true
}

// Round rounds to the nearest integer with halves rounded up.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

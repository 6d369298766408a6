package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	DateLayout = "2006-01-02"

	// MaxYearsAhead bounds how far in the future a quote may be dated.
	MaxYearsAhead = 50
)

var dateShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DateWindow returns the inclusive range of acceptable quote dates, both at
// midnight UTC of their calendar day. The window is derived from today on
// every call.
func DateWindow(today time.Time) (time.Time, time.Time) {
	lo := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return lo, addYears(lo, MaxYearsAhead)
}

// addYears keeps the month: Feb 29 plus n years on a non-leap year is Feb 28.
func addYears(t time.Time, years int) time.Time {
	out := t.AddDate(years, 0, 0)
	if out.Month() != t.Month() {
		out = time.Date(out.Year(), out.Month(), 0, 0, 0, 0, 0, time.UTC)
	}
	return out
}

func IsValidDate(s string, today time.Time) bool {
	d, shaped := parseDate(s)
	if !shaped {
		return false
	}
	lo, hi := DateWindow(today)
	return !d.Before(lo) && !d.After(hi)
}

func Date(s string, today time.Time) Result[string] {
	if IsValidDate(s, today) {
		return ok(s)
	}
	lo, hi := DateWindow(today)
	return fail(s, fmt.Sprintf("Fecha inválida. Permitido: %s a %s.", lo.Format(DateLayout), hi.Format(DateLayout)))
}

// parseDate rejects anything that does not round-trip exactly, so 2024-02-30
// or month 13 never get normalized into another day.
func parseDate(s string) (time.Time, bool) {
	if !dateShape.MatchString(s) {
		return time.Time{}, false
	}
	y, _ := strconv.Atoi(s[0:4])
	m, _ := strconv.Atoi(s[5:7])
	d, _ := strconv.Atoi(s[8:10])
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

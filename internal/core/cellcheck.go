package core

import (
	"regexp"
	"time"
)

// Pre-compiled format patterns (avoids recompilation on each cell).
var (
	// MM/DD/YYYY with zero-padded month and day.
	dateRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/(0[1-9]|[12][0-9]|3[01])/\d{4}$`)

	// 24-hour HH:MM.
	time24Re = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

	// 12-hour H:MM AM/PM, optional space before the meridiem, any case.
	time12Re = regexp.MustCompile(`^(0?[1-9]|1[0-2]):[0-5][0-9] ?(?i:AM|PM)$`)
)

// ValidDate reports whether v is a calendar-valid MM/DD/YYYY date.
// The regex enforces the shape; time.Parse rejects impossible days
// such as 02/30 and 02/29 outside leap years.
func ValidDate(v string) bool {
	if !dateRe.MatchString(v) {
		return false
	}
	_, err := time.Parse("01/02/2006", v)
	return err == nil
}

// ValidTime reports whether v is an accepted time value. The second return
// is true when the value matched the tolerated 12-hour variant rather than
// the canonical 24-hour HH:MM.
func ValidTime(v string, allow12Hour bool) (ok, twelveHour bool) {
	if time24Re.MatchString(v) {
		return true, false
	}
	if allow12Hour && time12Re.MatchString(v) {
		return true, true
	}
	return false, false
}

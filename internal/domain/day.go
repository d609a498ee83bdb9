package domain

import "time"

// DateString formats a time as the local calendar day, YYYY-MM-DD.
// All progress state is keyed by this representation.
func DateString(t time.Time) string {
	return t.Format("2006-01-02")
}

// ShouldReset decides whether cached progress belongs to a previous day and
// must be reset. Pure string equality on the canonical local-date form, not a
// timestamp comparison, so a timezone shift within the same calendar day
// cannot double-reset.
//
// An absent stored date (first run) counts as a different day.
func ShouldReset(storedDateString, currentDateString string) bool {
	return storedDateString != currentDateString
}

// TimezoneOffsetHours is the local UTC offset in whole hours, as the remote
// user endpoint expects it.
func TimezoneOffsetHours(t time.Time) int {
	_, offsetSeconds := t.Zone()
	return offsetSeconds / 3600
}

// Package timeutil provides timezone utilities for Indian Standard Time
// (UTC+5:30). The schools this system serves all run on IST, and India
// observes no DST, so a fixed zone is correct year-round.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// IST is the Indian Standard Time zone (UTC+5:30, no DST).
var IST = time.FixedZone("Asia/Kolkata", 5*60*60+30*60)

// Now returns the current time in IST.
func Now() time.Time {
	return time.Now().In(IST)
}

// ToIST converts a time to IST.
func ToIST(t time.Time) time.Time {
	return t.In(IST)
}

// StartOfDay returns the start of the day (00:00:00) in IST.
func StartOfDay(t time.Time) time.Time {
	ist := ToIST(t)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 0, 0, 0, 0, IST)
}

// StartOfWeek returns the start of the week (Monday 00:00:00) in IST.
func StartOfWeek(t time.Time) time.Time {
	ist := ToIST(t)
	weekday := int(ist.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	return StartOfDay(ist.AddDate(0, 0, -(weekday - 1)))
}

// FormatDate formats a time as a short IST date for reports.
func FormatDate(t time.Time) string {
	return ToIST(t).Format("02 Jan 2006")
}

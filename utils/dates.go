// utils/dates.go
package utils

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, 0, t.Location())
}

// ParseDate parses a calendar date in YYYY-MM-DD form, normalized to the
// start of the day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// CombineDateTime anchors a clock time in HH:MM form onto a calendar date.
func CombineDateTime(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected HH:MM", clock)
	}
	year, month, day := date.Date()
	return time.Date(year, month, day, t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

// Package visit provides the check-in record type and its date/time formats.
package visit

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the serialized form of a check-in date.
const DateLayout = "2006-01-02"

// TimeLayout is the serialized form of a check-in time: lowercase 12-hour
// clock with an am/pm suffix, no leading zero (e.g. "3:05pm").
const TimeLayout = "3:04pm"

// timeLayouts are the accepted input forms for a check-in time, tried in
// order after lowercasing.
var timeLayouts = []string{"3:04pm", "15:04", "3:04 pm"}

// Record is a single check-in event: a calendar date plus a time of day.
// Date carries no time component (midnight UTC); Time is the offset from
// midnight, independent of the date.
type Record struct {
	Date time.Time
	Time time.Duration
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return d, nil
}

// ParseTime parses a time of day in 12-hour ("9:00AM", "9:00am") or 24-hour
// ("09:00") form and returns it as an offset from midnight.
func ParseTime(s string) (time.Duration, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, v)
		if err != nil {
			continue
		}
		return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

// FormatTime serializes an offset from midnight in lowercase 12-hour form.
func FormatTime(d time.Duration) string {
	return time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC).Add(d).Format(TimeLayout)
}

// FormatDate serializes a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateString returns the record's serialized date.
func (r Record) DateString() string { return FormatDate(r.Date) }

// TimeString returns the record's serialized time of day.
func (r Record) TimeString() string { return FormatTime(r.Time) }

// SameDay reports whether two records fall on the same calendar date.
func (r Record) SameDay(other Record) bool {
	return r.Date.Equal(other.Date)
}

// Less orders records chronologically: by date, then by time of day.
// Dates and times are compared as values, not as strings, so "9:00am"
// sorts before "10:00am".
func (r Record) Less(other Record) bool {
	if !r.Date.Equal(other.Date) {
		return r.Date.Before(other.Date)
	}
	return r.Time < other.Time
}

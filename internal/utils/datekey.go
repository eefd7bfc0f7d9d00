package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateKeyLayout is the layout of a calendar-day key, e.g. 2025-03-10.
const DateKeyLayout = "2006-01-02"

// DateKey returns the calendar day of t in loc as YYYY-MM-DD.
// Keys compare chronologically as plain strings.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateKeyLayout)
}

// StartOfDay returns midnight of the calendar day of t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// OnDay keeps the time of day of clock (read in loc) and moves it to the
// calendar day of day.
func OnDay(day, clock time.Time, loc *time.Location) time.Time {
	d := day.In(loc)
	c := clock.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), c.Nanosecond(), loc)
}

// ParseDateOrTime accepts either an RFC3339 timestamp or a YYYY-MM-DD day.
// A bare day is read as midnight in loc; endOfDay moves it to the last
// nanosecond of that day instead.
func ParseDateOrTime(raw string, loc *time.Location, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation(DateKeyLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected RFC3339 or YYYY-MM-DD", raw)
	}
	d = StartOfDay(d, loc)
	if endOfDay {
		return d.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	return d, nil
}

// ParseClock reads a wall-clock time written as HH:MM.
func ParseClock(raw string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", raw)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", raw)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", raw)
	}
	return hour, minute, nil
}

package reminder

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseClock parses a 24-hour "HH:MM" time of day.
func ParseClock(s string) (hour, minute int, err error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: time %q is not HH:MM", ErrValidation, s)
	}
	hour, err = strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 || len(hh) > 2 {
		return 0, 0, fmt.Errorf("%w: hour in %q must be 00-23", ErrValidation, s)
	}
	minute, err = strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 || len(mm) != 2 {
		return 0, 0, fmt.Errorf("%w: minute in %q must be 00-59", ErrValidation, s)
	}
	return hour, minute, nil
}

// FormatTo12Hour renders "HH:MM" as "h:mm AM/PM", zero-padding the minute,
// so a stored "7:5" shows as "7:05 AM". Input that is not two numbers
// around a colon, or is out of range, is returned unchanged.
func FormatTo12Hour(time24 string) string {
	hh, mm, ok := strings.Cut(strings.TrimSpace(time24), ":")
	if !ok {
		return time24
	}
	hour, errH := strconv.Atoi(hh)
	minute, errM := strconv.Atoi(mm)
	if errH != nil || errM != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time24
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, suffix)
}

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CombineDateTime returns the instant on date's day at the "HH:MM" time.
func CombineDateTime(date time.Time, time24 string) (time.Time, error) {
	hour, minute, err := ParseClock(time24)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, date.Location()), nil
}

// DefaultTime is the form's initial time: the next full hour after now.
func DefaultTime(now time.Time) string {
	next := now.Add(time.Hour)
	return fmt.Sprintf("%02d:00", next.Hour())
}

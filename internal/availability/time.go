package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time stored as minutes since midnight (0-1439).
type TimeOfDay int

// MinutesPerDay bounds a TimeOfDay value.
const MinutesPerDay = 24 * 60

// FormatError reports a time or day string that could not be parsed.
type FormatError struct {
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid value %q: %s", e.Value, e.Reason)
}

// ParseTime parses a time string in either external format: 24-hour "HH:MM"
// (storage/API) or 12-hour "H:MM AM/PM" (display). Both decode to the same
// minute value, so values round-trip losslessly whichever side they came from.
func ParseTime(s string) (TimeOfDay, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, &FormatError{Value: s, Reason: "empty time string"}
	}

	upper := strings.ToUpper(trimmed)
	meridiem := ""
	switch {
	case strings.HasSuffix(upper, "AM"):
		meridiem = "AM"
	case strings.HasSuffix(upper, "PM"):
		meridiem = "PM"
	}
	clock := upper
	if meridiem != "" {
		clock = strings.TrimSpace(strings.TrimSuffix(upper, meridiem))
	}

	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, &FormatError{Value: s, Reason: "expected HH:MM"}
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, &FormatError{Value: s, Reason: "hour is not a number"}
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, &FormatError{Value: s, Reason: "minute is not a number"}
	}
	if minute < 0 || minute > 59 {
		return 0, &FormatError{Value: s, Reason: "minute out of range"}
	}

	if meridiem == "" {
		if hour < 0 || hour > 23 {
			return 0, &FormatError{Value: s, Reason: "hour out of range"}
		}
		return TimeOfDay(hour*60 + minute), nil
	}

	if hour < 1 || hour > 12 {
		return 0, &FormatError{Value: s, Reason: "hour out of range for 12-hour clock"}
	}
	hour %= 12
	if meridiem == "PM" {
		hour += 12
	}
	return TimeOfDay(hour*60 + minute), nil
}

// Storage renders the 24-hour zero-padded form used on the wire and by
// native time-input widgets, e.g. "09:00".
func (t TimeOfDay) Storage() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Display renders the 12-hour form shown to users: no leading zero on the
// hour, zero-padded minute, upper-case suffix, e.g. "9:00 AM".
func (t TimeOfDay) Display() string {
	hour := int(t) / 60
	minute := int(t) % 60
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, meridiem)
}

func (t TimeOfDay) String() string { return t.Storage() }

// WeekDay is a day of the week keyed by its upper-case English name.
type WeekDay string

const (
	Monday    WeekDay = "MONDAY"
	Tuesday   WeekDay = "TUESDAY"
	Wednesday WeekDay = "WEDNESDAY"
	Thursday  WeekDay = "THURSDAY"
	Friday    WeekDay = "FRIDAY"
	Saturday  WeekDay = "SATURDAY"
	Sunday    WeekDay = "SUNDAY"
)

// WeekDays lists all days in display order, Monday first.
var WeekDays = []WeekDay{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekDay parses an upper-case English day name.
func ParseWeekDay(s string) (WeekDay, error) {
	day := WeekDay(strings.ToUpper(strings.TrimSpace(s)))
	for _, d := range WeekDays {
		if day == d {
			return d, nil
		}
	}
	return "", &FormatError{Value: s, Reason: "unknown day of week"}
}

// FromWeekday converts the standard library's day-of-week to a WeekDay.
// time.Time follows the proleptic Gregorian calendar, so calendar dates map
// correctly across month, year and leap-year boundaries.
func FromWeekday(d time.Weekday) WeekDay {
	switch d {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

package booking

import (
	"fmt"
	"time"

	"github.com/servly/servly-api/internal/availability"
)

// ISO calendar date layout used on the wire.
const dateLayout = "2006-01-02"

// Slot is a normalized, validated booking request ready to hand to booking
// creation.
type Slot struct {
	Date  string
	Day   availability.WeekDay
	Start availability.TimeOfDay
	End   availability.TimeOfDay
}

// Result is the outcome of the pre-flight slot check. A rejection is an
// expected outcome, not an error: it carries a human-readable reason and
// nothing has been submitted anywhere.
type Result struct {
	OK     bool
	Slot   Slot
	Reason string
}

func ok(slot Slot) Result           { return Result{OK: true, Slot: slot} }
func rejected(reason string) Result { return Result{Reason: reason} }

// ValidateSlot decides whether the requested (date, start, end) slot is legal
// against the provider's weekly schedule. Checks run in fixed order and the
// first failure wins. The function is pure: it never mutates the schedule and
// identical inputs always produce identical results. The authoritative
// double-booking check happens later, when the booking is created.
func ValidateSlot(schedule *availability.Schedule, date, start, end string) Result {
	if date == "" || start == "" || end == "" {
		return rejected("missing fields")
	}

	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return rejected("invalid date, expected YYYY-MM-DD")
	}
	weekday := availability.FromWeekday(day.Weekday())

	window, open := schedule.WindowFor(weekday)
	if !open {
		return rejected(fmt.Sprintf("provider not available on %s", weekday))
	}

	startTime, err := availability.ParseTime(start)
	if err != nil {
		return rejected("invalid start time")
	}
	endTime, err := availability.ParseTime(end)
	if err != nil {
		return rejected("invalid end time")
	}

	if startTime >= endTime {
		return rejected("start time must be earlier than end time")
	}

	if !window.Contains(startTime, endTime) {
		return rejected(fmt.Sprintf(
			"selected time must be within available hours: %s–%s",
			window.Start.Storage(), window.End.Storage(),
		))
	}

	return ok(Slot{
		Date:  day.Format(dateLayout),
		Day:   weekday,
		Start: startTime,
		End:   endTime,
	})
}

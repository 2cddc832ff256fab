package availability

import "fmt"

// Window is one day's open-hours interval. A present window always satisfies
// Start < End strictly.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Contains reports whether the slot [start, end) lies fully inside the window.
func (w Window) Contains(start, end TimeOfDay) bool {
	return start >= w.Start && end <= w.End
}

// WindowStrings is the external string form of a window, as stored on a
// listing's availability payload.
type WindowStrings struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// dayEdit holds one day's fields mid-edit. Either side may be unset while the
// provider is typing; the schedule records a field error until the day is
// complete or fully cleared again.
type dayEdit struct {
	start *TimeOfDay
	end   *TimeOfDay
}

// Schedule is a provider's recurring weekly open hours: at most one window per
// day, absent days are not bookable. It is owned by a single listing's
// create/edit flow and is not shared.
type Schedule struct {
	days   map[WeekDay]*dayEdit
	errors map[WeekDay]string
}

// NewSchedule returns a blank schedule with all seven days closed.
func NewSchedule() *Schedule {
	return &Schedule{
		days:   make(map[WeekDay]*dayEdit, len(WeekDays)),
		errors: make(map[WeekDay]string),
	}
}

// FromStorage builds a schedule from a listing's stored availability mapping.
// Only days with hours are present in the input. Time strings may be in either
// external format; malformed strings or unknown day names yield a FormatError.
func FromStorage(stored map[string]WindowStrings) (*Schedule, error) {
	s := NewSchedule()
	for name, ws := range stored {
		day, err := ParseWeekDay(name)
		if err != nil {
			return nil, err
		}
		start, err := ParseTime(ws.Start)
		if err != nil {
			return nil, err
		}
		end, err := ParseTime(ws.End)
		if err != nil {
			return nil, err
		}
		s.days[day] = &dayEdit{start: &start, end: &end}
		s.revalidate(day)
	}
	return s, nil
}

// ToStorage collapses the schedule back to the partial mapping persisted on a
// listing: only days with a present window, times as 24-hour "HH:MM" strings.
func (s *Schedule) ToStorage() map[string]WindowStrings {
	out := make(map[string]WindowStrings)
	for _, day := range WeekDays {
		if w, ok := s.WindowFor(day); ok {
			out[string(day)] = WindowStrings{Start: w.Start.Storage(), End: w.End.Storage()}
		}
	}
	return out
}

// SetStart sets or clears (empty value) the start side of a day's window.
// A malformed time string is returned as a FormatError; validation outcomes
// are recorded per day instead, so the caller keeps editing and checks
// IsValid before submitting.
func (s *Schedule) SetStart(day WeekDay, value string) error {
	return s.set(day, value, true)
}

// SetEnd sets or clears (empty value) the end side of a day's window.
func (s *Schedule) SetEnd(day WeekDay, value string) error {
	return s.set(day, value, false)
}

func (s *Schedule) set(day WeekDay, value string, isStart bool) error {
	var parsed *TimeOfDay
	if value != "" {
		t, err := ParseTime(value)
		if err != nil {
			return err
		}
		parsed = &t
	}

	edit := s.days[day]
	if edit == nil {
		edit = &dayEdit{}
		s.days[day] = edit
	}
	if isStart {
		edit.start = parsed
	} else {
		edit.end = parsed
	}
	s.revalidate(day)
	return nil
}

// revalidate recomputes the per-day error state after a mutation. For each day
// either both sides are set or neither is, and a complete day must have
// start strictly before end.
func (s *Schedule) revalidate(day WeekDay) {
	edit := s.days[day]
	if edit == nil || (edit.start == nil && edit.end == nil) {
		delete(s.errors, day)
		if edit != nil {
			delete(s.days, day)
		}
		return
	}
	switch {
	case edit.start == nil:
		s.errors[day] = "start time is required when end time is set"
	case edit.end == nil:
		s.errors[day] = "end time is required when start time is set"
	case *edit.start >= *edit.end:
		s.errors[day] = "end time must be later than start time"
	default:
		delete(s.errors, day)
	}
}

// IsValid reports whether no day currently holds a validation error. Only a
// valid schedule may be collapsed and submitted.
func (s *Schedule) IsValid() bool {
	return len(s.errors) == 0
}

// FieldErrors returns the current per-day validation messages.
func (s *Schedule) FieldErrors() map[WeekDay]string {
	out := make(map[WeekDay]string, len(s.errors))
	for day, msg := range s.errors {
		out[day] = msg
	}
	return out
}

// WindowFor returns the day's window if the day is open and its fields form a
// valid interval. Incomplete or inverted days report as absent.
func (s *Schedule) WindowFor(day WeekDay) (Window, bool) {
	edit := s.days[day]
	if edit == nil || edit.start == nil || edit.end == nil || *edit.start >= *edit.end {
		return Window{}, false
	}
	return Window{Start: *edit.start, End: *edit.end}, true
}

// DisplayFor renders a day's window in the 12-hour display format, or "Closed"
// for an absent day.
func (s *Schedule) DisplayFor(day WeekDay) string {
	w, ok := s.WindowFor(day)
	if !ok {
		return "Closed"
	}
	return fmt.Sprintf("%s - %s", w.Start.Display(), w.End.Display())
}

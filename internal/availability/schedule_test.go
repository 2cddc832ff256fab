package availability

import (
	"strings"
	"testing"
)

func TestFromStorageRoundTrip(t *testing.T) {
	s, err := FromStorage(map[string]WindowStrings{
		"MONDAY": {Start: "09:00", End: "17:00"},
	})
	if err != nil {
		t.Fatalf("FromStorage: %v", err)
	}

	w, ok := s.WindowFor(Monday)
	if !ok {
		t.Fatal("expected Monday window")
	}
	if w.Start.Display() != "9:00 AM" || w.End.Display() != "5:00 PM" {
		t.Errorf("display = %q / %q", w.Start.Display(), w.End.Display())
	}

	stored := s.ToStorage()
	if got := stored["MONDAY"]; got.Start != "09:00" || got.End != "17:00" {
		t.Errorf("ToStorage = %+v", got)
	}
	if len(stored) != 1 {
		t.Errorf("expected only present days, got %d entries", len(stored))
	}
}

func TestFromStorageAcceptsDisplayFormat(t *testing.T) {
	// Listing payloads written by older clients carry 12-hour strings; both
	// forms must decode to the same window.
	s, err := FromStorage(map[string]WindowStrings{
		"FRIDAY": {Start: "9:00 AM", End: "5:00 PM"},
	})
	if err != nil {
		t.Fatalf("FromStorage: %v", err)
	}
	if got := s.ToStorage()["FRIDAY"]; got.Start != "09:00" || got.End != "17:00" {
		t.Errorf("ToStorage = %+v", got)
	}
}

func TestFromStorageMalformed(t *testing.T) {
	if _, err := FromStorage(map[string]WindowStrings{"MONDAY": {Start: "late", End: "17:00"}}); err == nil {
		t.Fatal("expected FormatError for bad time")
	}
	if _, err := FromStorage(map[string]WindowStrings{"FUNDAY": {Start: "09:00", End: "17:00"}}); err == nil {
		t.Fatal("expected FormatError for bad day")
	}
}

func TestSetWindowValidPair(t *testing.T) {
	s := NewSchedule()
	if err := s.SetStart(Tuesday, "10:00"); err != nil {
		t.Fatalf("SetStart: %v", err)
	}
	if err := s.SetEnd(Tuesday, "18:30"); err != nil {
		t.Fatalf("SetEnd: %v", err)
	}
	if !s.IsValid() {
		t.Fatalf("expected valid schedule, errors: %v", s.FieldErrors())
	}
	w, ok := s.WindowFor(Tuesday)
	if !ok || w.Start != 10*60 || w.End != 18*60+30 {
		t.Fatalf("WindowFor = %+v, %v", w, ok)
	}
}

func TestSetWindowOneSideSet(t *testing.T) {
	s := NewSchedule()
	_ = s.SetStart(Wednesday, "09:00")
	if s.IsValid() {
		t.Fatal("start without end must be invalid")
	}
	if msg := s.FieldErrors()[Wednesday]; !strings.Contains(msg, "end time is required") {
		t.Errorf("unexpected message %q", msg)
	}

	// Completing the pair clears the error.
	_ = s.SetEnd(Wednesday, "12:00")
	if !s.IsValid() {
		t.Fatalf("expected valid after completing pair, errors: %v", s.FieldErrors())
	}

	// Clearing one side of a complete day re-raises the error.
	_ = s.SetStart(Wednesday, "")
	if s.IsValid() {
		t.Fatal("cleared start with end still set must be invalid")
	}
	if msg := s.FieldErrors()[Wednesday]; !strings.Contains(msg, "start time is required") {
		t.Errorf("unexpected message %q", msg)
	}

	// Clearing the other side returns the day to a valid closed state.
	_ = s.SetEnd(Wednesday, "")
	if !s.IsValid() {
		t.Fatalf("both-empty day must be valid, errors: %v", s.FieldErrors())
	}
	if _, ok := s.WindowFor(Wednesday); ok {
		t.Fatal("closed day must have no window")
	}
}

func TestSetWindowInvertedInterval(t *testing.T) {
	s := NewSchedule()
	_ = s.SetStart(Thursday, "11:00")
	_ = s.SetEnd(Thursday, "10:00")
	if s.IsValid() {
		t.Fatal("inverted interval must be invalid")
	}
	if msg := s.FieldErrors()[Thursday]; !strings.Contains(msg, "later than") {
		t.Errorf("unexpected message %q", msg)
	}

	// Equal start and end is just as invalid.
	_ = s.SetEnd(Thursday, "11:00")
	if s.IsValid() {
		t.Fatal("zero-length interval must be invalid")
	}
	if _, ok := s.WindowFor(Thursday); ok {
		t.Fatal("invalid day must report no window")
	}
}

func TestSetWindowMalformedValue(t *testing.T) {
	s := NewSchedule()
	if err := s.SetStart(Friday, "soon"); err == nil {
		t.Fatal("expected FormatError")
	}
	// A failed mutation leaves no residue on the day.
	if !s.IsValid() {
		t.Fatalf("schedule must stay valid, errors: %v", s.FieldErrors())
	}
}

func TestToStorageSkipsInvalidDays(t *testing.T) {
	s := NewSchedule()
	_ = s.SetStart(Monday, "09:00")
	_ = s.SetEnd(Monday, "17:00")
	_ = s.SetStart(Saturday, "10:00") // incomplete

	stored := s.ToStorage()
	if _, ok := stored["SATURDAY"]; ok {
		t.Fatal("incomplete day must not be emitted")
	}
	if _, ok := stored["MONDAY"]; !ok {
		t.Fatal("complete day missing from storage form")
	}
}

func TestDisplayFor(t *testing.T) {
	s := NewSchedule()
	_ = s.SetStart(Monday, "09:00")
	_ = s.SetEnd(Monday, "17:00")
	if got := s.DisplayFor(Monday); got != "9:00 AM - 5:00 PM" {
		t.Errorf("DisplayFor = %q", got)
	}
	if got := s.DisplayFor(Sunday); got != "Closed" {
		t.Errorf("DisplayFor closed day = %q", got)
	}
}

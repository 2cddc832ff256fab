package booking

import (
	"reflect"
	"testing"

	"github.com/servly/servly-api/internal/availability"
)

func fridaySchedule(t *testing.T) *availability.Schedule {
	t.Helper()
	s, err := availability.FromStorage(map[string]availability.WindowStrings{
		"FRIDAY": {Start: "09:00", End: "17:00"},
	})
	if err != nil {
		t.Fatalf("FromStorage: %v", err)
	}
	return s
}

func TestValidateSlotOK(t *testing.T) {
	s := fridaySchedule(t)

	// 2025-01-10 is a Friday.
	res := ValidateSlot(s, "2025-01-10", "10:00", "11:00")
	if !res.OK {
		t.Fatalf("expected OK, got rejection %q", res.Reason)
	}
	if res.Slot.Date != "2025-01-10" || res.Slot.Day != availability.Friday {
		t.Errorf("normalized slot = %+v", res.Slot)
	}
	if res.Slot.Start != 10*60 || res.Slot.End != 11*60 {
		t.Errorf("normalized times = %d/%d", res.Slot.Start, res.Slot.End)
	}
}

func TestValidateSlotClosedDay(t *testing.T) {
	s := fridaySchedule(t)

	// 2025-01-11 is a Saturday.
	res := ValidateSlot(s, "2025-01-11", "10:00", "11:00")
	if res.OK {
		t.Fatal("expected rejection")
	}
	if res.Reason != "provider not available on SATURDAY" {
		t.Errorf("reason = %q", res.Reason)
	}
}

func TestValidateSlotOutsideHours(t *testing.T) {
	s := fridaySchedule(t)

	res := ValidateSlot(s, "2025-01-10", "16:00", "18:00")
	if res.OK {
		t.Fatal("expected rejection")
	}
	if res.Reason != "selected time must be within available hours: 09:00–17:00" {
		t.Errorf("reason = %q", res.Reason)
	}
}

func TestValidateSlotInvertedTimes(t *testing.T) {
	s := fridaySchedule(t)

	res := ValidateSlot(s, "2025-01-10", "11:00", "10:00")
	if res.OK {
		t.Fatal("expected rejection")
	}
	if res.Reason != "start time must be earlier than end time" {
		t.Errorf("reason = %q", res.Reason)
	}
}

func TestValidateSlotMissingFields(t *testing.T) {
	s := fridaySchedule(t)

	for _, args := range [][3]string{
		{"", "10:00", "11:00"},
		{"2025-01-10", "", "11:00"},
		{"2025-01-10", "10:00", ""},
	} {
		res := ValidateSlot(s, args[0], args[1], args[2])
		if res.OK || res.Reason != "missing fields" {
			t.Errorf("ValidateSlot(%v) = %+v", args, res)
		}
	}
}

func TestValidateSlotCheckOrder(t *testing.T) {
	s := fridaySchedule(t)

	// A closed day wins over inverted times: checks run in fixed order.
	res := ValidateSlot(s, "2025-01-11", "11:00", "10:00")
	if res.Reason != "provider not available on SATURDAY" {
		t.Errorf("reason = %q", res.Reason)
	}
}

func TestValidateSlotBadInputs(t *testing.T) {
	s := fridaySchedule(t)

	if res := ValidateSlot(s, "01/10/2025", "10:00", "11:00"); res.OK {
		t.Fatal("expected rejection for bad date")
	}
	if res := ValidateSlot(s, "2025-01-10", "10am", "11:00"); res.OK {
		t.Fatal("expected rejection for bad start time")
	}
}

func TestValidateSlotBoundaryInclusive(t *testing.T) {
	s := fridaySchedule(t)

	// A slot spanning the whole window is legal.
	res := ValidateSlot(s, "2025-01-10", "09:00", "17:00")
	if !res.OK {
		t.Fatalf("expected OK, got %q", res.Reason)
	}
}

func TestValidateSlotPure(t *testing.T) {
	s := fridaySchedule(t)
	before := s.ToStorage()

	first := ValidateSlot(s, "2025-01-10", "10:00", "11:00")
	second := ValidateSlot(s, "2025-01-10", "10:00", "11:00")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical calls differ: %+v vs %+v", first, second)
	}
	if !reflect.DeepEqual(before, s.ToStorage()) {
		t.Error("schedule mutated by validation")
	}
}

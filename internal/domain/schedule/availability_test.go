package schedule

import (
	"reflect"
	"testing"
	"time"
)

func monday(hour, min int) time.Time {
	// 2025-06-02 is a Monday.
	return time.Date(2025, 6, 2, hour, min, 0, 0, time.UTC)
}

func TestComputeSlotsFullDay(t *testing.T) {
	window := DayWindow{Start: "09:00", End: "18:00"}

	slots := ComputeSlots(monday(0, 0), window, 30, nil)

	if len(slots) != 18 {
		t.Fatalf("expected 18 slots, got %d: %v", len(slots), slots)
	}
	if slots[0] != "09:00" {
		t.Errorf("first slot = %q, want 09:00", slots[0])
	}
	if slots[len(slots)-1] != "17:30" {
		t.Errorf("last slot = %q, want 17:30", slots[len(slots)-1])
	}
}

func TestComputeSlotsBookingRemovesOnlyItsSlot(t *testing.T) {
	window := DayWindow{Start: "09:00", End: "18:00"}
	busy := []BusyInterval{
		{Start: monday(9, 0), End: monday(9, 30)},
	}

	slots := ComputeSlots(monday(0, 0), window, 30, busy)

	if len(slots) != 17 {
		t.Fatalf("expected 17 slots, got %d", len(slots))
	}
	for _, s := range slots {
		if s == "09:00" {
			t.Error("09:00 should be occupied")
		}
	}
	if slots[0] != "09:30" {
		t.Errorf("first free slot = %q, want 09:30", slots[0])
	}
}

func TestComputeSlotsGridStaysOnHalfHours(t *testing.T) {
	// A 45-minute service still starts on :00 or :30; the last candidate
	// must fully fit before close.
	window := DayWindow{Start: "09:00", End: "11:00"}

	slots := ComputeSlots(monday(0, 0), window, 45, nil)

	want := []string{"09:00", "09:30", "10:00"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("slots = %v, want %v", slots, want)
	}
}

func TestComputeSlotsBoundaryTouchIsNoConflict(t *testing.T) {
	window := DayWindow{Start: "09:00", End: "11:30"}
	busy := []BusyInterval{
		{Start: monday(10, 0), End: monday(10, 30)},
	}

	slots := ComputeSlots(monday(0, 0), window, 30, busy)

	want := []string{"09:00", "09:30", "10:30", "11:00"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("slots = %v, want %v", slots, want)
	}
}

func TestComputeSlotsLongBusyIntervalBlocksEveryOverlap(t *testing.T) {
	window := DayWindow{Start: "09:00", End: "12:00"}
	busy := []BusyInterval{
		{Start: monday(9, 30), End: monday(11, 0)},
	}

	slots := ComputeSlots(monday(0, 0), window, 30, busy)

	want := []string{"09:00", "11:00", "11:30"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("slots = %v, want %v", slots, want)
	}
}

func TestComputeSlotsInvalidInputs(t *testing.T) {
	window := DayWindow{Start: "09:00", End: "18:00"}

	if got := ComputeSlots(monday(0, 0), window, 0, nil); got != nil {
		t.Errorf("zero duration should yield nil, got %v", got)
	}
	if got := ComputeSlots(monday(0, 0), DayWindow{Start: "bad", End: "18:00"}, 30, nil); got != nil {
		t.Errorf("malformed window should yield nil, got %v", got)
	}
	if got := ComputeSlots(monday(0, 0), DayWindow{Start: "18:00", End: "09:00"}, 30, nil); len(got) != 0 {
		t.Errorf("inverted window should yield no slots, got %v", got)
	}
}

func TestResolveDayWindowFallbackChain(t *testing.T) {
	employee := WeekSchedule{
		time.Monday: {Start: "12:00", End: "20:00"},
	}
	establishment := WeekSchedule{
		time.Monday:  {Start: "09:00", End: "18:00"},
		time.Tuesday: {Start: "09:00", End: "18:00"},
	}

	// Employee hours win over establishment hours.
	w, ok := ResolveDayWindow(employee, establishment, time.Monday)
	if !ok || w.Start != "12:00" {
		t.Errorf("Monday window = %+v ok=%v, want employee hours", w, ok)
	}

	// No employee row falls back to the establishment.
	w, ok = ResolveDayWindow(employee, establishment, time.Tuesday)
	if !ok || w.Start != "09:00" {
		t.Errorf("Tuesday window = %+v ok=%v, want establishment hours", w, ok)
	}

	// Neither level has the day.
	if _, ok := ResolveDayWindow(employee, establishment, time.Sunday); ok {
		t.Error("Sunday should resolve to not working")
	}
}

func TestDayBounds(t *testing.T) {
	loc, _ := time.LoadLocation("America/Mexico_City")
	at := time.Date(2025, 6, 2, 15, 47, 3, 0, loc)

	start, end := DayBounds(at)

	if start.Hour() != 0 || start.Day() != 2 {
		t.Errorf("start = %v, want local midnight", start)
	}
	if !end.Equal(start.Add(24 * time.Hour)) {
		t.Errorf("end = %v, want start+24h", end)
	}
	if start.Location() != loc {
		t.Errorf("bounds lost the location: %v", start.Location())
	}
}

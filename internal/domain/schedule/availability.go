package schedule

import (
	"fmt"
	"time"
)

// SlotStepMinutes is the fixed booking grid. Candidate start times always
// fall on :00 or :30 regardless of service duration; a 45-minute service
// can start at 09:00 or 09:30, never 09:15.
const SlotStepMinutes = 30

// DayWindow is a working window within one calendar day, as "HH:MM" strings.
type DayWindow struct {
	Start string
	End   string
}

// WeekSchedule maps weekdays to working windows. A missing weekday means
// "does not work that day" at that level of the fallback chain.
type WeekSchedule map[time.Weekday]DayWindow

// BusyInterval is an occupied [Start, End) span taken by an active
// (non-cancelled) appointment.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// ResolveDayWindow applies the fallback chain: the employee's own hours for
// the weekday win; otherwise the establishment-wide hours; otherwise the
// employee does not work that day.
func ResolveDayWindow(employee, establishment WeekSchedule, day time.Weekday) (DayWindow, bool) {
	if w, ok := employee[day]; ok {
		return w, true
	}
	if w, ok := establishment[day]; ok {
		return w, true
	}
	return DayWindow{}, false
}

// ComputeSlots generates the bookable "HH:MM" start times for one day.
//
// Candidates step every SlotStepMinutes from the window start; a candidate
// is kept only when its full service interval fits before the window close
// and does not overlap any busy interval. Overlap is half-open
// (slotStart < busyEnd && slotEnd > busyStart), so boundary-touching
// appointments do not conflict.
func ComputeSlots(date time.Time, window DayWindow, serviceDurationMin int, busy []BusyInterval) []string {
	if serviceDurationMin <= 0 {
		return nil
	}

	startMin, err := parseHM(window.Start)
	if err != nil {
		return nil
	}
	endMin, err := parseHM(window.End)
	if err != nil {
		return nil
	}

	loc := date.Location()

	slots := make([]string, 0)
	for t := startMin; t+serviceDurationMin <= endMin; t += SlotStepMinutes {
		slotStart := time.Date(
			date.Year(), date.Month(), date.Day(),
			t/60, t%60, 0, 0,
			loc,
		)
		slotEnd := slotStart.Add(time.Duration(serviceDurationMin) * time.Minute)

		conflict := false
		for _, b := range busy {
			if slotStart.Before(b.End) && slotEnd.After(b.Start) {
				conflict = true
				break
			}
		}

		if !conflict {
			slots = append(slots, fmt.Sprintf("%02d:%02d", t/60, t%60))
		}
	}

	return slots
}

// DayBounds returns the local calendar-day interval [00:00, +24h) containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.Add(24 * time.Hour)
}

func parseHM(hm string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(hm, "%d:%d", &h, &m); err != nil {
		return 0, err
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", hm)
	}
	return h*60 + m, nil
}

// Package schedule implements the pure time-window evaluation used to gate
// access decisions.  Evaluation is deterministic given a schedule and an
// instant; no I/O happens here.
package schedule

import "time"

// Slot is a recurring weekly time window.  Start and End are zero-padded
// "HH:MM" strings compared lexicographically, which for zero-padded values
// is equivalent to numeric comparison.  Both bounds are inclusive.
type Slot struct {
	ID         int64  `json:"id,omitempty"`
	DaysOfWeek []int  `json:"daysOfWeek,omitempty"` // 0=Sunday..6=Saturday; empty means every day
	Start      string `json:"start"`
	End        string `json:"end"`
}

type Schedule struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Slots       []Slot `json:"slots"`
}

// IsSlotActive reports whether the slot covers the given instant.  Weekday
// and clock time are taken in the instant's own location: slots are
// wall-clock windows, so callers pass the instant in the zone the schedule
// was written for.
func IsSlotActive(s Slot, at time.Time) bool {
	if len(s.DaysOfWeek) > 0 {
		day := int(at.Weekday())
		match := false
		for _, d := range s.DaysOfWeek {
			if d == day {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}

	hhmm := at.Format("15:04")
	return s.Start <= hhmm && hhmm <= s.End
}

// IsScheduleActive reports whether any slot covers the given instant.
//
// A schedule with zero slots is an explicit "no access" policy and always
// returns false.  The distinct case of a membership with no schedule at all
// (unrestricted access) is handled by the caller; this function is never
// invoked for it.
func IsScheduleActive(sched Schedule, at time.Time) bool {
	if len(sched.Slots) == 0 {
		return false
	}
	for _, s := range sched.Slots {
		if IsSlotActive(s, at) {
			return true
		}
	}
	return false
}

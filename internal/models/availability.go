package models

import "strings"

// DayAvailability maps a weekday name to whether the student can attend.
type DayAvailability map[string]bool

// Availability maps a time-slot id (ending in "HH:MM-HH:MM") to per-day flags.
// An empty Availability means every time is open.
type Availability map[string]DayAvailability

// Clone returns a deep copy.
func (a Availability) Clone() Availability {
	out := make(Availability, len(a))
	for slot, days := range a {
		copied := make(DayAvailability, len(days))
		for day, ok := range days {
			copied[day] = ok
		}
		out[slot] = copied
	}
	return out
}

// SlotRange extracts the "HH:MM-HH:MM" suffix from a slot id such as "morning-09:00-10:00".
func SlotRange(slotID string) (start, end string, ok bool) {
	parts := strings.Split(strings.TrimSpace(slotID), "-")
	if len(parts) < 2 {
		return "", "", false
	}
	start = strings.TrimSpace(parts[len(parts)-2])
	end = strings.TrimSpace(parts[len(parts)-1])
	if start == "" || end == "" {
		return "", "", false
	}
	return start, end, true
}

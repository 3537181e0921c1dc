package planner

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

const minutesPerDay = 24 * 60

// Clock is a time of day in minutes since midnight. 24:00 is kept as 1440.
type Clock int

// ParseClock parses an "HH:MM" value. Hour 24 is accepted only as 24:00.
func ParseClock(raw string) (Clock, error) {
	text := strings.TrimSpace(raw)
	parts := strings.Split(text, ":")
	if len(parts) != 2 || len(parts[1]) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 {
		return 0, fmt.Errorf("clock %q is not HH:MM", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("clock %q has invalid hour", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("clock %q has invalid minute", raw)
	}
	if hour < 0 || hour > 24 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock %q out of range", raw)
	}
	if hour == 24 && minute != 0 {
		return 0, fmt.Errorf("clock %q out of range", raw)
	}
	return Clock(hour*60 + minute), nil
}

// Minutes returns minutes since midnight, 24:00 being 1440.
func (c Clock) Minutes() int {
	return int(c)
}

// DisplayMinutes folds 24:00 back to 0 for presentation.
func (c Clock) DisplayMinutes() int {
	return int(c) % minutesPerDay
}

// String renders HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// MinutesOf returns the display minutes of an "HH:MM" value (24:00 becomes 0).
// Overlap checks must use TimeInterval instead, which keeps 24:00 at the end of the day.
func MinutesOf(hhmm string) (int, error) {
	clock, err := ParseClock(hhmm)
	if err != nil {
		return 0, appErrors.NewMalformedRange(hhmm, err.Error())
	}
	return clock.DisplayMinutes(), nil
}

// TimeInterval is a half-open [Start, End) range in minutes.
type TimeInterval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

var rangePattern = regexp.MustCompile(`^\s*(\d{1,2}:\d{2})\s*[-–—]\s*(\d{1,2}:\d{2})\s*$`)

// lateCutoff ends the early-hour window. Clock times before 02:00 belong to the late end
// of the same nominal day and sort after 23:59.
const lateCutoff = 2 * 60

// ParseRange parses "HH:MM - HH:MM". Times before 02:00 (including a 24:00 start) are shifted
// past 1440 so a meeting running over midnight stays on its nominal day and collides with
// early-hour meetings of that same day. An end of 24:00 means end of day (1440).
func ParseRange(text string) (TimeInterval, error) {
	match := rangePattern.FindStringSubmatch(text)
	if match == nil {
		return TimeInterval{}, appErrors.NewMalformedRange(text, "expected two HH:MM values separated by a dash")
	}
	start, err := ParseClock(match[1])
	if err != nil {
		return TimeInterval{}, appErrors.NewMalformedRange(text, err.Error())
	}
	end, err := ParseClock(match[2])
	if err != nil {
		return TimeInterval{}, appErrors.NewMalformedRange(text, err.Error())
	}

	startMin := start.DisplayMinutes()
	endMin := end.Minutes()
	if endMin == startMin {
		return TimeInterval{}, appErrors.NewMalformedRange(text, "empty range")
	}
	length := endMin - startMin
	if length < 0 {
		length += minutesPerDay
	}
	if startMin < lateCutoff {
		startMin += minutesPerDay
	}
	return TimeInterval{Start: startMin, End: startMin + length}, nil
}

// Overlaps reports whether two intervals share any minute. Touching ends do not overlap.
func Overlaps(a, b TimeInterval) bool {
	return a.Start < b.End && b.Start < a.End
}

// Equal reports whether both intervals cover the same minutes.
func (t TimeInterval) Equal(other TimeInterval) bool {
	return t.Start == other.Start && t.End == other.End
}

// String renders "HH:MM - HH:MM" with wall-clock times; an end at midnight shows 24:00.
func (t TimeInterval) String() string {
	end := t.End % minutesPerDay
	if end == 0 {
		end = minutesPerDay
	}
	return Clock(t.Start%minutesPerDay).String() + " - " + Clock(end).String()
}

var dayAliases = map[string]string{
	"MONDAY":    "Monday",
	"MON":       "Monday",
	"TUESDAY":   "Tuesday",
	"TUE":       "Tuesday",
	"TUES":      "Tuesday",
	"WEDNESDAY": "Wednesday",
	"WED":       "Wednesday",
	"THURSDAY":  "Thursday",
	"THU":       "Thursday",
	"THUR":      "Thursday",
	"THURS":     "Thursday",
	"FRIDAY":    "Friday",
	"FRI":       "Friday",
	"SATURDAY":  "Saturday",
	"SAT":       "Saturday",
	"SUNDAY":    "Sunday",
	"SUN":       "Sunday",
}

// NormalizeDay canonicalises a weekday name ("mon", "MONDAY" -> "Monday").
func NormalizeDay(raw string) (string, bool) {
	day, ok := dayAliases[strings.ToUpper(strings.TrimSpace(raw))]
	return day, ok
}

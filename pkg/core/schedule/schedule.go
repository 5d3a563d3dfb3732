// Package schedule interprets the two rotating weekly schedule tabs. The
// tabs are written by an operator and read-only for the bot: rows are keyed
// by worker name and columns B..H hold Monday..Sunday, with a cell being a
// shift range ("09:00-17:00"), REST, OFF, or empty (treated as REST).
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The two alternating schedule tabs. Odd ISO weeks use SheetA, even weeks
// SheetB.
const (
	SheetA = "schedule1"
	SheetB = "schedule2"
)

// Weekday display order matching the sheet columns.
var Days = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ActiveSheet returns the schedule tab in effect for the given date.
func ActiveSheet(t time.Time) string {
	_, week := t.ISOWeek()
	if week%2 == 0 {
		return SheetB
	}
	return SheetA
}

// NextSheet returns the other tab of the rotation.
func NextSheet(current string) string {
	if current == SheetA {
		return SheetB
	}
	return SheetA
}

// DayIndex maps a date to its 0-based Monday-first column offset.
func DayIndex(t time.Time) int {
	// time.Weekday is Sunday-first.
	return (int(t.Weekday()) + 6) % 7
}

// IsWorkValue reports whether a raw schedule cell means a working shift.
// Empty cells and REST/OFF (any case) are rest days.
func IsWorkValue(raw string) bool {
	v := strings.ToUpper(strings.TrimSpace(raw))
	return v != "" && v != "REST" && v != "OFF"
}

// Shift is a parsed "HH:MM-HH:MM" schedule value. Times are minutes since
// midnight in the business timezone.
type Shift struct {
	StartMinutes int
	EndMinutes   int
}

// ParseShift parses a schedule range value.
func ParseShift(raw string) (Shift, error) {
	start, end, ok := strings.Cut(strings.TrimSpace(raw), "-")
	if !ok {
		return Shift{}, fmt.Errorf("schedule value %q is not a time range", raw)
	}

	startMin, err := ParseClock(start)
	if err != nil {
		return Shift{}, fmt.Errorf("invalid shift start in %q: %w", raw, err)
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return Shift{}, fmt.Errorf("invalid shift end in %q: %w", raw, err)
	}

	return Shift{StartMinutes: startMin, EndMinutes: endMin}, nil
}

// ParseClock parses an "HH:MM" value into minutes since midnight.
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("time %q is not HH:MM", s)
	}

	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("time %q has an invalid hour", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time %q has an invalid minute", s)
	}

	return hour*60 + minute, nil
}

// Package attendance implements the cell-string encoding that the monthly
// sheets use as the sole source of truth for a worker's daily state.
//
// One cell holds one (worker, day) pair:
//
//	""            not checked in
//	"09:15-"      checked in at 09:15, shift still open
//	"09:15-17:30" complete shift
//
// Anything else is out of grammar and reported as Unknown rather than
// coerced. A cell only ever moves forward within a day: empty, then open,
// then complete.
package attendance

import "strings"

// State is the tri-state (plus unknown) classification of a cell.
type State string

const (
	NotCheckedIn State = "NOT_CHECKED_IN"
	CheckedIn    State = "CHECKED_IN"
	Complete     State = "COMPLETE"
	Unknown      State = "UNKNOWN"
)

// Status is the decoded form of one attendance cell.
type Status struct {
	State   State
	TimeIn  string
	TimeOut string
	Raw     string
}

// Parse decodes a raw cell value. The grammar is positional: a trailing dash
// means an open shift, any other dash splits check-in from check-out at its
// first occurrence.
func Parse(raw string) Status {
	switch {
	case raw == "":
		return Status{State: NotCheckedIn}
	case strings.HasSuffix(raw, "-"):
		return Status{
			State:  CheckedIn,
			TimeIn: strings.TrimSuffix(raw, "-"),
			Raw:    raw,
		}
	case strings.Contains(raw, "-"):
		timeIn, timeOut, _ := strings.Cut(raw, "-")
		return Status{
			State:   Complete,
			TimeIn:  timeIn,
			TimeOut: timeOut,
			Raw:     raw,
		}
	default:
		return Status{State: Unknown, Raw: raw}
	}
}

// EncodeCheckIn produces the open-shift cell value for a check-in time.
func EncodeCheckIn(timeIn string) string {
	return timeIn + "-"
}

// EncodeComplete produces the completed-shift cell value.
func EncodeComplete(timeIn, timeOut string) string {
	return timeIn + "-" + timeOut
}

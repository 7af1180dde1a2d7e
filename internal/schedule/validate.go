package schedule

import (
	"errors"
	"time"
)

// ErrInvalidRange is a caller error (start after end), distinct from a
// conflict. No day iteration happens when it is returned.
var ErrInvalidRange = errors.New("selection start date is after end date")

// ValidationResult is the outcome of a selection check. A conflict is a
// normal value, not an error: the UI renders the specific day and reason.
type ValidationResult struct {
	OK          bool      `json:"ok"`
	ConflictDay time.Time `json:"conflict_day,omitempty"`
	Reason      DayStatus `json:"reason,omitempty"`
}

// ValidateSelection checks a proposed inclusive range [start, end] against
// the given occupancy. Days are checked in increasing order and the first
// non-available day is reported; callers rely on that for predictable error
// messages. A single-day selection (start == end) is valid input.
//
// A successful result is advisory only. The engine has no transactional
// authority over the record store, so the same check must run again at
// commit time; a commit-time rejection means another writer took the dates
// in between and is a normal outcome, not a fault.
func ValidateSelection(today, start, end time.Time, intervals []OccupancyInterval) (ValidationResult, error) {
	s, e := Day(start), Day(end)
	if s.After(e) {
		return ValidationResult{}, ErrInvalidRange
	}
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		if status := ResolveDayStatus(today, d, intervals); status != StatusAvailable {
			return ValidationResult{ConflictDay: d, Reason: status}, nil
		}
	}
	return ValidationResult{OK: true}, nil
}

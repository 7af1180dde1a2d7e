package schedule

import "time"

type DayStatus string

const (
	StatusAvailable DayStatus = "available"
	StatusReserved  DayStatus = "reserved"
	StatusBlocked   DayStatus = "blocked"
	StatusPast      DayStatus = "past"
)

// ResolveDayStatus classifies a single day for one car. Precedence, highest
// first: past, blocked, reserved, available. Maintenance is an administrative
// override and must win over a reservation occupying the same day; reversing
// the order would let a customer book a car that is out of service.
//
// "today" is an explicit parameter so the engine stays a pure function of
// its inputs.
func ResolveDayStatus(today, day time.Time, intervals []OccupancyInterval) DayStatus {
	d := Day(day)
	if d.Before(Day(today)) {
		return StatusPast
	}
	for _, iv := range intervals {
		if iv.Kind == KindMaintenance && iv.Range.Contains(d) {
			return StatusBlocked
		}
	}
	for _, iv := range intervals {
		if iv.Kind == KindReservation && iv.Range.Contains(d) {
			return StatusReserved
		}
	}
	return StatusAvailable
}

// DayState pairs a day with its resolved status, for calendar rendering.
type DayState struct {
	Day    time.Time `json:"day"`
	Status DayStatus `json:"status"`
}

// ResolveWindow resolves every day in [from, to] inclusive, in increasing
// date order.
func ResolveWindow(today, from, to time.Time, intervals []OccupancyInterval) []DayState {
	start, end := Day(from), Day(to)
	var days []DayState
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, DayState{Day: d, Status: ResolveDayStatus(today, d, intervals)})
	}
	return days
}

package schedule

import "time"

// Day truncates t to calendar-date granularity in UTC. All engine
// comparisons operate on these normalized values; time-of-day is ignored.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateRange is an inclusive range of calendar days [Start, End].
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: Day(start), End: Day(end)}
}

// Overlaps reports whether two inclusive day ranges share at least one day:
// a.Start <= b.End && b.Start <= a.End.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Contains reports whether Start <= day <= End.
func (r DateRange) Contains(day time.Time) bool {
	d := Day(day)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days returns the number of calendar days covered, inclusive of both ends.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start)/(24*time.Hour)) + 1
}

package schedule

import (
	"time"

	"github.com/Karpenko88/carbooking/internal/domain"
)

type IntervalKind string

const (
	KindReservation IntervalKind = "reservation"
	KindMaintenance IntervalKind = "maintenance"
)

// OccupancyInterval is the unified projection of a Reservation or a
// MaintenanceBlock. It is derived on every query, never stored. Intervals
// for the same car may overlap; the resolver handles precedence.
type OccupancyInterval struct {
	CarID int64        `json:"car_id"`
	Range DateRange    `json:"range"`
	Kind  IntervalKind `json:"kind"`
	Label string       `json:"label"`
	// Status is set for reservation intervals only, so fleet views can
	// render pending holds with different emphasis than confirmed ones.
	Status domain.ReservationStatus `json:"status,omitempty"`
}

// FromReservations projects reservations into occupancy intervals.
// Reservations whose status does not occupy dates (COMPLETED, CANCELLED)
// are dropped here and never reach the resolver.
func FromReservations(reservations []domain.Reservation) []OccupancyInterval {
	intervals := make([]OccupancyInterval, 0, len(reservations))
	for _, r := range reservations {
		if !r.Status.Occupies() {
			continue
		}
		intervals = append(intervals, OccupancyInterval{
			CarID:  r.CarID,
			Range:  NewDateRange(r.StartDate, r.EndDate),
			Kind:   KindReservation,
			Label:  r.CustomerName,
			Status: r.Status,
		})
	}
	return intervals
}

// FromMaintenanceBlocks projects maintenance blocks into occupancy
// intervals. Blocks occupy unconditionally.
func FromMaintenanceBlocks(blocks []domain.MaintenanceBlock) []OccupancyInterval {
	intervals := make([]OccupancyInterval, 0, len(blocks))
	for _, b := range blocks {
		intervals = append(intervals, OccupancyInterval{
			CarID: b.CarID,
			Range: NewDateRange(b.StartDate, b.EndDate),
			Kind:  KindMaintenance,
			Label: b.Reason,
		})
	}
	return intervals
}

// ClipToWindow drops intervals wholly outside [from, to]. Intervals that
// merely touch the window are kept in full; callers clip for display.
func ClipToWindow(intervals []OccupancyInterval, from, to time.Time) []OccupancyInterval {
	window := NewDateRange(from, to)
	kept := make([]OccupancyInterval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.Range.Overlaps(window) {
			kept = append(kept, iv)
		}
	}
	return kept
}

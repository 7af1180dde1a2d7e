package domain

import "time"

// MaintenanceBlock is an administrative unavailability window for a car.
// It has no lifecycle: every day in [StartDate, EndDate] is occupied until
// the block is deleted.
type MaintenanceBlock struct {
	ID        int64
	CarID     int64
	StartDate time.Time
	EndDate   time.Time
	Reason    string
	CreatedAt time.Time
}

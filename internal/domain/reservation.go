package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// Occupies reports whether a reservation in this status holds its dates.
// COMPLETED and CANCELLED reservations never occupy calendar days.
func (s ReservationStatus) Occupies() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusActive:
		return true
	default:
		return false
	}
}

// Reservation is a customer hold on a car. StartDate and EndDate are
// inclusive whole days (UTC midnight); a reservation ending on day D keeps
// D itself unavailable (full-day turnover policy).
type Reservation struct {
	ID           int64
	CarID        int64
	StartDate    time.Time
	EndDate      time.Time
	Token        string
	Status       ReservationStatus
	CustomerName string
	Email        string
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Karpenko88/carbooking/internal/domain"
	"github.com/Karpenko88/carbooking/internal/kafka"
	"github.com/Karpenko88/carbooking/internal/repository"
	"github.com/Karpenko88/carbooking/internal/schedule"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	CreateReservation(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error)
	ConfirmReservation(ctx context.Context, token string) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, token string) (*domain.Reservation, error)
	ExpirePendingReservations(ctx context.Context) ([]domain.Reservation, error)
}

// Validator is the advisory availability check run before the insert.
type Validator interface {
	Validate(ctx context.Context, carID int64, start, end time.Time) (schedule.ValidationResult, error)
}

type Cache interface {
	InvalidateCar(ctx context.Context, carID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// ConflictError reports the first unavailable day of a rejected selection,
// so the caller can tell the customer exactly why ("booked on <date>" vs
// "in maintenance" vs "in the past").
type ConflictError struct {
	Day    time.Time
	Reason schedule.DayStatus
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("dates unavailable: %s on %s", e.Reason, e.Day.Format("2006-01-02"))
}

type BookingService struct {
	reservations       repository.ReservationRepository
	validator          Validator
	cache              Cache
	producer           Producer
	reservationsTopic  string
	notificationsTopic string
	pendingTTL         time.Duration
}

type CreateReservationInput struct {
	CarID        int64     `json:"car_id"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	CustomerName string    `json:"customer_name"`
	Email        string    `json:"email"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	reservations repository.ReservationRepository,
	validator Validator,
	cache Cache,
	producer Producer,
	reservationsTopic string,
	pendingTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		reservations:      reservations,
		validator:         validator,
		cache:             cache,
		producer:          producer,
		reservationsTopic: reservationsTopic,
		pendingTTL:        pendingTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateReservation validates the selection, then inserts a pending
// reservation. The insert repeats the overlap check inside its transaction;
// repository.ErrDatesTaken from there means another writer took the dates
// after validation passed, which is an expected outcome the caller surfaces
// as "dates just became unavailable".
func (s *BookingService) CreateReservation(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error) {
	if input.CustomerName == "" {
		return nil, errors.New("customer name is required")
	}
	if input.Email == "" {
		return nil, errors.New("email is required")
	}

	result, err := s.validator.Validate(ctx, input.CarID, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	if !result.OK {
		return nil, &ConflictError{Day: result.ConflictDay, Reason: result.Reason}
	}

	reservation := &domain.Reservation{
		CarID:        input.CarID,
		StartDate:    schedule.Day(input.StartDate),
		EndDate:      schedule.Day(input.EndDate),
		Token:        uuid.NewString(),
		CustomerName: input.CustomerName,
		Email:        input.Email,
		ExpiresAt:    time.Now().Add(s.pendingTTL),
	}

	if err := s.reservations.CreateOverlapFree(ctx, reservation); err != nil {
		return nil, err
	}

	s.invalidate(ctx, reservation.CarID)
	if err := s.publish(ctx, "reservation_created", reservation); err != nil {
		log.Printf("WARNING: failed to publish reservation_created for %s: %v", reservation.Token, err)
	}
	return reservation, nil
}

func (s *BookingService) ConfirmReservation(ctx context.Context, token string) (*domain.Reservation, error) {
	current, err := s.reservations.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.ReservationStatusPending {
		return nil, errors.New("reservation is not pending")
	}

	updated, err := s.reservations.UpdateStatus(ctx, token, domain.ReservationStatusConfirmed)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, updated.CarID)
	if err := s.publish(ctx, "reservation_confirmed", updated); err != nil {
		log.Printf("WARNING: failed to publish reservation_confirmed for %s: %v", updated.Token, err)
	}
	return updated, nil
}

func (s *BookingService) CancelReservation(ctx context.Context, token string) (*domain.Reservation, error) {
	current, err := s.reservations.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.ReservationStatusCancelled || current.Status == domain.ReservationStatusCompleted {
		return current, nil
	}

	updated, err := s.reservations.UpdateStatus(ctx, token, domain.ReservationStatusCancelled)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, updated.CarID)
	if err := s.publish(ctx, "reservation_cancelled", updated); err != nil {
		log.Printf("WARNING: failed to publish reservation_cancelled for %s: %v", updated.Token, err)
	}
	return updated, nil
}

// ExpirePendingReservations cancels pending reservations whose confirmation
// window lapsed, freeing their days for new selections.
func (s *BookingService) ExpirePendingReservations(ctx context.Context) ([]domain.Reservation, error) {
	expired, err := s.reservations.ExpirePendingBefore(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	for _, r := range expired {
		s.invalidate(ctx, r.CarID)
		_ = s.publish(ctx, "reservation_expired", &r)
	}
	return expired, nil
}

func (s *BookingService) invalidate(ctx context.Context, carID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCar(ctx, carID); err != nil {
		log.Printf("invalidate occupancy cache for car %d: %v", carID, err)
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, reservation *domain.Reservation) error {
	if s.producer == nil || s.reservationsTopic == "" {
		return nil
	}
	event := kafka.ReservationEvent{
		Type:         eventType,
		Token:        reservation.Token,
		CarID:        reservation.CarID,
		StartDate:    reservation.StartDate,
		EndDate:      reservation.EndDate,
		CustomerName: reservation.CustomerName,
		Email:        reservation.Email,
		Status:       string(reservation.Status),
		ExpiresAt:    reservation.ExpiresAt,
	}
	if err := s.producer.Publish(ctx, s.reservationsTopic, reservation.Token, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, reservation.Token, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)

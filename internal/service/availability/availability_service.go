package availability

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Karpenko88/carbooking/internal/domain"
	"github.com/Karpenko88/carbooking/internal/repository"
	"github.com/Karpenko88/carbooking/internal/schedule"
)

type AvailabilityUseCase interface {
	Occupancy(ctx context.Context, carID int64, from, to time.Time) ([]schedule.OccupancyInterval, error)
	Calendar(ctx context.Context, carID int64, from, to time.Time) ([]schedule.DayState, error)
	Validate(ctx context.Context, carID int64, start, end time.Time) (schedule.ValidationResult, error)
	FleetEvents(ctx context.Context, carIDs []int64, from, to time.Time) ([]schedule.OccupancyInterval, error)
	CreateBlock(ctx context.Context, input CreateBlockInput) (*domain.MaintenanceBlock, error)
	DeleteBlock(ctx context.Context, id int64) error
}

type Cache interface {
	GetOccupancy(ctx context.Context, carID int64, from, to time.Time) ([]schedule.OccupancyInterval, error)
	SetOccupancy(ctx context.Context, carID int64, from, to time.Time, intervals []schedule.OccupancyInterval) error
	InvalidateCar(ctx context.Context, carID int64) error
}

type AvailabilityService struct {
	reservations repository.ReservationRepository
	maintenance  repository.MaintenanceRepository
	cache        Cache
	// now is swappable in tests; production wiring leaves it as time.Now
	now func() time.Time
}

type CreateBlockInput struct {
	CarID     int64     `json:"car_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason"`
}

type AvailabilityServiceOption func(*AvailabilityService)

func WithClock(now func() time.Time) AvailabilityServiceOption {
	return func(s *AvailabilityService) {
		s.now = now
	}
}

func NewAvailabilityService(
	reservations repository.ReservationRepository,
	maintenance repository.MaintenanceRepository,
	cache Cache,
	opts ...AvailabilityServiceOption,
) *AvailabilityService {
	service := &AvailabilityService{
		reservations: reservations,
		maintenance:  maintenance,
		cache:        cache,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Occupancy is the availability index: every interval touching [from, to]
// for one car, reservations filtered to occupying lifecycle states.
// Snapshots are cached per (car, window) and recomputed on a miss.
func (s *AvailabilityService) Occupancy(ctx context.Context, carID int64, from, to time.Time) ([]schedule.OccupancyInterval, error) {
	from, to = schedule.Day(from), schedule.Day(to)
	if from.After(to) {
		return nil, schedule.ErrInvalidRange
	}

	if s.cache != nil {
		if cached, err := s.cache.GetOccupancy(ctx, carID, from, to); err == nil && cached != nil {
			return cached, nil
		}
	}

	reservations, err := s.reservations.ListForCar(ctx, carID, from, to)
	if err != nil {
		return nil, err
	}
	blocks, err := s.maintenance.ListForCar(ctx, carID, from, to)
	if err != nil {
		return nil, err
	}

	intervals := append(schedule.FromReservations(reservations), schedule.FromMaintenanceBlocks(blocks)...)
	intervals = schedule.ClipToWindow(intervals, from, to)

	if s.cache != nil {
		if err := s.cache.SetOccupancy(ctx, carID, from, to, intervals); err != nil {
			log.Printf("cache occupancy for car %d: %v", carID, err)
		}
	}
	return intervals, nil
}

// Calendar resolves every day in [from, to] for the single-car calendar view.
func (s *AvailabilityService) Calendar(ctx context.Context, carID int64, from, to time.Time) ([]schedule.DayState, error) {
	intervals, err := s.Occupancy(ctx, carID, from, to)
	if err != nil {
		return nil, err
	}
	return schedule.ResolveWindow(s.now(), from, to, intervals), nil
}

// Validate checks a proposed selection against fresh occupancy. The result
// is advisory; the reservation insert re-checks inside its transaction.
func (s *AvailabilityService) Validate(ctx context.Context, carID int64, start, end time.Time) (schedule.ValidationResult, error) {
	start, end = schedule.Day(start), schedule.Day(end)
	if start.After(end) {
		return schedule.ValidationResult{}, schedule.ErrInvalidRange
	}
	intervals, err := s.Occupancy(ctx, carID, start, end)
	if err != nil {
		return schedule.ValidationResult{}, err
	}
	return schedule.ValidateSelection(s.now(), start, end, intervals)
}

// FleetEvents unions per-car occupancy for an explicit car set, keeping the
// car tag on every interval. An empty set yields an empty list.
func (s *AvailabilityService) FleetEvents(ctx context.Context, carIDs []int64, from, to time.Time) ([]schedule.OccupancyInterval, error) {
	all := make([]schedule.OccupancyInterval, 0)
	for _, carID := range carIDs {
		intervals, err := s.Occupancy(ctx, carID, from, to)
		if err != nil {
			return nil, err
		}
		all = append(all, intervals...)
	}
	return schedule.FleetEvents(carIDs, all), nil
}

func (s *AvailabilityService) CreateBlock(ctx context.Context, input CreateBlockInput) (*domain.MaintenanceBlock, error) {
	start, end := schedule.Day(input.StartDate), schedule.Day(input.EndDate)
	if start.After(end) {
		return nil, schedule.ErrInvalidRange
	}
	if input.Reason == "" {
		return nil, errors.New("reason is required")
	}

	block := &domain.MaintenanceBlock{
		CarID:     input.CarID,
		StartDate: start,
		EndDate:   end,
		Reason:    input.Reason,
	}
	if err := s.maintenance.Create(ctx, block); err != nil {
		return nil, err
	}
	s.invalidate(ctx, block.CarID)
	return block, nil
}

func (s *AvailabilityService) DeleteBlock(ctx context.Context, id int64) error {
	block, err := s.maintenance.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.invalidate(ctx, block.CarID)
	return nil
}

func (s *AvailabilityService) invalidate(ctx context.Context, carID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCar(ctx, carID); err != nil {
		log.Printf("invalidate occupancy cache for car %d: %v", carID, err)
	}
}

var _ AvailabilityUseCase = (*AvailabilityService)(nil)

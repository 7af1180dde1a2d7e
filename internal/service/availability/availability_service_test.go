package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Karpenko88/carbooking/internal/domain"
	"github.com/Karpenko88/carbooking/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) ListForCar(ctx context.Context, carID int64, from, to time.Time) ([]domain.Reservation, error) {
	args := m.Called(ctx, carID, from, to)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) CreateOverlapFree(ctx context.Context, reservation *domain.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) GetByToken(ctx context.Context, token string) (*domain.Reservation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) UpdateStatus(ctx context.Context, token string, status domain.ReservationStatus) (*domain.Reservation, error) {
	args := m.Called(ctx, token, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Reservation, error) {
	args := m.Called(ctx, deadline)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

type MockMaintenanceRepository struct {
	mock.Mock
}

func (m *MockMaintenanceRepository) ListForCar(ctx context.Context, carID int64, from, to time.Time) ([]domain.MaintenanceBlock, error) {
	args := m.Called(ctx, carID, from, to)
	return args.Get(0).([]domain.MaintenanceBlock), args.Error(1)
}

func (m *MockMaintenanceRepository) Create(ctx context.Context, block *domain.MaintenanceBlock) error {
	args := m.Called(ctx, block)
	return args.Error(0)
}

func (m *MockMaintenanceRepository) Delete(ctx context.Context, id int64) (*domain.MaintenanceBlock, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaintenanceBlock), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetOccupancy(ctx context.Context, carID int64, from, to time.Time) ([]schedule.OccupancyInterval, error) {
	args := m.Called(ctx, carID, from, to)
	return args.Get(0).([]schedule.OccupancyInterval), args.Error(1)
}

func (m *MockCache) SetOccupancy(ctx context.Context, carID int64, from, to time.Time, intervals []schedule.OccupancyInterval) error {
	args := m.Called(ctx, carID, from, to, intervals)
	return args.Error(0)
}

func (m *MockCache) InvalidateCar(ctx context.Context, carID int64) error {
	args := m.Called(ctx, carID)
	return args.Error(0)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAvailabilityService_Occupancy_CacheMiss(t *testing.T) {
	mockReservations := &MockReservationRepository{}
	mockMaintenance := &MockMaintenanceRepository{}
	mockCache := &MockCache{}

	service := NewAvailabilityService(mockReservations, mockMaintenance, mockCache)

	ctx := context.Background()
	from, to := date(2026, time.March, 1), date(2026, time.March, 31)

	reservations := []domain.Reservation{
		{CarID: 1, StartDate: date(2026, time.March, 10), EndDate: date(2026, time.March, 15), Status: domain.ReservationStatusConfirmed, CustomerName: "Petrov"},
		{CarID: 1, StartDate: date(2026, time.March, 20), EndDate: date(2026, time.March, 22), Status: domain.ReservationStatusCancelled},
	}
	blocks := []domain.MaintenanceBlock{
		{CarID: 1, StartDate: date(2026, time.March, 5), EndDate: date(2026, time.March, 6), Reason: "tire change"},
	}

	mockCache.On("GetOccupancy", ctx, int64(1), from, to).Return(([]schedule.OccupancyInterval)(nil), nil).Once()
	mockReservations.On("ListForCar", ctx, int64(1), from, to).Return(reservations, nil).Once()
	mockMaintenance.On("ListForCar", ctx, int64(1), from, to).Return(blocks, nil).Once()
	mockCache.On("SetOccupancy", ctx, int64(1), from, to, mock.AnythingOfType("[]schedule.OccupancyInterval")).Return(nil).Once()

	intervals, err := service.Occupancy(ctx, 1, from, to)

	assert.NoError(t, err)
	// cancelled reservation dropped by the adapter
	assert.Len(t, intervals, 2)
	assert.Equal(t, schedule.KindReservation, intervals[0].Kind)
	assert.Equal(t, schedule.KindMaintenance, intervals[1].Kind)

	mockCache.AssertExpectations(t)
	mockReservations.AssertExpectations(t)
	mockMaintenance.AssertExpectations(t)
}

func TestAvailabilityService_Occupancy_CacheHit(t *testing.T) {
	mockReservations := &MockReservationRepository{}
	mockMaintenance := &MockMaintenanceRepository{}
	mockCache := &MockCache{}

	service := NewAvailabilityService(mockReservations, mockMaintenance, mockCache)

	ctx := context.Background()
	from, to := date(2026, time.March, 1), date(2026, time.March, 31)

	cached := []schedule.OccupancyInterval{
		{CarID: 1, Kind: schedule.KindMaintenance, Range: schedule.NewDateRange(date(2026, time.March, 5), date(2026, time.March, 6))},
	}
	mockCache.On("GetOccupancy", ctx, int64(1), from, to).Return(cached, nil).Once()

	intervals, err := service.Occupancy(ctx, 1, from, to)

	assert.NoError(t, err)
	assert.Equal(t, cached, intervals)

	mockCache.AssertExpectations(t)
	mockReservations.AssertNotCalled(t, "ListForCar")
	mockMaintenance.AssertNotCalled(t, "ListForCar")
}

func TestAvailabilityService_Occupancy_InvalidWindow(t *testing.T) {
	service := NewAvailabilityService(&MockReservationRepository{}, &MockMaintenanceRepository{}, nil)

	_, err := service.Occupancy(context.Background(), 1, date(2026, time.March, 31), date(2026, time.March, 1))

	assert.ErrorIs(t, err, schedule.ErrInvalidRange)
}

func TestAvailabilityService_Calendar(t *testing.T) {
	mockReservations := &MockReservationRepository{}
	mockMaintenance := &MockMaintenanceRepository{}

	service := NewAvailabilityService(mockReservations, mockMaintenance, nil,
		WithClock(fixedClock(date(2026, time.March, 2))))

	ctx := context.Background()
	from, to := date(2026, time.March, 1), date(2026, time.March, 4)

	mockReservations.On("ListForCar", ctx, int64(1), from, to).Return([]domain.Reservation{
		{CarID: 1, StartDate: date(2026, time.March, 3), EndDate: date(2026, time.March, 3), Status: domain.ReservationStatusPending},
	}, nil).Once()
	mockMaintenance.On("ListForCar", ctx, int64(1), from, to).Return([]domain.MaintenanceBlock{}, nil).Once()

	days, err := service.Calendar(ctx, 1, from, to)

	assert.NoError(t, err)
	assert.Len(t, days, 4)
	assert.Equal(t, schedule.StatusPast, days[0].Status)
	assert.Equal(t, schedule.StatusAvailable, days[1].Status)
	assert.Equal(t, schedule.StatusReserved, days[2].Status)
	assert.Equal(t, schedule.StatusAvailable, days[3].Status)

	mockReservations.AssertExpectations(t)
	mockMaintenance.AssertExpectations(t)
}

func TestAvailabilityService_Validate_Conflict(t *testing.T) {
	mockReservations := &MockReservationRepository{}
	mockMaintenance := &MockMaintenanceRepository{}

	service := NewAvailabilityService(mockReservations, mockMaintenance, nil,
		WithClock(fixedClock(date(2026, time.March, 1))))

	ctx := context.Background()
	start, end := date(2026, time.March, 12), date(2026, time.March, 13)

	mockReservations.On("ListForCar", ctx, int64(1), start, end).Return([]domain.Reservation{
		{CarID: 1, StartDate: date(2026, time.March, 10), EndDate: date(2026, time.March, 15), Status: domain.ReservationStatusConfirmed},
	}, nil).Once()
	mockMaintenance.On("ListForCar", ctx, int64(1), start, end).Return([]domain.MaintenanceBlock{}, nil).Once()

	result, err := service.Validate(ctx, 1, start, end)

	assert.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, date(2026, time.March, 12), result.ConflictDay)
	assert.Equal(t, schedule.StatusReserved, result.Reason)
}

func TestAvailabilityService_Validate_InvalidRange(t *testing.T) {
	mockReservations := &MockReservationRepository{}
	service := NewAvailabilityService(mockReservations, &MockMaintenanceRepository{}, nil)

	_, err := service.Validate(context.Background(), 1, date(2026, time.March, 15), date(2026, time.March, 10))

	assert.ErrorIs(t, err, schedule.ErrInvalidRange)
	mockReservations.AssertNotCalled(t, "ListForCar")
}

func TestAvailabilityService_FleetEvents(t *testing.T) {
	mockReservations := &MockReservationRepository{}
	mockMaintenance := &MockMaintenanceRepository{}

	service := NewAvailabilityService(mockReservations, mockMaintenance, nil)

	ctx := context.Background()
	from, to := date(2026, time.March, 1), date(2026, time.March, 31)

	// car 1 fully available
	mockReservations.On("ListForCar", ctx, int64(1), from, to).Return([]domain.Reservation{}, nil).Once()
	mockMaintenance.On("ListForCar", ctx, int64(1), from, to).Return([]domain.MaintenanceBlock{}, nil).Once()
	// car 2 blocked by maintenance
	mockReservations.On("ListForCar", ctx, int64(2), from, to).Return([]domain.Reservation{}, nil).Once()
	mockMaintenance.On("ListForCar", ctx, int64(2), from, to).Return([]domain.MaintenanceBlock{
		{CarID: 2, StartDate: date(2026, time.March, 1), EndDate: date(2026, time.March, 31), Reason: "body repair"},
	}, nil).Once()

	events, err := service.FleetEvents(ctx, []int64{1, 2}, from, to)

	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, int64(2), events[0].CarID)
	assert.Equal(t, schedule.KindMaintenance, events[0].Kind)
}

func TestAvailabilityService_CreateBlock_InvalidatesCache(t *testing.T) {
	mockMaintenance := &MockMaintenanceRepository{}
	mockCache := &MockCache{}

	service := NewAvailabilityService(&MockReservationRepository{}, mockMaintenance, mockCache)

	ctx := context.Background()
	input := CreateBlockInput{
		CarID:     7,
		StartDate: date(2026, time.April, 1),
		EndDate:   date(2026, time.April, 3),
		Reason:    "inspection",
	}

	mockMaintenance.On("Create", ctx, mock.AnythingOfType("*domain.MaintenanceBlock")).Return(nil).Once()
	mockCache.On("InvalidateCar", ctx, int64(7)).Return(nil).Once()

	block, err := service.CreateBlock(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), block.CarID)
	assert.Equal(t, "inspection", block.Reason)

	mockMaintenance.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestAvailabilityService_CreateBlock_ValidationErrors(t *testing.T) {
	service := NewAvailabilityService(&MockReservationRepository{}, &MockMaintenanceRepository{}, nil)

	_, err := service.CreateBlock(context.Background(), CreateBlockInput{
		CarID:     7,
		StartDate: date(2026, time.April, 3),
		EndDate:   date(2026, time.April, 1),
		Reason:    "inspection",
	})
	assert.ErrorIs(t, err, schedule.ErrInvalidRange)

	_, err = service.CreateBlock(context.Background(), CreateBlockInput{
		CarID:     7,
		StartDate: date(2026, time.April, 1),
		EndDate:   date(2026, time.April, 3),
	})
	assert.EqualError(t, err, "reason is required")
}

func TestAvailabilityService_DeleteBlock(t *testing.T) {
	mockMaintenance := &MockMaintenanceRepository{}
	mockCache := &MockCache{}

	service := NewAvailabilityService(&MockReservationRepository{}, mockMaintenance, mockCache)

	ctx := context.Background()
	block := &domain.MaintenanceBlock{ID: 3, CarID: 7}

	mockMaintenance.On("Delete", ctx, int64(3)).Return(block, nil).Once()
	mockCache.On("InvalidateCar", ctx, int64(7)).Return(nil).Once()

	assert.NoError(t, service.DeleteBlock(ctx, 3))

	mockMaintenance.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestAvailabilityService_DeleteBlock_NotFound(t *testing.T) {
	mockMaintenance := &MockMaintenanceRepository{}

	service := NewAvailabilityService(&MockReservationRepository{}, mockMaintenance, nil)

	ctx := context.Background()
	mockMaintenance.On("Delete", ctx, int64(9)).Return(nil, errors.New("maintenance block not found")).Once()

	err := service.DeleteBlock(ctx, 9)

	assert.EqualError(t, err, "maintenance block not found")
}

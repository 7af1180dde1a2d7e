package cars

import (
	"context"

	"github.com/Karpenko88/carbooking/internal/domain"
	"github.com/Karpenko88/carbooking/internal/repository"
)

type CarUseCase interface {
	List(ctx context.Context) ([]domain.Car, error)
	GetByID(ctx context.Context, id int64) (*domain.Car, error)
}

type Cache interface {
	GetCars(ctx context.Context) ([]domain.Car, error)
	SetCars(ctx context.Context, cars []domain.Car) error
}

type CarService struct {
	repo  repository.CarRepository
	cache Cache
}

func NewCarService(repo repository.CarRepository, cache Cache) *CarService {
	return &CarService{repo: repo, cache: cache}
}

func (s *CarService) List(ctx context.Context) ([]domain.Car, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetCars(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	cars, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetCars(ctx, cars)
	}
	return cars, nil
}

func (s *CarService) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	return s.repo.GetByID(ctx, id)
}

var _ CarUseCase = (*CarService)(nil)

package repository

import (
	"context"

	"github.com/Karpenko88/carbooking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CarRepository interface {
	List(ctx context.Context) ([]domain.Car, error)
	GetByID(ctx context.Context, id int64) (*domain.Car, error)
}

type PGCarRepository struct {
	db *pgxpool.Pool
}

func NewCarRepository(db *pgxpool.Pool) CarRepository {
	return &PGCarRepository{db: db}
}

func (r *PGCarRepository) List(ctx context.Context) ([]domain.Car, error) {
	rows, err := r.db.Query(ctx, `SELECT id, label, code, created_at, updated_at FROM cars ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cars := make([]domain.Car, 0)
	for rows.Next() {
		var c domain.Car
		if err := rows.Scan(&c.ID, &c.Label, &c.Code, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

func (r *PGCarRepository) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	row := r.db.QueryRow(ctx, `SELECT id, label, code, created_at, updated_at FROM cars WHERE id=$1`, id)
	var c domain.Car
	if err := row.Scan(&c.ID, &c.Label, &c.Code, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

var _ CarRepository = (*PGCarRepository)(nil)

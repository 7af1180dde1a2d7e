package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Karpenko88/carbooking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MaintenanceRepository interface {
	ListForCar(ctx context.Context, carID int64, from, to time.Time) ([]domain.MaintenanceBlock, error)
	Create(ctx context.Context, block *domain.MaintenanceBlock) error
	Delete(ctx context.Context, id int64) (*domain.MaintenanceBlock, error)
}

type PGMaintenanceRepository struct {
	db *pgxpool.Pool
}

func NewMaintenanceRepository(db *pgxpool.Pool) MaintenanceRepository {
	return &PGMaintenanceRepository{db: db}
}

func (r *PGMaintenanceRepository) ListForCar(ctx context.Context, carID int64, from, to time.Time) ([]domain.MaintenanceBlock, error) {
	rows, err := r.db.Query(ctx, `SELECT id, car_id, start_date, end_date, reason, created_at FROM maintenance_blocks
		WHERE car_id=$1 AND start_date <= $3 AND end_date >= $2
		ORDER BY start_date`, carID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blocks := make([]domain.MaintenanceBlock, 0)
	for rows.Next() {
		var b domain.MaintenanceBlock
		if err := rows.Scan(&b.ID, &b.CarID, &b.StartDate, &b.EndDate, &b.Reason, &b.CreatedAt); err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func (r *PGMaintenanceRepository) Create(ctx context.Context, block *domain.MaintenanceBlock) error {
	return r.db.QueryRow(ctx, `INSERT INTO maintenance_blocks (car_id, start_date, end_date, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		block.CarID, block.StartDate, block.EndDate, block.Reason).
		Scan(&block.ID, &block.CreatedAt)
}

func (r *PGMaintenanceRepository) Delete(ctx context.Context, id int64) (*domain.MaintenanceBlock, error) {
	row := r.db.QueryRow(ctx, `DELETE FROM maintenance_blocks WHERE id=$1
		RETURNING id, car_id, start_date, end_date, reason, created_at`, id)
	var b domain.MaintenanceBlock
	if err := row.Scan(&b.ID, &b.CarID, &b.StartDate, &b.EndDate, &b.Reason, &b.CreatedAt); err != nil {
		return nil, errors.New("maintenance block not found")
	}
	return &b, nil
}

var _ MaintenanceRepository = (*PGMaintenanceRepository)(nil)

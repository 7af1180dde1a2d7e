package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Karpenko88/carbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDatesTaken is the commit-time conflict: another writer took one of the
// requested days between client-side validation and this insert. Callers
// surface it as "dates just became unavailable" and ask the user to re-pick.
var ErrDatesTaken = errors.New("requested dates are no longer available")

type ReservationRepository interface {
	ListForCar(ctx context.Context, carID int64, from, to time.Time) ([]domain.Reservation, error)
	CreateOverlapFree(ctx context.Context, reservation *domain.Reservation) error
	GetByToken(ctx context.Context, token string) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, token string, status domain.ReservationStatus) (*domain.Reservation, error)
	ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Reservation, error)
}

type PGReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{db: db}
}

const reservationColumns = `id, car_id, start_date, end_date, token, status, customer_name, email, expires_at, created_at, updated_at`

func (r *PGReservationRepository) ListForCar(ctx context.Context, carID int64, from, to time.Time) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `SELECT `+reservationColumns+` FROM reservations
		WHERE car_id=$1 AND start_date <= $3 AND end_date >= $2
		ORDER BY start_date`, carID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		b, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *b)
	}
	return reservations, rows.Err()
}

// CreateOverlapFree inserts a pending reservation only if no occupying
// reservation and no maintenance block overlaps the requested inclusive
// range. The car row is locked first so two concurrent inserts for the same
// car serialize; this is the authoritative re-check behind the advisory
// client-side validation.
func (r *PGReservationRepository) CreateOverlapFree(ctx context.Context, reservation *domain.Reservation) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var carID int64
	if err := tx.QueryRow(ctx, `SELECT id FROM cars WHERE id=$1 FOR UPDATE`, reservation.CarID).Scan(&carID); err != nil {
		return err
	}

	var conflicts int
	if err := tx.QueryRow(ctx, `SELECT
		(SELECT count(*) FROM reservations
			WHERE car_id=$1 AND status = ANY($4)
			AND start_date <= $3 AND end_date >= $2)
		+
		(SELECT count(*) FROM maintenance_blocks
			WHERE car_id=$1 AND start_date <= $3 AND end_date >= $2)`,
		reservation.CarID, reservation.StartDate, reservation.EndDate,
		[]string{string(domain.ReservationStatusPending), string(domain.ReservationStatusConfirmed), string(domain.ReservationStatusActive)},
	).Scan(&conflicts); err != nil {
		return err
	}
	if conflicts > 0 {
		return ErrDatesTaken
	}

	reservation.Status = domain.ReservationStatusPending
	if err := tx.QueryRow(ctx, `INSERT INTO reservations (car_id, start_date, end_date, token, status, customer_name, email, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		reservation.CarID, reservation.StartDate, reservation.EndDate, reservation.Token, reservation.Status, reservation.CustomerName, reservation.Email, reservation.ExpiresAt).
		Scan(&reservation.ID, &reservation.CreatedAt, &reservation.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGReservationRepository) GetByToken(ctx context.Context, token string) (*domain.Reservation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE token=$1`, token)
	return scanReservation(row)
}

func (r *PGReservationRepository) UpdateStatus(ctx context.Context, token string, status domain.ReservationStatus) (*domain.Reservation, error) {
	row := r.db.QueryRow(ctx, `UPDATE reservations SET status=$1, updated_at=now() WHERE token=$2 RETURNING `+reservationColumns, status, token)
	return scanReservation(row)
}

func (r *PGReservationRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `UPDATE reservations SET status=$1, updated_at=now()
		WHERE status=$2 AND expires_at <= $3
		RETURNING `+reservationColumns, domain.ReservationStatusCancelled, domain.ReservationStatusPending, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.Reservation
	for rows.Next() {
		b, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, *b)
	}
	return expired, rows.Err()
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var b domain.Reservation
	if err := row.Scan(&b.ID, &b.CarID, &b.StartDate, &b.EndDate, &b.Token, &b.Status, &b.CustomerName, &b.Email, &b.ExpiresAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ ReservationRepository = (*PGReservationRepository)(nil)

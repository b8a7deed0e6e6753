package repository

import (
	"context"
	"time"

	"roomsense/internal/domain/reservation"
	"roomsense/internal/infra/db"

	"github.com/google/uuid"
)

type ReservationRepository struct{}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{}
}

const createReservationSQL = `
INSERT INTO reservations (id, room_id, user_id, during, headcount)
VALUES ($1, $2, $3, tstzrange($4, $5, '[)'), $6)
RETURNING id`

func (r *ReservationRepository) Create(ctx context.Context, dbtx db.DBTX, res *reservation.Reservation) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, createReservationSQL,
		res.ID(),
		res.RoomID(),
		res.UserID(),
		res.TimeSlot().Start(),
		res.TimeSlot().End(),
		res.Headcount(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, wrapPgErr("failed to create reservation", err)
	}

	return id, nil
}

const updateReservationSQL = `
UPDATE reservations
SET during = tstzrange($2, $3, '[)'), headcount = $4, updated_at = now()
WHERE id = $1`

func (r *ReservationRepository) Update(ctx context.Context, dbtx db.DBTX, res *reservation.Reservation) error {
	tag, err := dbtx.Exec(ctx, updateReservationSQL,
		res.ID(),
		res.TimeSlot().Start(),
		res.TimeSlot().End(),
		res.Headcount(),
	)
	if err != nil {
		return wrapPgErr("failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infraNotFound("reservation not found for update")
	}

	return nil
}

const deleteReservationSQL = `DELETE FROM reservations WHERE id = $1`

func (r *ReservationRepository) Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	tag, err := dbtx.Exec(ctx, deleteReservationSQL, id)
	if err != nil {
		return wrapPgErr("failed to delete reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infraNotFound("reservation not found for delete")
	}

	return nil
}

const deleteFutureByUserSQL = `
DELETE FROM reservations
WHERE user_id = $1 AND lower(during) >= $2
RETURNING id`

func (r *ReservationRepository) DeleteFutureByUser(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, now time.Time) ([]uuid.UUID, error) {
	rows, err := dbtx.Query(ctx, deleteFutureByUserSQL, userID, now)
	if err != nil {
		return nil, wrapPgErr("failed to cascade-delete reservations", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, wrapPgErr("failed to scan cascaded reservation id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr("failed to iterate cascaded reservations", err)
	}

	return ids, nil
}

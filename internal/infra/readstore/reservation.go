package readstore

import (
	"context"

	"roomsense/internal/infra/db"
	"roomsense/internal/pkg/errs"
	"roomsense/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReservationReadStore struct {
	dbtx db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{dbtx: dbtx}
}

const findReservationByIDSQL = `
SELECT res.id, res.room_id, r.code, res.user_id, u.email,
       lower(res.during), upper(res.during), res.headcount,
       res.created_at, res.updated_at
FROM reservations res
JOIN rooms r ON r.id = res.room_id
JOIN users u ON u.id = res.user_id
WHERE res.id = $1`

func (s *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	var v queries.ReservationView
	err := s.dbtx.QueryRow(ctx, findReservationByIDSQL, id).Scan(
		&v.ID, &v.RoomID, &v.RoomCode, &v.UserID, &v.UserEmail,
		&v.StartTime, &v.EndTime, &v.Headcount,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, errs.Mark(err, queries.ErrReservationNotFound)
		}
		return nil, wrapReadErr("failed to fetch reservation", err)
	}

	return &v, nil
}

const findReservationsByUserSQL = `
SELECT res.id, res.room_id, r.code,
       lower(res.during), upper(res.during), res.headcount, res.created_at
FROM reservations res
JOIN rooms r ON r.id = res.room_id
WHERE res.user_id = $1
ORDER BY lower(res.during) ASC, res.id ASC`

func (s *ReservationReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*queries.ReservationListItem, error) {
	return s.listItems(ctx, findReservationsByUserSQL, userID)
}

const findReservationsByRoomSQL = `
SELECT res.id, res.room_id, r.code,
       lower(res.during), upper(res.during), res.headcount, res.created_at
FROM reservations res
JOIN rooms r ON r.id = res.room_id
WHERE res.room_id = $1
ORDER BY lower(res.during) ASC, res.id ASC`

func (s *ReservationReadStore) FindByRoomID(ctx context.Context, roomID uuid.UUID) ([]*queries.ReservationListItem, error) {
	return s.listItems(ctx, findReservationsByRoomSQL, roomID)
}

func (s *ReservationReadStore) listItems(ctx context.Context, sql string, arg any) ([]*queries.ReservationListItem, error) {
	rows, err := s.dbtx.Query(ctx, sql, arg)
	if err != nil {
		return nil, wrapReadErr("failed to list reservations", err)
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*queries.ReservationListItem, error) {
		var it queries.ReservationListItem
		if err := row.Scan(&it.ID, &it.RoomID, &it.RoomCode, &it.StartTime, &it.EndTime, &it.Headcount, &it.CreatedAt); err != nil {
			return nil, err
		}
		return &it, nil
	})
	if err != nil {
		return nil, wrapReadErr("failed to scan reservations", err)
	}

	return items, nil
}

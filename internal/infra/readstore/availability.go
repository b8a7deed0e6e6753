package readstore

import (
	"context"
	"time"

	"roomsense/internal/infra/db"
	"roomsense/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AvailabilityReadStore struct {
	dbtx db.DBTX
}

func NewAvailabilityReadStore(dbtx db.DBTX) *AvailabilityReadStore {
	return &AvailabilityReadStore{dbtx: dbtx}
}

const countOverlappingSQL = `
SELECT count(*)
FROM reservations
WHERE room_id = $1
  AND during && tstzrange($2, $3, '[)')
  AND ($4::uuid IS NULL OR id <> $4)`

func (s *AvailabilityReadStore) CountOverlapping(ctx context.Context, roomID uuid.UUID, start, end time.Time, excludeReservationID *uuid.UUID) (int64, error) {
	var n int64
	err := s.dbtx.QueryRow(ctx, countOverlappingSQL, roomID, start, end, excludeReservationID).Scan(&n)
	if err != nil {
		return 0, wrapReadErr("failed to count overlapping reservations", err)
	}

	return n, nil
}

const findAvailableRoomsSQL = `
SELECT r.id, r.code, r.name, r.capacity, r.retired
FROM rooms r
WHERE r.retired = false
  AND r.capacity >= $3
  AND NOT EXISTS (
	SELECT 1
	FROM reservations res
	WHERE res.room_id = r.id
	  AND res.during && tstzrange($1, $2, '[)')
  )
ORDER BY r.code ASC, r.id ASC`

func (s *AvailabilityReadStore) FindAvailableRooms(ctx context.Context, start, end time.Time, minCapacity int) ([]*queries.RoomView, error) {
	rows, err := s.dbtx.Query(ctx, findAvailableRoomsSQL, start, end, minCapacity)
	if err != nil {
		return nil, wrapReadErr("failed to list available rooms", err)
	}
	defer rows.Close()

	views, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*queries.RoomView, error) {
		var v queries.RoomView
		if err := row.Scan(&v.ID, &v.Code, &v.Name, &v.Capacity, &v.Retired); err != nil {
			return nil, err
		}
		return &v, nil
	})
	if err != nil {
		return nil, wrapReadErr("failed to scan available rooms", err)
	}

	return views, nil
}

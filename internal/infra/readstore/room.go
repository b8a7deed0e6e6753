package readstore

import (
	"context"

	"roomsense/internal/infra/db"
	"roomsense/internal/pkg/errs"
	"roomsense/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RoomReadStore struct {
	dbtx db.DBTX
}

func NewRoomReadStore(dbtx db.DBTX) *RoomReadStore {
	return &RoomReadStore{dbtx: dbtx}
}

const findRoomByIDSQL = `
SELECT id, code, name, capacity, retired
FROM rooms
WHERE id = $1`

func (s *RoomReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.RoomView, error) {
	var v queries.RoomView
	err := s.dbtx.QueryRow(ctx, findRoomByIDSQL, id).Scan(&v.ID, &v.Code, &v.Name, &v.Capacity, &v.Retired)
	if err != nil {
		if isNoRows(err) {
			return nil, errs.Mark(err, queries.ErrRoomNotFound)
		}
		return nil, wrapReadErr("failed to fetch room", err)
	}

	return &v, nil
}

const findAllRoomsSQL = `
SELECT id, code, name, capacity, retired
FROM rooms
ORDER BY code ASC, id ASC`

func (s *RoomReadStore) FindAll(ctx context.Context) ([]*queries.RoomView, error) {
	rows, err := s.dbtx.Query(ctx, findAllRoomsSQL)
	if err != nil {
		return nil, wrapReadErr("failed to list rooms", err)
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
		return nil, wrapReadErr("failed to scan rooms", err)
	}

	return views, nil
}

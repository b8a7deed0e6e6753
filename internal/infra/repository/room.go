package repository

import (
	"context"

	"roomsense/internal/domain/room"
	"roomsense/internal/infra/db"

	"github.com/google/uuid"
)

type RoomRepository struct{}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{}
}

const createRoomSQL = `
INSERT INTO rooms (id, code, name, capacity, retired)
VALUES ($1, $2, $3, $4, false)
RETURNING id`

func (r *RoomRepository) Create(ctx context.Context, dbtx db.DBTX, rm *room.Room) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, createRoomSQL, rm.ID(), rm.Code(), rm.Name(), rm.Capacity()).Scan(&id)
	if err != nil {
		return uuid.Nil, wrapPgErr("failed to create room", err)
	}

	return id, nil
}

const updateRoomCapacitySQL = `
UPDATE rooms SET capacity = $2, updated_at = now() WHERE id = $1`

func (r *RoomRepository) UpdateCapacity(ctx context.Context, dbtx db.DBTX, id uuid.UUID, capacity int) error {
	tag, err := dbtx.Exec(ctx, updateRoomCapacitySQL, id, capacity)
	if err != nil {
		return wrapPgErr("failed to update room capacity", err)
	}
	if tag.RowsAffected() == 0 {
		return infraNotFound("room not found for capacity update")
	}

	return nil
}

const retireRoomSQL = `
UPDATE rooms SET retired = true, updated_at = now() WHERE id = $1`

func (r *RoomRepository) Retire(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	tag, err := dbtx.Exec(ctx, retireRoomSQL, id)
	if err != nil {
		return wrapPgErr("failed to retire room", err)
	}
	if tag.RowsAffected() == 0 {
		return infraNotFound("room not found for retire")
	}

	return nil
}

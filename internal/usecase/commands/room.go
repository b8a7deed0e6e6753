package commands

import (
	"context"

	"roomsense/internal/domain/room"
	"roomsense/internal/infra"
	"roomsense/internal/pkg/errs"
	"roomsense/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidRoom       = errs.New("invalid room attributes")
	ErrDuplicateRoomCode = errs.New("room code already in use")
)

type CreateRoomInput struct {
	Code     string
	Name     string
	Capacity int
}

type RoomCommands interface {
	CreateRoom(ctx context.Context, in CreateRoomInput) (uuid.UUID, error)
	// UpdateCapacity changes the capacity going forward. Existing
	// reservations are never re-validated; the new capacity applies only
	// to later create/modify calls.
	UpdateCapacity(ctx context.Context, roomID uuid.UUID, newCapacity int) error
	RetireRoom(ctx context.Context, roomID uuid.UUID) error
}

type roomCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewRoomCommands(uow shared.UnitOfWork) RoomCommands {
	return &roomCommandsImpl{uow: uow}
}

func (r *roomCommandsImpl) CreateRoom(ctx context.Context, in CreateRoomInput) (uuid.UUID, error) {
	entity, err := room.NewRoom(uuid.New(), in.Code, in.Name, in.Capacity)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidRoom)
	}

	var id uuid.UUID
	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created, err := tx.Rooms().Create(ctx, tx.DB(), entity)
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrDuplicateRoomCode
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		id = created
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

func (r *roomCommandsImpl) UpdateCapacity(ctx context.Context, roomID uuid.UUID, newCapacity int) error {
	return r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().RoomByID(ctx, roomID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrRoomNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		entity := snap.ToDomain()
		// A retired room is invisible to every command surface.
		if entity.IsRetired() {
			return errs.Mark(room.ErrRoomRetired, ErrRoomNotFound)
		}
		if err := entity.ChangeCapacity(newCapacity); err != nil {
			return errs.Mark(err, ErrInvalidRoom)
		}

		if err := tx.Rooms().UpdateCapacity(ctx, tx.DB(), roomID, entity.Capacity()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (r *roomCommandsImpl) RetireRoom(ctx context.Context, roomID uuid.UUID) error {
	return r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Reads().RoomByID(ctx, roomID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrRoomNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := tx.Rooms().Retire(ctx, tx.DB(), roomID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

//go:build unit

package commands_test

import (
	"context"
	"testing"

	"roomsense/internal/usecase/commands"
	"roomsense/tests/common/builder"
	"roomsense/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoomCommands(store *fake.Store) commands.RoomCommands {
	return commands.NewRoomCommands(fake.NewUoW(store))
}

func TestCreateRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a room", func(t *testing.T) {
		store := fake.NewStore()
		rooms := newRoomCommands(store)

		id, err := rooms.CreateRoom(ctx, commands.CreateRoomInput{Code: "R-101", Name: "Meeting Room 101", Capacity: 8})
		require.NoError(t, err)
		assert.Equal(t, 8, store.Rooms[id].Capacity)
	})

	t.Run("duplicate code", func(t *testing.T) {
		store := fake.NewStore()
		store.AddRoom(builder.NewRoomBuilder().WithCode("R-101").BuildSnapshot())
		rooms := newRoomCommands(store)

		_, err := rooms.CreateRoom(ctx, commands.CreateRoomInput{Code: "R-101", Name: "Another", Capacity: 4})
		assert.ErrorIs(t, err, commands.ErrDuplicateRoomCode)
	})

	t.Run("invalid attributes", func(t *testing.T) {
		store := fake.NewStore()
		rooms := newRoomCommands(store)

		_, err := rooms.CreateRoom(ctx, commands.CreateRoomInput{Code: "", Name: "Room", Capacity: 4})
		assert.ErrorIs(t, err, commands.ErrInvalidRoom)
	})
}

func TestUpdateCapacity(t *testing.T) {
	ctx := context.Background()

	t.Run("changes capacity going forward", func(t *testing.T) {
		store := fake.NewStore()
		rm := builder.NewRoomBuilder().WithCapacity(8).BuildSnapshot()
		store.AddRoom(rm)
		rooms := newRoomCommands(store)

		require.NoError(t, rooms.UpdateCapacity(ctx, rm.ID, 2))
		assert.Equal(t, 2, store.Rooms[rm.ID].Capacity)
	})

	t.Run("existing reservations are untouched", func(t *testing.T) {
		store := fake.NewStore()
		rm := builder.NewRoomBuilder().WithCapacity(8).BuildSnapshot()
		store.AddRoom(rm)
		res := builder.NewReservationBuilder().WithRoomID(rm.ID).WithHeadcount(6).BuildSnapshot()
		store.AddReservation(res)
		rooms := newRoomCommands(store)

		require.NoError(t, rooms.UpdateCapacity(ctx, rm.ID, 2))
		assert.Equal(t, 1, store.ReservationCount())
		assert.Equal(t, 6, store.Reservations[res.ID].Headcount)
	})

	t.Run("retired room behaves like a missing one", func(t *testing.T) {
		store := fake.NewStore()
		rm := builder.NewRoomBuilder().Retired().BuildSnapshot()
		store.AddRoom(rm)
		rooms := newRoomCommands(store)

		err := rooms.UpdateCapacity(ctx, rm.ID, 4)
		assert.ErrorIs(t, err, commands.ErrRoomNotFound)
	})

	t.Run("unknown room", func(t *testing.T) {
		store := fake.NewStore()
		rooms := newRoomCommands(store)

		err := rooms.UpdateCapacity(ctx, uuid.New(), 4)
		assert.ErrorIs(t, err, commands.ErrRoomNotFound)
	})

	t.Run("non-positive capacity", func(t *testing.T) {
		store := fake.NewStore()
		rm := builder.NewRoomBuilder().BuildSnapshot()
		store.AddRoom(rm)
		rooms := newRoomCommands(store)

		err := rooms.UpdateCapacity(ctx, rm.ID, 0)
		assert.ErrorIs(t, err, commands.ErrInvalidRoom)
	})
}

func TestRetireRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("retires a room", func(t *testing.T) {
		store := fake.NewStore()
		rm := builder.NewRoomBuilder().BuildSnapshot()
		store.AddRoom(rm)
		rooms := newRoomCommands(store)

		require.NoError(t, rooms.RetireRoom(ctx, rm.ID))
		assert.True(t, store.Rooms[rm.ID].Retired)
	})

	t.Run("unknown room", func(t *testing.T) {
		store := fake.NewStore()
		rooms := newRoomCommands(store)

		err := rooms.RetireRoom(ctx, uuid.New())
		assert.ErrorIs(t, err, commands.ErrRoomNotFound)
	})
}

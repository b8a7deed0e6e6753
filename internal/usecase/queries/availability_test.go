//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"roomsense/internal/usecase/queries"
	"roomsense/internal/usecase/shared"
	"roomsense/tests/common/builder"
	"roomsense/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var windowStart = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

// stubAvailabilityStore records the arguments it was called with so the
// tests can assert on input normalization.
type stubAvailabilityStore struct {
	overlapCount   int64
	rooms          []*queries.RoomView
	gotMinCapacity int
	gotExcludeID   *uuid.UUID
	countCalls     int
	findCalls      int
}

func (s *stubAvailabilityStore) CountOverlapping(_ context.Context, _ uuid.UUID, _, _ time.Time, excludeID *uuid.UUID) (int64, error) {
	s.countCalls++
	s.gotExcludeID = excludeID
	return s.overlapCount, nil
}

func (s *stubAvailabilityStore) FindAvailableRooms(_ context.Context, _, _ time.Time, minCapacity int) ([]*queries.RoomView, error) {
	s.findCalls++
	s.gotMinCapacity = minCapacity
	return s.rooms, nil
}

func TestIsAvailable(t *testing.T) {
	ctx := context.Background()
	roomID := uuid.New()

	t.Run("free window", func(t *testing.T) {
		store := &stubAvailabilityStore{overlapCount: 0}
		q := queries.NewAvailabilityQueries(store)

		ok, err := q.IsAvailable(ctx, roomID, windowStart, windowStart.Add(time.Hour), nil)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("occupied window", func(t *testing.T) {
		store := &stubAvailabilityStore{overlapCount: 2}
		q := queries.NewAvailabilityQueries(store)

		ok, err := q.IsAvailable(ctx, roomID, windowStart, windowStart.Add(time.Hour), nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("exclusion id is passed through", func(t *testing.T) {
		store := &stubAvailabilityStore{}
		q := queries.NewAvailabilityQueries(store)
		exclude := uuid.New()

		_, err := q.IsAvailable(ctx, roomID, windowStart, windowStart.Add(time.Hour), &exclude)
		require.NoError(t, err)
		require.NotNil(t, store.gotExcludeID)
		assert.Equal(t, exclude, *store.gotExcludeID)
	})

	t.Run("inverted window never reaches the store", func(t *testing.T) {
		store := &stubAvailabilityStore{}
		q := queries.NewAvailabilityQueries(store)

		_, err := q.IsAvailable(ctx, roomID, windowStart.Add(time.Hour), windowStart, nil)
		assert.ErrorIs(t, err, queries.ErrInvalidWindow)
		assert.Zero(t, store.countCalls)
	})

	t.Run("empty window is invalid", func(t *testing.T) {
		store := &stubAvailabilityStore{}
		q := queries.NewAvailabilityQueries(store)

		_, err := q.IsAvailable(ctx, roomID, windowStart, windowStart, nil)
		assert.ErrorIs(t, err, queries.ErrInvalidWindow)
	})
}

func TestListAvailableRooms(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the store's rooms", func(t *testing.T) {
		rooms := []*queries.RoomView{
			{ID: uuid.New(), Code: "R-101", Capacity: 8},
			{ID: uuid.New(), Code: "R-202", Capacity: 12},
		}
		store := &stubAvailabilityStore{rooms: rooms}
		q := queries.NewAvailabilityQueries(store)

		got, err := q.ListAvailableRooms(ctx, windowStart, windowStart.Add(time.Hour), 4)
		require.NoError(t, err)
		assert.Equal(t, rooms, got)
		assert.Equal(t, 4, store.gotMinCapacity)
	})

	t.Run("min capacity floors at one", func(t *testing.T) {
		store := &stubAvailabilityStore{}
		q := queries.NewAvailabilityQueries(store)

		_, err := q.ListAvailableRooms(ctx, windowStart, windowStart.Add(time.Hour), 0)
		require.NoError(t, err)
		assert.Equal(t, 1, store.gotMinCapacity)

		_, err = q.ListAvailableRooms(ctx, windowStart, windowStart.Add(time.Hour), -5)
		require.NoError(t, err)
		assert.Equal(t, 1, store.gotMinCapacity)
	})

	t.Run("inverted window is rejected", func(t *testing.T) {
		store := &stubAvailabilityStore{}
		q := queries.NewAvailabilityQueries(store)

		_, err := q.ListAvailableRooms(ctx, windowStart.Add(time.Hour), windowStart, 1)
		assert.ErrorIs(t, err, queries.ErrInvalidWindow)
		assert.Zero(t, store.findCalls)
	})
}

func TestListAvailableRoomsOrdering(t *testing.T) {
	ctx := context.Background()
	store := fake.NewStore()

	// Deliberately out of order, with a duplicate code to force the id
	// tiebreak and one room of each excluded kind.
	roomC := builder.NewRoomBuilder().WithCode("R-300").WithCapacity(10).BuildSnapshot()
	roomA2 := builder.NewRoomBuilder().
		WithID(uuid.MustParse("ffffffff-0000-0000-0000-000000000000")).
		WithCode("R-100").WithCapacity(4).BuildSnapshot()
	roomA1 := builder.NewRoomBuilder().
		WithID(uuid.MustParse("00000000-0000-0000-0000-000000000001")).
		WithCode("R-100").WithCapacity(6).BuildSnapshot()
	roomB := builder.NewRoomBuilder().WithCode("R-200").WithCapacity(8).BuildSnapshot()
	tooSmall := builder.NewRoomBuilder().WithCode("R-050").WithCapacity(2).BuildSnapshot()
	retired := builder.NewRoomBuilder().WithCode("R-001").WithCapacity(20).Retired().BuildSnapshot()
	busy := builder.NewRoomBuilder().WithCode("R-150").WithCapacity(8).BuildSnapshot()

	for _, rm := range []shared.RoomSnapshot{roomC, roomA2, roomA1, roomB, tooSmall, retired, busy} {
		store.AddRoom(rm)
	}
	store.AddReservation(builder.NewReservationBuilder().
		WithRoomID(busy.ID).
		WithWindow(windowStart, windowStart.Add(time.Hour)).
		BuildSnapshot())

	q := queries.NewAvailabilityQueries(fake.NewAvailabilityReadStore(store))

	got, err := q.ListAvailableRooms(ctx, windowStart.Add(30*time.Minute), windowStart.Add(90*time.Minute), 4)
	require.NoError(t, err)

	gotIDs := make([]uuid.UUID, 0, len(got))
	for _, v := range got {
		gotIDs = append(gotIDs, v.ID)
	}
	// Code ascending; the R-100 pair falls back to id order.
	assert.Equal(t, []uuid.UUID{roomA1.ID, roomA2.ID, roomB.ID, roomC.ID}, gotIDs)
}

//go:build unit

package commands_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"roomsense/internal/pkg/clock"
	"roomsense/internal/pkg/keymutex"
	"roomsense/internal/usecase/commands"
	"roomsense/internal/usecase/queries"
	"roomsense/internal/usecase/shared"
	"roomsense/tests/common/builder"
	"roomsense/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingFixture struct {
	store   *fake.Store
	clk     *clock.MockClock
	booking commands.BookingCommands
}

func newBookingFixture() *bookingFixture {
	store := fake.NewStore()
	uow := fake.NewUoW(store)
	resQueries := queries.NewReservationQueries(fake.NewReservationReadStore(store))
	clk := clock.NewMockClock(builder.BaseTime)

	return &bookingFixture{
		store:   store,
		clk:     clk,
		booking: commands.NewBookingCommands(uow, resQueries, clk, keymutex.New(), keymutex.New()),
	}
}

func (f *bookingFixture) seedUser() shared.UserSnapshot {
	u := builder.NewUserBuilder().BuildSnapshot()
	f.store.AddUser(u)
	return u
}

func (f *bookingFixture) seedRoom(capacity int) shared.RoomSnapshot {
	r := builder.NewRoomBuilder().WithCapacity(capacity).BuildSnapshot()
	f.store.AddRoom(r)
	return r
}

// requestHash mirrors the canonical hash the write side stores with an
// idempotency claim.
func requestHash(in commands.CreateReservationInput) string {
	data, _ := json.Marshal(in)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func TestCreateReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and enqueues a notification job", func(t *testing.T) {
		f := newBookingFixture()
		u := f.seedUser()
		r := f.seedRoom(8)

		in := builder.NewReservationBuilder().WithRoomID(r.ID).BuildCreateInput()

		result, err := f.booking.CreateReservation(ctx, u.ID, in, uuid.Nil)
		require.NoError(t, err)
		assert.False(t, result.IsReplayed)
		assert.Equal(t, r.ID, result.Reservation.RoomID)
		assert.Equal(t, u.ID, result.Reservation.UserID)
		assert.Equal(t, in.StartTime, result.Reservation.StartTime)
		assert.Equal(t, in.EndTime, result.Reservation.EndTime)
		assert.Equal(t, 1, f.store.ReservationCount())
		assert.Contains(t, f.store.JobTopics(), "reservation_created")
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newBookingFixture()
		r := f.seedRoom(8)

		in := builder.NewReservationBuilder().WithRoomID(r.ID).BuildCreateInput()

		_, err := f.booking.CreateReservation(ctx, uuid.New(), in, uuid.Nil)
		assert.ErrorIs(t, err, commands.ErrUserNotFound)
	})

	t.Run("unknown room", func(t *testing.T) {
		f := newBookingFixture()
		u := f.seedUser()

		in := builder.NewReservationBuilder().BuildCreateInput()

		_, err := f.booking.CreateReservation(ctx, u.ID, in, uuid.Nil)
		assert.ErrorIs(t, err, commands.ErrRoomNotFound)
	})

	t.Run("retired room behaves like a missing one", func(t *testing.T) {
		f := newBookingFixture()
		u := f.seedUser()
		r := builder.NewRoomBuilder().Retired().BuildSnapshot()
		f.store.AddRoom(r)

		in := builder.NewReservationBuilder().WithRoomID(r.ID).BuildCreateInput()

		_, err := f.booking.CreateReservation(ctx, u.ID, in, uuid.Nil)
		assert.ErrorIs(t, err, commands.ErrRoomNotFound)
	})

	t.Run("banned user is rejected before the window is even looked at", func(t *testing.T) {
		f := newBookingFixture()
		u := f.seedUser()
		r := f.seedRoom(8)
		f.store.AddBan(shared.BanSnapshot{ID: uuid.New(), UserID: u.ID, BannedBy: uuid.New()})

		// Broken window on purpose: the ban must win over the range check.
		in := builder.NewReservationBuilder().
			WithRoomID(r.ID).
			WithWindow(builder.BaseTime.Add(2*time.Hour), builder.BaseTime.Add(time.Hour)).
			BuildCreateInput()

		_, err := f.booking.CreateReservation(ctx, u.ID, in, uuid.Nil)
		assert.ErrorIs(t, err, commands.ErrUserBanned)
	})

	t.Run("expired ban does not block", func(t *testing.T) {
		f := newBookingFixture()
		u := f.seedUser()
		r := f.seedRoom(8)
		f.store.AddBan(shared.BanSnapshot{
			ID:        uuid.New(),
			UserID:    u.ID,
			BannedBy:  uuid.New(),
			ExpiresAt: builder.BaseTime.Add(-time.Minute),
		})

		in := builder.NewReservationBuilder().WithRoomID(r.ID).BuildCreateInput()

		_, err := f.booking.CreateReservation(ctx, u.ID, in, uuid.Nil)
		assert.NoError(t, err)
	})

	t.Run("start not before end", func(t *testing.T) {
		f := newBookingFixture()
		u := f.seedUser()
		r := f.seedRoom(8)

		in := builder.NewReservationBuilder().
			WithRoomID(r.ID).
			WithWindow(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(time.Hour)).
			BuildCreateInput()

		_, err := f.booking.CreateReservation(ctx, u.ID, in, uuid.Nil)
		assert.ErrorIs(t, err, commands.ErrInvalidTimeRange)
	})

	t.Run("start in the past", func(t *testing.T) {
		f := newBookingFixture()
		u := f.seedUser()
		r := f.seedRoom(8)

		in := builder.NewReservationBuilder().
			WithRoomID(r.ID).
			WithWindow(builder.BaseTime.Add(-time.Hour), builder.BaseTime.Add(time.Hour)).
			BuildCreateInput()

		_, err := f.booking.CreateReservation(ctx, u.ID, in, uuid.Nil)
		assert.ErrorIs(t, err, commands.ErrStartInPast)
	})

	t.Run("headcount over capacity", func(t *testing.T) {
		f := newBookingFixture()
		u := f.seedUser()
		r := f.seedRoom(4)

		in := builder.NewReservationBuilder().
			WithRoomID(r.ID).
			WithHeadcount(5).
			BuildCreateInput()

		_, err := f.booking.CreateReservation(ctx, u.ID, in, uuid.Nil)
		assert.ErrorIs(t, err, commands.ErrCapacityExceeded)
	})

	t.Run("overlapping window is rejected", func(t *testing.T) {
		f := newBookingFixture()
		u := f.seedUser()
		r := f.seedRoom(8)
		existing := builder.NewReservationBuilder().
			WithRoomID(r.ID).
			WithWindow(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(2*time.Hour)).
			BuildSnapshot()
		f.store.AddReservation(existing)

		in := builder.NewReservationBuilder().
			WithRoomID(r.ID).
			WithWindow(builder.BaseTime.Add(90*time.Minute), builder.BaseTime.Add(3*time.Hour)).
			BuildCreateInput()

		_, err := f.booking.CreateReservation(ctx, u.ID, in, uuid.Nil)
		assert.ErrorIs(t, err, commands.ErrRoomConflict)
		assert.Equal(t, 1, f.store.ReservationCount())
	})

	t.Run("back to back window is accepted", func(t *testing.T) {
		f := newBookingFixture()
		u := f.seedUser()
		r := f.seedRoom(8)
		existing := builder.NewReservationBuilder().
			WithRoomID(r.ID).
			WithWindow(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(2*time.Hour)).
			BuildSnapshot()
		f.store.AddReservation(existing)

		in := builder.NewReservationBuilder().
			WithRoomID(r.ID).
			WithWindow(builder.BaseTime.Add(2*time.Hour), builder.BaseTime.Add(3*time.Hour)).
			BuildCreateInput()

		_, err := f.booking.CreateReservation(ctx, u.ID, in, uuid.Nil)
		require.NoError(t, err)
		assert.Equal(t, 2, f.store.ReservationCount())
	})

	t.Run("same window on a different room is accepted", func(t *testing.T) {
		f := newBookingFixture()
		u := f.seedUser()
		r1 := f.seedRoom(8)
		r2 := f.seedRoom(8)
		existing := builder.NewReservationBuilder().WithRoomID(r1.ID).BuildSnapshot()
		f.store.AddReservation(existing)

		in := builder.NewReservationBuilder().WithRoomID(r2.ID).BuildCreateInput()

		_, err := f.booking.CreateReservation(ctx, u.ID, in, uuid.Nil)
		assert.NoError(t, err)
	})
}

func TestCreateReservationConcurrent(t *testing.T) {
	// Two racing bookings for the same room and overlapping windows:
	// exactly one must win.
	f := newBookingFixture()
	u1 := f.seedUser()
	u2 := f.seedUser()
	r := f.seedRoom(8)

	in1 := builder.NewReservationBuilder().
		WithRoomID(r.ID).
		WithWindow(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(2*time.Hour)).
		BuildCreateInput()
	in2 := builder.NewReservationBuilder().
		WithRoomID(r.ID).
		WithWindow(builder.BaseTime.Add(90*time.Minute), builder.BaseTime.Add(150*time.Minute)).
		BuildCreateInput()

	var wg sync.WaitGroup
	errsCh := make(chan error, 2)

	for _, attempt := range []struct {
		userID uuid.UUID
		in     commands.CreateReservationInput
	}{
		{u1.ID, in1},
		{u2.ID, in2},
	} {
		wg.Add(1)
		go func(userID uuid.UUID, in commands.CreateReservationInput) {
			defer wg.Done()
			_, err := f.booking.CreateReservation(context.Background(), userID, in, uuid.Nil)
			errsCh <- err
		}(attempt.userID, attempt.in)
	}

	wg.Wait()
	close(errsCh)

	var succeeded, conflicted int
	for err := range errsCh {
		switch {
		case err == nil:
			succeeded++
		default:
			require.ErrorIs(t, err, commands.ErrRoomConflict)
			conflicted++
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)
	assert.Equal(t, 1, f.store.ReservationCount())
}

func TestCreateReservationIdempotency(t *testing.T) {
	ctx := context.Background()

	t.Run("same key with same parameters replays the original", func(t *testing.T) {
		f := newBookingFixture()
		u := f.seedUser()
		r := f.seedRoom(8)
		key := uuid.New()

		in := builder.NewReservationBuilder().WithRoomID(r.ID).BuildCreateInput()

		first, err := f.booking.CreateReservation(ctx, u.ID, in, key)
		require.NoError(t, err)
		require.False(t, first.IsReplayed)

		second, err := f.booking.CreateReservation(ctx, u.ID, in, key)
		require.NoError(t, err)
		assert.True(t, second.IsReplayed)
		assert.Equal(t, first.Reservation.ID, second.Reservation.ID)
		assert.Equal(t, 1, f.store.ReservationCount())
	})

	t.Run("key still processing with same parameters", func(t *testing.T) {
		f := newBookingFixture()
		u := f.seedUser()
		r := f.seedRoom(8)
		key := uuid.New()

		in := builder.NewReservationBuilder().WithRoomID(r.ID).BuildCreateInput()

		f.store.AddIdempotency(shared.IdempotencyRecord{
			Key:         key,
			UserID:      u.ID,
			Endpoint:    "POST /reservations",
			RequestHash: requestHash(in),
			Status:      "processing",
			ExpiresAt:   builder.BaseTime.Add(24 * time.Hour),
		})

		_, err := f.booking.CreateReservation(ctx, u.ID, in, key)
		assert.ErrorIs(t, err, commands.ErrIdempotencyInProgress)
	})

	t.Run("key reused with different parameters", func(t *testing.T) {
		f := newBookingFixture()
		u := f.seedUser()
		r := f.seedRoom(8)
		key := uuid.New()

		in := builder.NewReservationBuilder().WithRoomID(r.ID).BuildCreateInput()

		f.store.AddIdempotency(shared.IdempotencyRecord{
			Key:         key,
			UserID:      u.ID,
			Endpoint:    "POST /reservations",
			RequestHash: "different-hash",
			Status:      "processing",
			ExpiresAt:   builder.BaseTime.Add(24 * time.Hour),
		})

		_, err := f.booking.CreateReservation(ctx, u.ID, in, key)
		assert.ErrorIs(t, err, commands.ErrDuplicateBookingRequest)
	})

	t.Run("rejected booking does not burn the key", func(t *testing.T) {
		f := newBookingFixture()
		u := f.seedUser()
		r := f.seedRoom(4)
		key := uuid.New()

		tooBig := builder.NewReservationBuilder().
			WithRoomID(r.ID).
			WithHeadcount(10).
			BuildCreateInput()

		_, err := f.booking.CreateReservation(ctx, u.ID, tooBig, key)
		require.ErrorIs(t, err, commands.ErrCapacityExceeded)

		// The rollback released the claim; a corrected retry with the same
		// key must go through.
		ok := builder.NewReservationBuilder().
			WithRoomID(r.ID).
			WithHeadcount(4).
			BuildCreateInput()

		result, err := f.booking.CreateReservation(ctx, u.ID, ok, key)
		require.NoError(t, err)
		assert.False(t, result.IsReplayed)
	})
}

func TestModifyReservation(t *testing.T) {
	ctx := context.Background()

	seedFixture := func(f *bookingFixture) (shared.UserSnapshot, shared.RoomSnapshot, shared.ReservationSnapshot) {
		u := f.seedUser()
		r := f.seedRoom(8)
		res := builder.NewReservationBuilder().
			WithRoomID(r.ID).
			WithUserID(u.ID).
			WithWindow(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(2*time.Hour)).
			BuildSnapshot()
		f.store.AddReservation(res)
		return u, r, res
	}

	t.Run("owner moves their booking", func(t *testing.T) {
		f := newBookingFixture()
		u, _, res := seedFixture(f)

		view, err := f.booking.ModifyReservation(ctx, res.ID, u.ID, false, commands.ModifyReservationInput{
			StartTime: builder.BaseTime.Add(3 * time.Hour),
			EndTime:   builder.BaseTime.Add(4 * time.Hour),
			Headcount: 6,
		})
		require.NoError(t, err)
		assert.Equal(t, builder.BaseTime.Add(3*time.Hour), view.StartTime)
		assert.Equal(t, 6, view.Headcount)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		f := newBookingFixture()
		u, _, _ := seedFixture(f)

		_, err := f.booking.ModifyReservation(ctx, uuid.New(), u.ID, false, commands.ModifyReservationInput{
			StartTime: builder.BaseTime.Add(3 * time.Hour),
			EndTime:   builder.BaseTime.Add(4 * time.Hour),
			Headcount: 2,
		})
		assert.ErrorIs(t, err, commands.ErrReservationNotFound)
	})

	t.Run("non-owner is refused", func(t *testing.T) {
		f := newBookingFixture()
		_, _, res := seedFixture(f)
		other := f.seedUser()

		_, err := f.booking.ModifyReservation(ctx, res.ID, other.ID, false, commands.ModifyReservationInput{
			StartTime: builder.BaseTime.Add(3 * time.Hour),
			EndTime:   builder.BaseTime.Add(4 * time.Hour),
			Headcount: 2,
		})
		assert.ErrorIs(t, err, commands.ErrNotOwner)
	})

	t.Run("admin may edit someone else's booking", func(t *testing.T) {
		f := newBookingFixture()
		_, _, res := seedFixture(f)
		admin := builder.NewUserBuilder().AsAdmin().BuildSnapshot()
		f.store.AddUser(admin)

		_, err := f.booking.ModifyReservation(ctx, res.ID, admin.ID, true, commands.ModifyReservationInput{
			StartTime: builder.BaseTime.Add(3 * time.Hour),
			EndTime:   builder.BaseTime.Add(4 * time.Hour),
			Headcount: 2,
		})
		assert.NoError(t, err)
	})

	t.Run("moving onto another booking conflicts", func(t *testing.T) {
		f := newBookingFixture()
		u, r, res := seedFixture(f)
		other := builder.NewReservationBuilder().
			WithRoomID(r.ID).
			WithWindow(builder.BaseTime.Add(3*time.Hour), builder.BaseTime.Add(4*time.Hour)).
			BuildSnapshot()
		f.store.AddReservation(other)

		_, err := f.booking.ModifyReservation(ctx, res.ID, u.ID, false, commands.ModifyReservationInput{
			StartTime: builder.BaseTime.Add(150 * time.Minute),
			EndTime:   builder.BaseTime.Add(210 * time.Minute),
			Headcount: 2,
		})
		assert.ErrorIs(t, err, commands.ErrRoomConflict)
	})

	t.Run("keeping its own window is not a self-conflict", func(t *testing.T) {
		f := newBookingFixture()
		u, _, res := seedFixture(f)

		_, err := f.booking.ModifyReservation(ctx, res.ID, u.ID, false, commands.ModifyReservationInput{
			StartTime: res.StartTime,
			EndTime:   res.EndTime,
			Headcount: 2,
		})
		assert.NoError(t, err)
	})

	t.Run("started reservation is locked, even for admins", func(t *testing.T) {
		f := newBookingFixture()
		u, _, res := seedFixture(f)
		f.clk.Set(res.StartTime.Add(time.Minute))

		_, err := f.booking.ModifyReservation(ctx, res.ID, u.ID, true, commands.ModifyReservationInput{
			StartTime: res.StartTime.Add(2 * time.Hour),
			EndTime:   res.EndTime.Add(2 * time.Hour),
			Headcount: 2,
		})
		assert.ErrorIs(t, err, commands.ErrAlreadyStarted)
	})
}

func TestCancelReservation(t *testing.T) {
	ctx := context.Background()

	seedFixture := func(f *bookingFixture) (shared.UserSnapshot, shared.ReservationSnapshot) {
		u := f.seedUser()
		r := f.seedRoom(8)
		res := builder.NewReservationBuilder().
			WithRoomID(r.ID).
			WithUserID(u.ID).
			WithWindow(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(2*time.Hour)).
			BuildSnapshot()
		f.store.AddReservation(res)
		return u, res
	}

	t.Run("owner cancels a future booking", func(t *testing.T) {
		f := newBookingFixture()
		u, res := seedFixture(f)

		err := f.booking.CancelReservation(ctx, res.ID, u.ID, false)
		require.NoError(t, err)
		assert.Equal(t, 0, f.store.ReservationCount())
		assert.Contains(t, f.store.JobTopics(), "reservation_cancelled")
	})

	t.Run("owner cannot cancel once started", func(t *testing.T) {
		f := newBookingFixture()
		u, res := seedFixture(f)
		f.clk.Set(res.StartTime)

		err := f.booking.CancelReservation(ctx, res.ID, u.ID, false)
		assert.ErrorIs(t, err, commands.ErrAlreadyStarted)
		assert.Equal(t, 1, f.store.ReservationCount())
	})

	t.Run("admin may cancel an ongoing booking", func(t *testing.T) {
		f := newBookingFixture()
		_, res := seedFixture(f)
		f.clk.Set(res.StartTime.Add(10 * time.Minute))

		err := f.booking.CancelReservation(ctx, res.ID, uuid.New(), true)
		require.NoError(t, err)
		assert.Equal(t, 0, f.store.ReservationCount())
	})

	t.Run("admin cannot cancel a finished booking", func(t *testing.T) {
		f := newBookingFixture()
		_, res := seedFixture(f)
		f.clk.Set(res.EndTime)

		err := f.booking.CancelReservation(ctx, res.ID, uuid.New(), true)
		assert.ErrorIs(t, err, commands.ErrAlreadyStarted)
		assert.Equal(t, 1, f.store.ReservationCount())
	})

	t.Run("non-owner is refused", func(t *testing.T) {
		f := newBookingFixture()
		_, res := seedFixture(f)

		err := f.booking.CancelReservation(ctx, res.ID, uuid.New(), false)
		assert.ErrorIs(t, err, commands.ErrNotOwner)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		f := newBookingFixture()
		u, _ := seedFixture(f)

		err := f.booking.CancelReservation(ctx, uuid.New(), u.ID, false)
		assert.ErrorIs(t, err, commands.ErrReservationNotFound)
	})
}

package queries

import (
	"context"
	"time"

	"roomsense/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrInvalidWindow = errs.New("start must be before end")

// AvailabilityQueries answers "is this room free in [start, end)" and
// "which rooms fit N people in this window". Pure reads, no side effects.
type AvailabilityQueries interface {
	IsAvailable(ctx context.Context, roomID uuid.UUID, start, end time.Time, excludeReservationID *uuid.UUID) (bool, error)
	// ListAvailableRooms returns non-retired rooms with capacity >=
	// minCapacity and no overlapping reservation in the window, ordered by
	// room code ascending with id as tiebreak.
	ListAvailableRooms(ctx context.Context, start, end time.Time, minCapacity int) ([]*RoomView, error)
}

type AvailabilityReadStore interface {
	CountOverlapping(ctx context.Context, roomID uuid.UUID, start, end time.Time, excludeReservationID *uuid.UUID) (int64, error)
	FindAvailableRooms(ctx context.Context, start, end time.Time, minCapacity int) ([]*RoomView, error)
}

type availabilityQueriesImpl struct {
	store AvailabilityReadStore
}

func NewAvailabilityQueries(store AvailabilityReadStore) AvailabilityQueries {
	return &availabilityQueriesImpl{store: store}
}

func (q *availabilityQueriesImpl) IsAvailable(ctx context.Context, roomID uuid.UUID, start, end time.Time, excludeReservationID *uuid.UUID) (bool, error) {
	if !start.Before(end) {
		return false, ErrInvalidWindow
	}

	n, err := q.store.CountOverlapping(ctx, roomID, start, end, excludeReservationID)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (q *availabilityQueriesImpl) ListAvailableRooms(ctx context.Context, start, end time.Time, minCapacity int) ([]*RoomView, error) {
	if !start.Before(end) {
		return nil, ErrInvalidWindow
	}
	if minCapacity < 1 {
		minCapacity = 1
	}

	return q.store.FindAvailableRooms(ctx, start, end, minCapacity)
}

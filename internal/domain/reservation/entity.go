package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidHeadcount = errors.New("headcount must be a positive integer")
	ErrAlreadyStarted   = errors.New("reservation has already started")
)

type Reservation struct {
	id        uuid.UUID
	roomID    uuid.UUID
	userID    uuid.UUID
	timeSlot  TimeSlot
	headcount int
	createdAt time.Time
	updatedAt time.Time
}

func NewReservation(roomID, userID uuid.UUID, slot TimeSlot, headcount int) (*Reservation, error) {
	if headcount <= 0 {
		return nil, ErrInvalidHeadcount
	}

	return &Reservation{
		id:        uuid.New(),
		roomID:    roomID,
		userID:    userID,
		timeSlot:  slot,
		headcount: headcount,
	}, nil
}

func ReconstructReservation(
	id, roomID, userID uuid.UUID,
	slot TimeSlot,
	headcount int,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:        id,
		roomID:    roomID,
		userID:    userID,
		timeSlot:  slot,
		headcount: headcount,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (r *Reservation) IsOwnedBy(userID uuid.UUID) bool {
	return r.userID == userID
}

func (r *Reservation) HasStartedAt(now time.Time) bool {
	return r.timeSlot.HasStartedAt(now)
}

func (r *Reservation) HasEndedAt(now time.Time) bool {
	return !now.Before(r.timeSlot.End())
}

// Reschedule replaces the three mutable fields in one step. It must not be
// called once the reservation has started; callers enforce that with
// HasStartedAt before entering their critical section.
func (r *Reservation) Reschedule(slot TimeSlot, headcount int) error {
	if headcount <= 0 {
		return ErrInvalidHeadcount
	}
	r.timeSlot = slot
	r.headcount = headcount
	return nil
}

func (r *Reservation) ID() uuid.UUID        { return r.id }
func (r *Reservation) RoomID() uuid.UUID    { return r.roomID }
func (r *Reservation) UserID() uuid.UUID    { return r.userID }
func (r *Reservation) TimeSlot() TimeSlot   { return r.timeSlot }
func (r *Reservation) Headcount() int       { return r.headcount }
func (r *Reservation) CreatedAt() time.Time { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time { return r.updatedAt }

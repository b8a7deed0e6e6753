package builder

import (
	"time"

	"roomsense/internal/usecase/commands"
	"roomsense/internal/usecase/shared"

	"github.com/google/uuid"
)

// BaseTime is the fixed "now" the usecase tests pin their mock clocks to.
var BaseTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type ReservationBuilder struct {
	id        uuid.UUID
	roomID    uuid.UUID
	userID    uuid.UUID
	start     time.Time
	end       time.Time
	headcount int
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		id:        uuid.New(),
		roomID:    uuid.New(),
		userID:    uuid.New(),
		start:     BaseTime.Add(1 * time.Hour),
		end:       BaseTime.Add(2 * time.Hour),
		headcount: 4,
	}
}

func (b *ReservationBuilder) WithID(id uuid.UUID) *ReservationBuilder {
	b.id = id
	return b
}

func (b *ReservationBuilder) WithRoomID(id uuid.UUID) *ReservationBuilder {
	b.roomID = id
	return b
}

func (b *ReservationBuilder) WithUserID(id uuid.UUID) *ReservationBuilder {
	b.userID = id
	return b
}

func (b *ReservationBuilder) WithWindow(start, end time.Time) *ReservationBuilder {
	b.start = start
	b.end = end
	return b
}

func (b *ReservationBuilder) WithHeadcount(n int) *ReservationBuilder {
	b.headcount = n
	return b
}

func (b *ReservationBuilder) BuildSnapshot() shared.ReservationSnapshot {
	return shared.ReservationSnapshot{
		ID:        b.id,
		RoomID:    b.roomID,
		UserID:    b.userID,
		StartTime: b.start,
		EndTime:   b.end,
		Headcount: b.headcount,
	}
}

func (b *ReservationBuilder) BuildCreateInput() commands.CreateReservationInput {
	return commands.CreateReservationInput{
		RoomID:    b.roomID,
		StartTime: b.start,
		EndTime:   b.end,
		Headcount: b.headcount,
	}
}

package builder

import (
	"roomsense/internal/usecase/shared"

	"github.com/google/uuid"
)

type RoomBuilder struct {
	id       uuid.UUID
	code     string
	name     string
	capacity int
	retired  bool
}

func NewRoomBuilder() *RoomBuilder {
	return &RoomBuilder{
		id:       uuid.New(),
		code:     "R-101",
		name:     "Meeting Room 101",
		capacity: 8,
	}
}

func (b *RoomBuilder) WithID(id uuid.UUID) *RoomBuilder {
	b.id = id
	return b
}

func (b *RoomBuilder) WithCode(code string) *RoomBuilder {
	b.code = code
	return b
}

func (b *RoomBuilder) WithCapacity(capacity int) *RoomBuilder {
	b.capacity = capacity
	return b
}

func (b *RoomBuilder) Retired() *RoomBuilder {
	b.retired = true
	return b
}

func (b *RoomBuilder) BuildSnapshot() shared.RoomSnapshot {
	return shared.RoomSnapshot{
		ID:       b.id,
		Code:     b.code,
		Name:     b.name,
		Capacity: b.capacity,
		Retired:  b.retired,
	}
}

package room

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyRoomCode      = errors.New("room code cannot be empty")
	ErrRoomCodeTooLong    = errors.New("room code is too long (max 32 characters)")
	ErrEmptyRoomName      = errors.New("room name cannot be empty")
	ErrRoomNameTooLong    = errors.New("room name is too long (max 255 characters)")
	ErrInvalidCapacity    = errors.New("capacity must be a positive integer")
	ErrHeadcountExceeds   = errors.New("headcount exceeds room capacity")
	ErrRoomRetired        = errors.New("room is retired")
)

const (
	MaxRoomCodeLength = 32
	MaxRoomNameLength = 255
)

type Room struct {
	id       uuid.UUID
	code     string
	name     string
	capacity int
	retired  bool
}

func NewRoom(id uuid.UUID, code, name string, capacity int) (*Room, error) {
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	return &Room{
		id:       id,
		code:     strings.TrimSpace(code),
		name:     strings.TrimSpace(name),
		capacity: capacity,
	}, nil
}

func ReconstructRoom(id uuid.UUID, code, name string, capacity int, retired bool) *Room {
	return &Room{
		id:       id,
		code:     code,
		name:     name,
		capacity: capacity,
		retired:  retired,
	}
}

// CanHold reports whether a booking for headcount people fits this room.
// Capacity is checked at create/modify time only; later capacity edits
// never invalidate reservations already on the books.
func (r *Room) CanHold(headcount int) error {
	if headcount <= 0 {
		return ErrInvalidCapacity
	}
	if headcount > r.capacity {
		return ErrHeadcountExceeds
	}
	return nil
}

func (r *Room) ChangeCapacity(newCapacity int) error {
	if newCapacity <= 0 {
		return ErrInvalidCapacity
	}
	r.capacity = newCapacity
	return nil
}

func (r *Room) Retire() {
	r.retired = true
}

func validateCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrEmptyRoomCode
	}
	if len(code) > MaxRoomCodeLength {
		return ErrRoomCodeTooLong
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyRoomName
	}
	if len(name) > MaxRoomNameLength {
		return ErrRoomNameTooLong
	}
	return nil
}

func (r *Room) ID() uuid.UUID { return r.id }
func (r *Room) Code() string  { return r.code }
func (r *Room) Name() string  { return r.name }
func (r *Room) Capacity() int { return r.capacity }
func (r *Room) IsRetired() bool { return r.retired }

package request

import (
	"roomsense/internal/usecase/commands"
)

type CreateRoomRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
}

func (r CreateRoomRequest) ToInput() commands.CreateRoomInput {
	return commands.CreateRoomInput{
		Code:     r.Code,
		Name:     r.Name,
		Capacity: r.Capacity,
	}
}

type UpdateCapacityRequest struct {
	Capacity int `json:"capacity" binding:"required,min=1"`
}

// AvailableRoomsQuery binds the GET /rooms/available query string.
type AvailableRoomsQuery struct {
	Start       string `form:"start" binding:"required"`
	End         string `form:"end" binding:"required"`
	MinCapacity int    `form:"min_capacity"`
}

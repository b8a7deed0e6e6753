package request

import (
	"time"

	"roomsense/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	RoomID    uuid.UUID `json:"room_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Headcount int       `json:"headcount" binding:"required,min=1"`
}

func (r CreateReservationRequest) ToInput() commands.CreateReservationInput {
	return commands.CreateReservationInput{
		RoomID:    r.RoomID,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Headcount: r.Headcount,
	}
}

type ModifyReservationRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Headcount int       `json:"headcount" binding:"required,min=1"`
}

func (r ModifyReservationRequest) ToInput() commands.ModifyReservationInput {
	return commands.ModifyReservationInput{
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Headcount: r.Headcount,
	}
}

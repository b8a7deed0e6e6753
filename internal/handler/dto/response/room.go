package response

import (
	"roomsense/internal/usecase/queries"

	"github.com/google/uuid"
)

type RoomResponse struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Capacity int       `json:"capacity"`
	Retired  bool      `json:"retired"`
}

func FromRoomView(v *queries.RoomView) *RoomResponse {
	return &RoomResponse{
		ID:       v.ID,
		Code:     v.Code,
		Name:     v.Name,
		Capacity: v.Capacity,
		Retired:  v.Retired,
	}
}

func FromRoomViews(views []*queries.RoomView) []*RoomResponse {
	out := make([]*RoomResponse, 0, len(views))
	for _, v := range views {
		out = append(out, FromRoomView(v))
	}
	return out
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

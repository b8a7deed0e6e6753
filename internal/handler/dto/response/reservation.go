package response

import (
	"time"

	"roomsense/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID        uuid.UUID `json:"id"`
	RoomID    uuid.UUID `json:"roomId"`
	RoomCode  string    `json:"roomCode"`
	UserID    uuid.UUID `json:"userId"`
	UserEmail string    `json:"userEmail"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Headcount int       `json:"headcount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ReservationListResponse struct {
	ID        uuid.UUID `json:"id"`
	RoomID    uuid.UUID `json:"roomId"`
	RoomCode  string    `json:"roomCode"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Headcount int       `json:"headcount"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromReservationView(rm *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:        rm.ID,
		RoomID:    rm.RoomID,
		RoomCode:  rm.RoomCode,
		UserID:    rm.UserID,
		UserEmail: rm.UserEmail,
		StartTime: rm.StartTime,
		EndTime:   rm.EndTime,
		Headcount: rm.Headcount,
		CreatedAt: rm.CreatedAt,
		UpdatedAt: rm.UpdatedAt,
	}
}

func FromReservationListItem(rm *queries.ReservationListItem) *ReservationListResponse {
	return &ReservationListResponse{
		ID:        rm.ID,
		RoomID:    rm.RoomID,
		RoomCode:  rm.RoomCode,
		StartTime: rm.StartTime,
		EndTime:   rm.EndTime,
		Headcount: rm.Headcount,
		CreatedAt: rm.CreatedAt,
	}
}

func FromReservationListItems(items []*queries.ReservationListItem) []*ReservationListResponse {
	out := make([]*ReservationListResponse, 0, len(items))
	for _, it := range items {
		out = append(out, FromReservationListItem(it))
	}
	return out
}

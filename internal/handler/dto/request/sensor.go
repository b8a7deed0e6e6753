package request

import (
	"time"

	"roomsense/internal/usecase/commands"

	"github.com/google/uuid"
)

type RecordReadingRequest struct {
	RoomID         uuid.UUID  `json:"room_id" binding:"required"`
	Sensor         string     `json:"sensor" binding:"required"`
	Temperature    *float64   `json:"temperature,omitempty"`
	Humidity       *float64   `json:"humidity,omitempty"`
	OccupancyCount *int       `json:"occupancy_count,omitempty"`
	RecordedAt     *time.Time `json:"recorded_at,omitempty"`
}

func (r RecordReadingRequest) ToInput() commands.RecordReadingInput {
	in := commands.RecordReadingInput{
		RoomID:         r.RoomID,
		Sensor:         r.Sensor,
		Temperature:    r.Temperature,
		Humidity:       r.Humidity,
		OccupancyCount: r.OccupancyCount,
	}
	if r.RecordedAt != nil {
		in.RecordedAt = *r.RecordedAt
	}
	return in
}

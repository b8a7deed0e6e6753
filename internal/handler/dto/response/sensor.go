package response

import (
	"time"

	"roomsense/internal/usecase/queries"

	"github.com/google/uuid"
)

type SensorReadingResponse struct {
	ID             uuid.UUID `json:"id"`
	RoomID         uuid.UUID `json:"room_id"`
	Sensor         string    `json:"sensor"`
	Temperature    *float64  `json:"temperature,omitempty"`
	Humidity       *float64  `json:"humidity,omitempty"`
	OccupancyCount *int      `json:"occupancy_count,omitempty"`
	RecordedAt     time.Time `json:"recorded_at"`
}

func FromSensorReadingView(v *queries.SensorReadingView) *SensorReadingResponse {
	return &SensorReadingResponse{
		ID:             v.ID,
		RoomID:         v.RoomID,
		Sensor:         v.Sensor,
		Temperature:    v.Temperature,
		Humidity:       v.Humidity,
		OccupancyCount: v.OccupancyCount,
		RecordedAt:     v.RecordedAt,
	}
}

func FromSensorReadingViews(views []*queries.SensorReadingView) []*SensorReadingResponse {
	out := make([]*SensorReadingResponse, 0, len(views))
	for _, v := range views {
		out = append(out, FromSensorReadingView(v))
	}
	return out
}

package repository

import (
	"context"

	"roomsense/internal/infra/db"
	"roomsense/internal/usecase/shared"

	"github.com/google/uuid"
)

type SensorRepository struct{}

func NewSensorRepository() *SensorRepository {
	return &SensorRepository{}
}

const insertSensorReadingSQL = `
INSERT INTO sensor_readings (room_id, sensor, temperature, humidity, occupancy_count, recorded_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

func (r *SensorRepository) InsertReading(ctx context.Context, dbtx db.DBTX, rec shared.SensorReadingRecord) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, insertSensorReadingSQL,
		rec.RoomID, rec.Sensor, rec.Temperature, rec.Humidity, rec.OccupancyCount, rec.RecordedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, wrapPgErr("failed to insert sensor reading", err)
	}

	return id, nil
}

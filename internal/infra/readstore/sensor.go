package readstore

import (
	"context"

	"roomsense/internal/infra/db"
	"roomsense/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SensorReadStore struct {
	dbtx db.DBTX
}

func NewSensorReadStore(dbtx db.DBTX) *SensorReadStore {
	return &SensorReadStore{dbtx: dbtx}
}

const findLatestReadingsSQL = `
SELECT id, room_id, sensor, temperature, humidity, occupancy_count, recorded_at
FROM sensor_readings
WHERE room_id = $1
ORDER BY recorded_at DESC, id DESC
LIMIT $2`

func (s *SensorReadStore) FindLatestByRoom(ctx context.Context, roomID uuid.UUID, limit int) ([]*queries.SensorReadingView, error) {
	rows, err := s.dbtx.Query(ctx, findLatestReadingsSQL, roomID, limit)
	if err != nil {
		return nil, wrapReadErr("failed to list sensor readings", err)
	}
	defer rows.Close()

	views, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*queries.SensorReadingView, error) {
		var v queries.SensorReadingView
		if err := row.Scan(&v.ID, &v.RoomID, &v.Sensor, &v.Temperature, &v.Humidity, &v.OccupancyCount, &v.RecordedAt); err != nil {
			return nil, err
		}
		return &v, nil
	})
	if err != nil {
		return nil, wrapReadErr("failed to scan sensor readings", err)
	}

	return views, nil
}

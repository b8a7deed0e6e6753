package commands

import (
	"context"
	"time"

	"roomsense/internal/infra"
	"roomsense/internal/pkg/clock"
	"roomsense/internal/pkg/errs"
	"roomsense/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrInvalidReading = errs.New("invalid sensor reading")

type RecordReadingInput struct {
	RoomID         uuid.UUID
	Sensor         string
	Temperature    *float64
	Humidity       *float64
	OccupancyCount *int
	RecordedAt     time.Time // zero = ingestion time
}

// SensorCommands ingests environmental readings pushed by room sensors.
// Readings never influence booking decisions.
type SensorCommands interface {
	RecordReading(ctx context.Context, in RecordReadingInput) (uuid.UUID, error)
}

type sensorCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewSensorCommands(uow shared.UnitOfWork, clk clock.Clock) SensorCommands {
	return &sensorCommandsImpl{uow: uow, clock: clk}
}

func (s *sensorCommandsImpl) RecordReading(ctx context.Context, in RecordReadingInput) (uuid.UUID, error) {
	if in.Sensor == "" {
		return uuid.Nil, ErrInvalidReading
	}
	if in.Temperature == nil && in.Humidity == nil && in.OccupancyCount == nil {
		return uuid.Nil, ErrInvalidReading
	}
	if in.OccupancyCount != nil && *in.OccupancyCount < 0 {
		return uuid.Nil, ErrInvalidReading
	}

	recordedAt := in.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = s.clock.Now()
	}

	var id uuid.UUID
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Reads().RoomByID(ctx, in.RoomID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrRoomNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		created, err := tx.Sensors().InsertReading(ctx, tx.DB(), shared.SensorReadingRecord{
			RoomID:         in.RoomID,
			Sensor:         in.Sensor,
			Temperature:    in.Temperature,
			Humidity:       in.Humidity,
			OccupancyCount: in.OccupancyCount,
			RecordedAt:     recordedAt,
		})
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		id = created
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

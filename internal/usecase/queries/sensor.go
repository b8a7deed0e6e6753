package queries

import (
	"context"

	"github.com/google/uuid"
)

// SensorQueries exposes the latest environmental readings per room. The
// booking core never consumes these; they only enrich the room detail view.
type SensorQueries interface {
	LatestByRoom(ctx context.Context, roomID uuid.UUID, limit int) ([]*SensorReadingView, error)
}

type SensorReadStore interface {
	FindLatestByRoom(ctx context.Context, roomID uuid.UUID, limit int) ([]*SensorReadingView, error)
}

type sensorQueriesImpl struct {
	store SensorReadStore
}

func NewSensorQueries(store SensorReadStore) SensorQueries {
	return &sensorQueriesImpl{store: store}
}

func (q *sensorQueriesImpl) LatestByRoom(ctx context.Context, roomID uuid.UUID, limit int) ([]*SensorReadingView, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return q.store.FindLatestByRoom(ctx, roomID, limit)
}

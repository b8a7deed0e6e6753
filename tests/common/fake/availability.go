package fake

import (
	"context"
	"sort"
	"time"

	"roomsense/internal/usecase/queries"

	"github.com/google/uuid"
)

// AvailabilityReadStore answers availability against the fake store with
// the same filtering and ordering the SQL read side promises: non-retired
// rooms, capacity floor, no overlap in [start, end), ordered by code
// ascending with id as tiebreak.
type AvailabilityReadStore struct {
	store *Store
}

func NewAvailabilityReadStore(store *Store) *AvailabilityReadStore {
	return &AvailabilityReadStore{store: store}
}

func (s *AvailabilityReadStore) CountOverlapping(_ context.Context, roomID uuid.UUID, start, end time.Time, excludeReservationID *uuid.UUID) (int64, error) {
	var n int64
	for id, res := range s.store.Reservations {
		if res.RoomID != roomID {
			continue
		}
		if excludeReservationID != nil && id == *excludeReservationID {
			continue
		}
		if res.StartTime.Before(end) && start.Before(res.EndTime) {
			n++
		}
	}
	return n, nil
}

func (s *AvailabilityReadStore) FindAvailableRooms(_ context.Context, start, end time.Time, minCapacity int) ([]*queries.RoomView, error) {
	var views []*queries.RoomView
	for _, rm := range s.store.Rooms {
		if rm.Retired || rm.Capacity < minCapacity {
			continue
		}
		n, _ := s.CountOverlapping(context.Background(), rm.ID, start, end, nil)
		if n > 0 {
			continue
		}
		views = append(views, &queries.RoomView{
			ID:       rm.ID,
			Code:     rm.Code,
			Name:     rm.Name,
			Capacity: rm.Capacity,
			Retired:  rm.Retired,
		})
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].Code != views[j].Code {
			return views[i].Code < views[j].Code
		}
		return views[i].ID.String() < views[j].ID.String()
	})
	return views, nil
}

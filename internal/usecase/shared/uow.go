package shared

import (
	"context"
	"time"

	"roomsense/internal/domain/ban"
	"roomsense/internal/domain/reservation"
	"roomsense/internal/domain/room"
	"roomsense/internal/domain/user"
	"roomsense/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Reservations() ReservationRepository
	Rooms() RoomRepository
	Bans() BanRepository
	Users() UserRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	Sensors() SensorRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	UserByID(ctx context.Context, id uuid.UUID) (*UserSnapshot, error)
	RoomByID(ctx context.Context, id uuid.UUID) (*RoomSnapshot, error)
	ReservationByID(ctx context.Context, id uuid.UUID) (*ReservationSnapshot, error)
	// ActiveBanByUser returns KindNotFound when the user has no ban that is
	// active at the given instant.
	ActiveBanByUser(ctx context.Context, userID uuid.UUID, now time.Time) (*BanSnapshot, error)
	// HasOverlap reports whether any reservation for roomID other than
	// excludeID overlaps [start, end).
	HasOverlap(ctx context.Context, roomID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error)
	IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
}

// Minimal snapshots for command-side validation.

type UserSnapshot struct {
	ID    uuid.UUID
	Email string
	Role  user.Role
}

type RoomSnapshot struct {
	ID       uuid.UUID
	Code     string
	Name     string
	Capacity int
	Retired  bool
}

func (s *RoomSnapshot) ToDomain() *room.Room {
	return room.ReconstructRoom(s.ID, s.Code, s.Name, s.Capacity, s.Retired)
}

type ReservationSnapshot struct {
	ID        uuid.UUID
	RoomID    uuid.UUID
	UserID    uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Headcount int
}

// ToDomain rehydrates the aggregate so command code can use its ownership
// and start-lock predicates. The stored window is always valid.
func (s *ReservationSnapshot) ToDomain() (*reservation.Reservation, error) {
	slot, err := reservation.NewTimeSlot(s.StartTime, s.EndTime)
	if err != nil {
		return nil, err
	}
	return reservation.ReconstructReservation(
		s.ID, s.RoomID, s.UserID, slot, s.Headcount, time.Time{}, time.Time{},
	), nil
}

type BanSnapshot struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	BannedBy  uuid.UUID
	ExpiresAt time.Time // zero = indefinite
}

type IdempotencyRecord struct {
	Key                 uuid.UUID
	UserID              uuid.UUID
	Endpoint            string
	RequestHash         string
	Status              string
	ResultReservationID *uuid.UUID
	ExpiresAt           time.Time
}

type ReservationRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, res *reservation.Reservation) (uuid.UUID, error)
	Update(ctx context.Context, dbtx db.DBTX, res *reservation.Reservation) error
	Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error
	// DeleteFutureByUser removes every reservation owned by userID with
	// start >= now and returns the removed ids. Ongoing reservations are
	// left untouched.
	DeleteFutureByUser(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, now time.Time) ([]uuid.UUID, error)
}

type RoomRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, r *room.Room) (uuid.UUID, error)
	UpdateCapacity(ctx context.Context, dbtx db.DBTX, id uuid.UUID, capacity int) error
	Retire(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error
}

type BanRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, b *ban.Ban) (uuid.UUID, error)
	// DeleteByUser removes the user's ban record if present and reports
	// whether one was removed.
	DeleteByUser(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) (bool, error)
}

type UserRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, u *user.User) (uuid.UUID, error)
	UpdateLastLogin(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) error
}

type IdempotencyRepository interface {
	// TryInsert inserts the key in "processing" state and reports whether
	// the row was inserted; false means the key already existed.
	TryInsert(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	UpdateStatusCompleted(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID, resultReservationID uuid.UUID) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, dbtx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
}

type SensorReadingRecord struct {
	RoomID         uuid.UUID
	Sensor         string
	Temperature    *float64
	Humidity       *float64
	OccupancyCount *int
	RecordedAt     time.Time
}

type SensorRepository interface {
	InsertReading(ctx context.Context, dbtx db.DBTX, rec SensorReadingRecord) (uuid.UUID, error)
}

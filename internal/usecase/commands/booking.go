package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"roomsense/internal/domain/reservation"
	"roomsense/internal/infra"
	"roomsense/internal/pkg/clock"
	"roomsense/internal/pkg/errs"
	"roomsense/internal/pkg/keymutex"
	"roomsense/internal/usecase/queries"
	"roomsense/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound            = errs.New("user not found")
	ErrRoomNotFound            = errs.New("room not found")
	ErrReservationNotFound     = errs.New("reservation not found")
	ErrUserBanned              = errs.New("user is banned")
	ErrNotOwner                = errs.New("requester does not own this reservation")
	ErrInvalidTimeRange        = errs.New("invalid time range")
	ErrStartInPast             = errs.New("start time is in the past")
	ErrCapacityExceeded        = errs.New("headcount exceeds room capacity")
	ErrRoomConflict            = errs.New("room already reserved for this window")
	ErrAlreadyStarted          = errs.New("reservation already started")
	ErrIdempotencyInProgress   = errs.New("booking request in progress")
	ErrDuplicateBookingRequest = errs.New("idempotency key reused with different parameters")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

const createReservationEndpoint = "POST /reservations"

type CreateReservationInput struct {
	RoomID    uuid.UUID `json:"room_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Headcount int       `json:"headcount"`
}

type ModifyReservationInput struct {
	StartTime time.Time
	EndTime   time.Time
	Headcount int
}

type CreateReservationResult struct {
	Reservation *queries.ReservationView
	IsReplayed  bool
}

type BookingCommands interface {
	CreateReservation(ctx context.Context, userID uuid.UUID, in CreateReservationInput, idempotencyKey uuid.UUID) (*CreateReservationResult, error)
	ModifyReservation(ctx context.Context, reservationID, actorID uuid.UUID, isAdmin bool, in ModifyReservationInput) (*queries.ReservationView, error)
	CancelReservation(ctx context.Context, reservationID, actorID uuid.UUID, isAdmin bool) error
}

type bookingCommandsImpl struct {
	uow                shared.UnitOfWork
	reservationQueries queries.ReservationQueries
	clock              clock.Clock
	userLocks          *keymutex.KeyMutex
	roomLocks          *keymutex.KeyMutex
}

// NewBookingCommands wires the booking write side. The two keyed mutexes
// serialize check-then-commit per user (against concurrent bans) and per
// room (against concurrent overlapping bookings); distinct rooms never
// contend. Lock order is always user before room.
func NewBookingCommands(
	uow shared.UnitOfWork,
	reservationQueries queries.ReservationQueries,
	clk clock.Clock,
	userLocks *keymutex.KeyMutex,
	roomLocks *keymutex.KeyMutex,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:                uow,
		reservationQueries: reservationQueries,
		clock:              clk,
		userLocks:          userLocks,
		roomLocks:          roomLocks,
	}
}

func (b *bookingCommandsImpl) CreateReservation(
	ctx context.Context,
	userID uuid.UUID,
	in CreateReservationInput,
	idempotencyKey uuid.UUID,
) (*CreateReservationResult, error) {
	b.userLocks.Lock(userID)
	defer b.userLocks.Unlock(userID)
	b.roomLocks.Lock(in.RoomID)
	defer b.roomLocks.Unlock(in.RoomID)

	var (
		createdID uuid.UUID
		replayed  *queries.ReservationView
	)

	err := b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if idempotencyKey != uuid.Nil {
			replay, err := b.claimIdempotencyKey(ctx, tx, idempotencyKey, userID, in)
			if err != nil {
				return err
			}
			if replay != nil {
				replayed = replay
				return nil
			}
		}

		resEntity, err := b.validateCreate(ctx, tx.Reads(), userID, in)
		if err != nil {
			return err
		}

		id, err := tx.Reservations().Create(ctx, tx.DB(), resEntity)
		if err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrRoomConflict
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := b.createJob(ctx, tx, "reservation_created", map[string]any{
			"reservation_id": id,
			"user_id":        userID,
			"room_id":        in.RoomID,
		}); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if idempotencyKey != uuid.Nil {
			if err := tx.Idempotency().UpdateStatusCompleted(ctx, tx.DB(), idempotencyKey, userID, id); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		createdID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	if replayed != nil {
		return &CreateReservationResult{Reservation: replayed, IsReplayed: true}, nil
	}

	view, err := b.reservationQueries.GetByIDSystem(ctx, createdID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &CreateReservationResult{Reservation: view, IsReplayed: false}, nil
}

// validateCreate runs the booking checks in their required order: entities
// exist, not banned, sane window, not in the past, fits capacity, no
// overlap. First failure wins.
func (b *bookingCommandsImpl) validateCreate(
	ctx context.Context,
	reads shared.CommandReads,
	userID uuid.UUID,
	in CreateReservationInput,
) (*reservation.Reservation, error) {
	if _, err := reads.UserByID(ctx, userID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	roomSnap, err := reads.RoomByID(ctx, in.RoomID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if roomSnap.Retired {
		return nil, ErrRoomNotFound
	}

	now := b.clock.Now()

	if _, err := reads.ActiveBanByUser(ctx, userID, now); err == nil {
		return nil, ErrUserBanned
	} else if !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	slot, err := reservation.NewTimeSlot(in.StartTime, in.EndTime)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidTimeRange)
	}
	if err := slot.ValidateNotPastAt(now); err != nil {
		return nil, errs.Mark(err, ErrStartInPast)
	}

	if err := roomSnap.ToDomain().CanHold(in.Headcount); err != nil {
		return nil, errs.Mark(err, ErrCapacityExceeded)
	}

	overlap, err := reads.HasOverlap(ctx, in.RoomID, slot.Start(), slot.End(), nil)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if overlap {
		return nil, ErrRoomConflict
	}

	resEntity, err := reservation.NewReservation(in.RoomID, userID, slot, in.Headcount)
	if err != nil {
		return nil, errs.Mark(err, ErrCapacityExceeded)
	}

	return resEntity, nil
}

func (b *bookingCommandsImpl) ModifyReservation(
	ctx context.Context,
	reservationID, actorID uuid.UUID,
	isAdmin bool,
	in ModifyReservationInput,
) (*queries.ReservationView, error) {
	// Peek at the reservation outside the transaction to learn its room,
	// then take the room lock and re-validate everything inside.
	snap, err := b.uow.CommandReads().ReservationByID(ctx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !isAdmin && snap.UserID != actorID {
		return nil, ErrNotOwner
	}

	b.roomLocks.Lock(snap.RoomID)
	defer b.roomLocks.Unlock(snap.RoomID)

	err = b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		reads := tx.Reads()

		current, err := reads.ReservationByID(ctx, reservationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		entity, err := current.ToDomain()
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if !isAdmin && !entity.IsOwnedBy(actorID) {
			return ErrNotOwner
		}

		// Start-time lock applies regardless of role.
		if entity.HasStartedAt(b.clock.Now()) {
			return ErrAlreadyStarted
		}

		roomSnap, err := reads.RoomByID(ctx, current.RoomID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrRoomNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		slot, err := reservation.NewTimeSlot(in.StartTime, in.EndTime)
		if err != nil {
			return errs.Mark(err, ErrInvalidTimeRange)
		}

		if err := roomSnap.ToDomain().CanHold(in.Headcount); err != nil {
			return errs.Mark(err, ErrCapacityExceeded)
		}

		excludeID := reservationID
		overlap, err := reads.HasOverlap(ctx, current.RoomID, slot.Start(), slot.End(), &excludeID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if overlap {
			return ErrRoomConflict
		}

		if err := entity.Reschedule(slot, in.Headcount); err != nil {
			return errs.Mark(err, ErrCapacityExceeded)
		}
		if err := tx.Reservations().Update(ctx, tx.DB(), entity); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrRoomConflict
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := b.reservationQueries.GetByIDSystem(ctx, reservationID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return view, nil
}

func (b *bookingCommandsImpl) CancelReservation(
	ctx context.Context,
	reservationID, actorID uuid.UUID,
	isAdmin bool,
) error {
	return b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Reads().ReservationByID(ctx, reservationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		entity, err := current.ToDomain()
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if !isAdmin && !entity.IsOwnedBy(actorID) {
			return ErrNotOwner
		}

		now := b.clock.Now()

		// Owners may cancel any time before the start instant; admins may
		// also cancel an ongoing reservation, but not a finished one.
		if !isAdmin && entity.HasStartedAt(now) {
			return ErrAlreadyStarted
		}
		if isAdmin && entity.HasEndedAt(now) {
			return ErrAlreadyStarted
		}

		if err := tx.Reservations().Delete(ctx, tx.DB(), reservationID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := b.createJob(ctx, tx, "reservation_cancelled", map[string]any{
			"reservation_id": reservationID,
			"user_id":        current.UserID,
			"room_id":        current.RoomID,
		}); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		return nil
	})
}

// claimIdempotencyKey returns a non-nil view when the key was already
// completed (replay). A fresh claim returns (nil, nil) and the caller
// proceeds with creation.
func (b *bookingCommandsImpl) claimIdempotencyKey(
	ctx context.Context,
	tx shared.Tx,
	key, userID uuid.UUID,
	in CreateReservationInput,
) (*queries.ReservationView, error) {
	requestHash := calculateRequestHash(in)
	expiresAt := b.clock.Now().Add(24 * time.Hour)

	inserted, err := tx.Idempotency().TryInsert(ctx, tx.DB(), key, userID, createReservationEndpoint, requestHash, expiresAt)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if inserted {
		return nil, nil
	}

	existing, err := tx.Reads().IdempotencyByKey(ctx, key, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	switch existing.Status {
	case "completed":
		if existing.ResultReservationID == nil {
			return nil, errs.Mark(errs.New("completed idempotency record missing reservation id"), ErrDatabaseOperationFailed)
		}
		// System-level read: replay must succeed for the original creator.
		return b.reservationQueries.GetByIDSystem(ctx, *existing.ResultReservationID)

	case "processing":
		if existing.RequestHash != requestHash {
			return nil, ErrDuplicateBookingRequest
		}
		return nil, ErrIdempotencyInProgress

	default:
		return nil, errs.Mark(errs.New("invalid idempotency key status"), ErrDatabaseOperationFailed)
	}
}

func (b *bookingCommandsImpl) createJob(ctx context.Context, tx shared.Tx, topic string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if err := tx.Notifications().CreateJob(ctx, tx.DB(), "email", topic, body, b.clock.Now()); err != nil {
		slog.Warn("failed to enqueue notification job", "topic", topic, "error", err.Error())
		return err
	}
	return nil
}

func calculateRequestHash(in CreateReservationInput) string {
	data, _ := json.Marshal(in)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

package repository

import (
	"context"
	"time"

	"roomsense/internal/infra/db"
	"roomsense/internal/usecase/shared"

	"github.com/google/uuid"
)

// CommandReads serves the minimal lookups command handlers need for
// validation. It is bound to a DBTX so the same code runs against the
// pool (pre-checks) and inside a transaction (re-validation).
type CommandReads struct {
	dbtx db.DBTX
}

func NewCommandReads(dbtx db.DBTX) *CommandReads {
	return &CommandReads{dbtx: dbtx}
}

const userByIDSQL = `
SELECT id, email, role
FROM users
WHERE id = $1`

func (r *CommandReads) UserByID(ctx context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	var snap shared.UserSnapshot
	err := r.dbtx.QueryRow(ctx, userByIDSQL, id).Scan(&snap.ID, &snap.Email, &snap.Role)
	if err != nil {
		if isNoRows(err) {
			return nil, infraNotFound("user not found")
		}
		return nil, wrapPgErr("failed to fetch user", err)
	}

	return &snap, nil
}

const roomByIDSQL = `
SELECT id, code, name, capacity, retired
FROM rooms
WHERE id = $1`

func (r *CommandReads) RoomByID(ctx context.Context, id uuid.UUID) (*shared.RoomSnapshot, error) {
	var snap shared.RoomSnapshot
	err := r.dbtx.QueryRow(ctx, roomByIDSQL, id).Scan(&snap.ID, &snap.Code, &snap.Name, &snap.Capacity, &snap.Retired)
	if err != nil {
		if isNoRows(err) {
			return nil, infraNotFound("room not found")
		}
		return nil, wrapPgErr("failed to fetch room", err)
	}

	return &snap, nil
}

const reservationByIDSQL = `
SELECT id, room_id, user_id, lower(during), upper(during), headcount
FROM reservations
WHERE id = $1`

func (r *CommandReads) ReservationByID(ctx context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	var snap shared.ReservationSnapshot
	err := r.dbtx.QueryRow(ctx, reservationByIDSQL, id).
		Scan(&snap.ID, &snap.RoomID, &snap.UserID, &snap.StartTime, &snap.EndTime, &snap.Headcount)
	if err != nil {
		if isNoRows(err) {
			return nil, infraNotFound("reservation not found")
		}
		return nil, wrapPgErr("failed to fetch reservation", err)
	}

	return &snap, nil
}

const activeBanByUserSQL = `
SELECT id, user_id, banned_by, expires_at
FROM bans
WHERE user_id = $1
  AND (expires_at IS NULL OR expires_at > $2)`

func (r *CommandReads) ActiveBanByUser(ctx context.Context, userID uuid.UUID, now time.Time) (*shared.BanSnapshot, error) {
	var (
		snap      shared.BanSnapshot
		expiresAt *time.Time
	)
	err := r.dbtx.QueryRow(ctx, activeBanByUserSQL, userID, now).
		Scan(&snap.ID, &snap.UserID, &snap.BannedBy, &expiresAt)
	if err != nil {
		if isNoRows(err) {
			return nil, infraNotFound("no active ban")
		}
		return nil, wrapPgErr("failed to fetch ban", err)
	}
	if expiresAt != nil {
		snap.ExpiresAt = *expiresAt
	}

	return &snap, nil
}

const hasOverlapSQL = `
SELECT EXISTS (
	SELECT 1
	FROM reservations
	WHERE room_id = $1
	  AND during && tstzrange($2, $3, '[)')
	  AND ($4::uuid IS NULL OR id <> $4)
)`

func (r *CommandReads) HasOverlap(ctx context.Context, roomID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	err := r.dbtx.QueryRow(ctx, hasOverlapSQL, roomID, start, end, excludeID).Scan(&exists)
	if err != nil {
		return false, wrapPgErr("failed to check overlap", err)
	}

	return exists, nil
}

const idempotencyByKeySQL = `
SELECT key, user_id, endpoint, request_hash, status, result_reservation_id, expires_at
FROM idempotency_keys
WHERE key = $1 AND user_id = $2 AND expires_at > now()`

func (r *CommandReads) IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	var rec shared.IdempotencyRecord
	err := r.dbtx.QueryRow(ctx, idempotencyByKeySQL, key, userID).
		Scan(&rec.Key, &rec.UserID, &rec.Endpoint, &rec.RequestHash, &rec.Status, &rec.ResultReservationID, &rec.ExpiresAt)
	if err != nil {
		if isNoRows(err) {
			return nil, infraNotFound("idempotency key not found")
		}
		return nil, wrapPgErr("failed to fetch idempotency key", err)
	}

	return &rec, nil
}

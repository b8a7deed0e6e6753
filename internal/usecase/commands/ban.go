package commands

import (
	"context"
	"encoding/json"
	"time"

	"roomsense/internal/domain/ban"
	"roomsense/internal/infra"
	"roomsense/internal/pkg/clock"
	"roomsense/internal/pkg/errs"
	"roomsense/internal/pkg/keymutex"
	"roomsense/internal/usecase/shared"

	"github.com/google/uuid"
)

type BanResult struct {
	// CancelledCount is the number of future reservations removed by the
	// ban cascade; zero when the user was already banned.
	CancelledCount int
	AlreadyBanned  bool
}

type BanCommands interface {
	// Ban blocks userID from new bookings and cancels every reservation of
	// theirs with start >= now. A nil duration means indefinite.
	Ban(ctx context.Context, userID, actingAdminID uuid.UUID, duration *time.Duration) (*BanResult, error)
	// Unban is idempotent: removing a ban that does not exist succeeds.
	Unban(ctx context.Context, userID uuid.UUID) error
}

type banCommandsImpl struct {
	uow       shared.UnitOfWork
	clock     clock.Clock
	userLocks *keymutex.KeyMutex
}

// NewBanCommands shares userLocks with the booking commands so a ban and a
// CreateReservation for the same user cannot interleave: either the create
// sees the ban, or its reservation lands before the cascade and is swept up.
func NewBanCommands(uow shared.UnitOfWork, clk clock.Clock, userLocks *keymutex.KeyMutex) BanCommands {
	return &banCommandsImpl{
		uow:       uow,
		clock:     clk,
		userLocks: userLocks,
	}
}

func (b *banCommandsImpl) Ban(ctx context.Context, userID, actingAdminID uuid.UUID, duration *time.Duration) (*BanResult, error) {
	b.userLocks.Lock(userID)
	defer b.userLocks.Unlock(userID)

	var result *BanResult

	err := b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		reads := tx.Reads()

		if _, err := reads.UserByID(ctx, userID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrUserNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		now := b.clock.Now()

		if _, err := reads.ActiveBanByUser(ctx, userID, now); err == nil {
			result = &BanResult{CancelledCount: 0, AlreadyBanned: true}
			return nil
		} else if !infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		var expiresAt time.Time
		if duration != nil {
			expiresAt = now.Add(*duration)
		}

		if _, err := tx.Bans().Create(ctx, tx.DB(), ban.NewBan(userID, actingAdminID, expiresAt)); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// Cascade: future reservations only. An ongoing reservation
		// (already started, not yet finished) survives the ban.
		cancelledIDs, err := tx.Reservations().DeleteFutureByUser(ctx, tx.DB(), userID, now)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if len(cancelledIDs) > 0 {
			payload, err := json.Marshal(map[string]any{
				"user_id":         userID,
				"reservation_ids": cancelledIDs,
				"reason":          "banned",
			})
			if err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			if err := tx.Notifications().CreateJob(ctx, tx.DB(), "email", "reservations_cancelled_by_ban", payload, now); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		result = &BanResult{CancelledCount: len(cancelledIDs)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (b *banCommandsImpl) Unban(ctx context.Context, userID uuid.UUID) error {
	return b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Bans().DeleteByUser(ctx, tx.DB(), userID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

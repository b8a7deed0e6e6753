package repository

import (
	"context"
	"time"

	"roomsense/internal/domain/ban"
	"roomsense/internal/infra/db"

	"github.com/google/uuid"
)

type BanRepository struct{}

func NewBanRepository() *BanRepository {
	return &BanRepository{}
}

// An expired ban leaves its row behind; re-banning replaces it in place.
const createBanSQL = `
INSERT INTO bans (id, user_id, banned_by, expires_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO UPDATE
SET id = EXCLUDED.id, banned_by = EXCLUDED.banned_by, expires_at = EXCLUDED.expires_at, created_at = now()
RETURNING id`

func (r *BanRepository) Create(ctx context.Context, dbtx db.DBTX, b *ban.Ban) (uuid.UUID, error) {
	var expiresAt *time.Time
	if !b.IsIndefinite() {
		t := b.ExpiresAt()
		expiresAt = &t
	}

	var id uuid.UUID
	err := dbtx.QueryRow(ctx, createBanSQL, b.ID(), b.UserID(), b.BannedBy(), expiresAt).Scan(&id)
	if err != nil {
		return uuid.Nil, wrapPgErr("failed to create ban", err)
	}

	return id, nil
}

const deleteBanByUserSQL = `DELETE FROM bans WHERE user_id = $1`

func (r *BanRepository) DeleteByUser(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) (bool, error) {
	tag, err := dbtx.Exec(ctx, deleteBanByUserSQL, userID)
	if err != nil {
		return false, wrapPgErr("failed to delete ban", err)
	}

	return tag.RowsAffected() > 0, nil
}

package ban

import (
	"time"

	"github.com/google/uuid"
)

// Ban blocks a user from creating new reservations. A zero ExpiresAt means
// the ban is indefinite.
type Ban struct {
	id        uuid.UUID
	userID    uuid.UUID
	bannedBy  uuid.UUID
	expiresAt time.Time
}

func NewBan(userID, bannedBy uuid.UUID, expiresAt time.Time) *Ban {
	return &Ban{
		id:        uuid.New(),
		userID:    userID,
		bannedBy:  bannedBy,
		expiresAt: expiresAt,
	}
}

func (b *Ban) IsActiveAt(now time.Time) bool {
	if b.expiresAt.IsZero() {
		return true
	}
	return now.Before(b.expiresAt)
}

func (b *Ban) IsIndefinite() bool {
	return b.expiresAt.IsZero()
}

func (b *Ban) ID() uuid.UUID        { return b.id }
func (b *Ban) UserID() uuid.UUID    { return b.userID }
func (b *Ban) BannedBy() uuid.UUID  { return b.bannedBy }
func (b *Ban) ExpiresAt() time.Time { return b.expiresAt }

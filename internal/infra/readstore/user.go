package readstore

import (
	"context"

	"roomsense/internal/infra/db"
	"roomsense/internal/pkg/errs"
	"roomsense/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserReadStore struct {
	dbtx db.DBTX
}

func NewUserReadStore(dbtx db.DBTX) *UserReadStore {
	return &UserReadStore{dbtx: dbtx}
}

const findAuthorizedByEmailSQL = `
SELECT u.id, u.email, u.display_name, u.password_hash, u.role,
       EXISTS (
	SELECT 1 FROM bans b
	WHERE b.user_id = u.id
	  AND (b.expires_at IS NULL OR b.expires_at > now())
       ) AS banned
FROM users u
WHERE u.email = $1`

func (s *UserReadStore) FindAuthorizedByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, error) {
	var v queries.AuthorizedUserView
	err := s.dbtx.QueryRow(ctx, findAuthorizedByEmailSQL, email).
		Scan(&v.ID, &v.Email, &v.DisplayName, &v.PasswordHash, &v.Role, &v.Banned)
	if err != nil {
		if isNoRows(err) {
			return nil, errs.Mark(err, queries.ErrUserNotFound)
		}
		return nil, wrapReadErr("failed to fetch user by email", err)
	}

	return &v, nil
}

const findAuthorizedByIDSQL = `
SELECT u.id, u.email, u.display_name, u.password_hash, u.role,
       EXISTS (
	SELECT 1 FROM bans b
	WHERE b.user_id = u.id
	  AND (b.expires_at IS NULL OR b.expires_at > now())
       ) AS banned
FROM users u
WHERE u.id = $1`

func (s *UserReadStore) FindAuthorizedByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	var v queries.AuthorizedUserView
	err := s.dbtx.QueryRow(ctx, findAuthorizedByIDSQL, id).
		Scan(&v.ID, &v.Email, &v.DisplayName, &v.PasswordHash, &v.Role, &v.Banned)
	if err != nil {
		if isNoRows(err) {
			return nil, errs.Mark(err, queries.ErrUserNotFound)
		}
		return nil, wrapReadErr("failed to fetch user by id", err)
	}

	return &v, nil
}

const findAllWithBanStatusSQL = `
SELECT u.id, u.email, u.display_name, u.role,
       b.id IS NOT NULL AND (b.expires_at IS NULL OR b.expires_at > now()) AS banned,
       b.expires_at, u.last_login
FROM users u
LEFT JOIN bans b ON b.user_id = u.id
ORDER BY u.email ASC`

func (s *UserReadStore) FindAllWithBanStatus(ctx context.Context) ([]*queries.AdminUserView, error) {
	rows, err := s.dbtx.Query(ctx, findAllWithBanStatusSQL)
	if err != nil {
		return nil, wrapReadErr("failed to list users", err)
	}
	defer rows.Close()

	views, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*queries.AdminUserView, error) {
		var v queries.AdminUserView
		if err := row.Scan(&v.ID, &v.Email, &v.DisplayName, &v.Role, &v.Banned, &v.BanExpires, &v.LastLogin); err != nil {
			return nil, err
		}
		return &v, nil
	})
	if err != nil {
		return nil, wrapReadErr("failed to scan users", err)
	}

	return views, nil
}

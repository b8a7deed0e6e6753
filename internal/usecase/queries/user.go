package queries

import (
	"context"

	"roomsense/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrUserNotFound = errs.New("user not found")

type UserQueries interface {
	GetAuthorizedByEmail(ctx context.Context, email string) (*AuthorizedUserView, error)
	GetAuthorizedByID(ctx context.Context, id uuid.UUID) (*AuthorizedUserView, error)
	// ListWithBanStatus backs the admin blacklist screen.
	ListWithBanStatus(ctx context.Context) ([]*AdminUserView, error)
}

type UserReadStore interface {
	FindAuthorizedByEmail(ctx context.Context, email string) (*AuthorizedUserView, error)
	FindAuthorizedByID(ctx context.Context, id uuid.UUID) (*AuthorizedUserView, error)
	FindAllWithBanStatus(ctx context.Context) ([]*AdminUserView, error)
}

type userQueriesImpl struct {
	store UserReadStore
}

func NewUserQueries(store UserReadStore) UserQueries {
	return &userQueriesImpl{store: store}
}

func (q *userQueriesImpl) GetAuthorizedByEmail(ctx context.Context, email string) (*AuthorizedUserView, error) {
	return q.store.FindAuthorizedByEmail(ctx, email)
}

func (q *userQueriesImpl) GetAuthorizedByID(ctx context.Context, id uuid.UUID) (*AuthorizedUserView, error) {
	return q.store.FindAuthorizedByID(ctx, id)
}

func (q *userQueriesImpl) ListWithBanStatus(ctx context.Context) ([]*AdminUserView, error) {
	return q.store.FindAllWithBanStatus(ctx)
}

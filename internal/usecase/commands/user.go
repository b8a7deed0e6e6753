package commands

import (
	"context"

	"roomsense/internal/domain/user"
	"roomsense/internal/infra"
	"roomsense/internal/pkg/errs"
	"roomsense/internal/pkg/password"
	"roomsense/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidUser    = errs.New("invalid user attributes")
	ErrDuplicateEmail = errs.New("email already registered")
)

type CreateUserInput struct {
	Email       string
	DisplayName string
	Password    string
	Role        string
}

// UserCommands is the admin-facing account management surface.
type UserCommands interface {
	CreateUser(ctx context.Context, in CreateUserInput) (uuid.UUID, error)
}

type userCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewUserCommands(uow shared.UnitOfWork) UserCommands {
	return &userCommandsImpl{uow: uow}
}

func (u *userCommandsImpl) CreateUser(ctx context.Context, in CreateUserInput) (uuid.UUID, error) {
	email, err := user.NewEmail(in.Email)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidUser)
	}
	displayName, err := user.NewDisplayName(in.DisplayName)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidUser)
	}
	if _, err := user.NewPassword(in.Password); err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidUser)
	}
	role, err := user.NewRole(in.Role)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidUser)
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidUser)
	}

	entity := user.NewUser(email, displayName, hash, role)

	var id uuid.UUID
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created, err := tx.Users().Create(ctx, tx.DB(), entity)
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrDuplicateEmail
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		id = created
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

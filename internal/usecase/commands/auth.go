package commands

import (
	"context"
	"errors"
	"log/slog"

	"roomsense/internal/domain/user"
	"roomsense/internal/pkg/errs"
	"roomsense/internal/pkg/jwt"
	"roomsense/internal/pkg/password"
	"roomsense/internal/usecase/queries"
	"roomsense/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errs.New("invalid credentials")
	ErrTokenGeneration    = errs.New("token generation failed")
	ErrTokenValidation    = errs.New("token validation failed")
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type LoginResult struct {
	UserID uuid.UUID
	Role   user.Role
	Banned bool
	Tokens *TokenPair
}

type AuthCommands interface {
	Login(ctx context.Context, email, plaintext string) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authCommandsImpl struct {
	uow         shared.UnitOfWork
	userQueries queries.UserQueries
	jwtService  *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, userQueries queries.UserQueries, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		uow:         uow,
		userQueries: userQueries,
		jwtService:  jwtService,
	}
}

// Login authenticates by email and password. A banned user can still log
// in and browse; the ban is enforced at booking time and surfaced in the
// Banned flag so the UI can tell them.
func (a *authCommandsImpl) Login(ctx context.Context, email, plaintext string) (*LoginResult, error) {
	view, err := a.userQueries.GetAuthorizedByEmail(ctx, email)
	if err != nil {
		// Unknown email and wrong password look identical to the caller.
		if errors.Is(err, queries.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := password.Compare(view.PasswordHash, plaintext); err != nil {
		return nil, ErrInvalidCredentials
	}

	role, err := user.NewRole(view.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCredentials)
	}

	accessToken, err := a.jwtService.GenerateAccessToken(view.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	refreshToken, err := a.jwtService.GenerateRefreshToken(view.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if updateErr := tx.Users().UpdateLastLogin(ctx, tx.DB(), view.ID); updateErr != nil {
			slog.Warn("failed to update last login", "user_id", view.ID, "error", updateErr.Error())
		}
		return nil
	})
	if err != nil {
		// Login itself succeeded; only the last-login bookkeeping failed.
		slog.Warn("transaction failed during login", "user_id", view.ID, "error", err.Error())
	}

	return &LoginResult{
		UserID: view.ID,
		Role:   role,
		Banned: view.Banned,
		Tokens: &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken},
	}, nil
}

func (a *authCommandsImpl) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrTokenValidation
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}

	// Re-read the user so a deleted account cannot refresh forever.
	if _, err := a.userQueries.GetAuthorizedByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, queries.ErrUserNotFound) {
			return nil, ErrTokenValidation
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	accessToken, err := a.jwtService.GenerateAccessToken(claims.UserID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	newRefreshToken, err := a.jwtService.GenerateRefreshToken(claims.UserID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

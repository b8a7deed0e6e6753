//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"roomsense/internal/pkg/errs"
	"roomsense/internal/pkg/jwt"
	"roomsense/internal/pkg/password"
	"roomsense/internal/usecase/commands"
	"roomsense/internal/usecase/queries"
	"roomsense/tests/common/builder"
	"roomsense/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUserReadStore misses the same way the SQL read store does: the
// underlying no-rows error marked with queries.ErrUserNotFound.
type stubUserReadStore struct {
	byEmail map[string]*queries.AuthorizedUserView
	byID    map[uuid.UUID]*queries.AuthorizedUserView
}

func (s *stubUserReadStore) FindAuthorizedByEmail(_ context.Context, email string) (*queries.AuthorizedUserView, error) {
	if v, ok := s.byEmail[email]; ok {
		return v, nil
	}
	return nil, errs.Mark(errs.New("no rows in result set"), queries.ErrUserNotFound)
}

func (s *stubUserReadStore) FindAuthorizedByID(_ context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	if v, ok := s.byID[id]; ok {
		return v, nil
	}
	return nil, errs.Mark(errs.New("no rows in result set"), queries.ErrUserNotFound)
}

func (s *stubUserReadStore) FindAllWithBanStatus(_ context.Context) ([]*queries.AdminUserView, error) {
	return nil, nil
}

type authFixture struct {
	store *fake.Store
	users *stubUserReadStore
	auth  commands.AuthCommands
	jwt   *jwt.Service
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	store := fake.NewStore()
	users := &stubUserReadStore{
		byEmail: make(map[string]*queries.AuthorizedUserView),
		byID:    make(map[uuid.UUID]*queries.AuthorizedUserView),
	}
	jwtSvc := jwt.NewService("test-secret", 15*time.Minute, 24*time.Hour)

	return &authFixture{
		store: store,
		users: users,
		auth:  commands.NewAuthCommands(fake.NewUoW(store), queries.NewUserQueries(users), jwtSvc),
		jwt:   jwtSvc,
	}
}

func (f *authFixture) seedCredentials(t *testing.T, email, plaintext string, banned bool) *queries.AuthorizedUserView {
	t.Helper()
	hash, err := password.Hash(plaintext)
	require.NoError(t, err)

	snap := builder.NewUserBuilder().WithEmail(email).BuildSnapshot()
	f.store.AddUser(snap)

	view := &queries.AuthorizedUserView{
		ID:           snap.ID,
		Email:        email,
		PasswordHash: hash,
		Role:         "user",
		Banned:       banned,
	}
	f.users.byEmail[email] = view
	f.users.byID[snap.ID] = view
	return view
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials yield a token pair", func(t *testing.T) {
		f := newAuthFixture(t)
		view := f.seedCredentials(t, "user@example.com", "s3cret-pass", false)

		result, err := f.auth.Login(ctx, "user@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, view.ID, result.UserID)
		assert.False(t, result.Banned)
		assert.NotEmpty(t, result.Tokens.AccessToken)
		assert.NotEmpty(t, result.Tokens.RefreshToken)
	})

	t.Run("unknown email is invalid credentials, not a server error", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.auth.Login(ctx, "nobody@example.com", "whatever-pass")
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
		assert.NotErrorIs(t, err, commands.ErrDatabaseOperationFailed)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture(t)
		f.seedCredentials(t, "user@example.com", "s3cret-pass", false)

		_, err := f.auth.Login(ctx, "user@example.com", "wrong-pass")
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("banned user still logs in, flagged", func(t *testing.T) {
		f := newAuthFixture(t)
		f.seedCredentials(t, "banned@example.com", "s3cret-pass", true)

		result, err := f.auth.Login(ctx, "banned@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.True(t, result.Banned)
	})
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("refresh token rotates the pair", func(t *testing.T) {
		f := newAuthFixture(t)
		f.seedCredentials(t, "user@example.com", "s3cret-pass", false)

		login, err := f.auth.Login(ctx, "user@example.com", "s3cret-pass")
		require.NoError(t, err)

		pair, err := f.auth.RefreshToken(ctx, login.Tokens.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("access token is not accepted for refresh", func(t *testing.T) {
		f := newAuthFixture(t)
		f.seedCredentials(t, "user@example.com", "s3cret-pass", false)

		login, err := f.auth.Login(ctx, "user@example.com", "s3cret-pass")
		require.NoError(t, err)

		_, err = f.auth.RefreshToken(ctx, login.Tokens.AccessToken)
		assert.ErrorIs(t, err, commands.ErrTokenValidation)
	})

	t.Run("deleted account cannot refresh", func(t *testing.T) {
		f := newAuthFixture(t)
		view := f.seedCredentials(t, "user@example.com", "s3cret-pass", false)

		login, err := f.auth.Login(ctx, "user@example.com", "s3cret-pass")
		require.NoError(t, err)

		delete(f.users.byID, view.ID)

		_, err = f.auth.RefreshToken(ctx, login.Tokens.RefreshToken)
		assert.ErrorIs(t, err, commands.ErrTokenValidation)
		assert.NotErrorIs(t, err, commands.ErrDatabaseOperationFailed)
	})

	t.Run("garbage token", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.auth.RefreshToken(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, commands.ErrTokenValidation)
	})
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaizenhub/kaizenhub-server/internal/auth"
	"github.com/kaizenhub/kaizenhub-server/internal/domain"
	domainerrors "github.com/kaizenhub/kaizenhub-server/internal/errors"
	"github.com/kaizenhub/kaizenhub-server/internal/store"
)

const testKeyHex = "707172737475767778797a7b7c7d7e7f808182838485868788898a8b8c8d8e8f"

type authEnv struct {
	store    store.Store
	auth     *AuthService
	sessions *SessionService
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()
	st := newTestStore(t)
	logger := testLogger()

	tokens, err := auth.NewTokenService(testKeyHex, 15*time.Minute, 720*time.Hour)
	require.NoError(t, err)

	sessions := NewSessionService(st, tokens, logger)
	return &authEnv{
		store:    st,
		auth:     NewAuthService(st, sessions, tokens, logger),
		sessions: sessions,
	}
}

func (e *authEnv) setup(t *testing.T) (*domain.User, *TokenPair) {
	t.Helper()
	user, pair, err := e.auth.Setup(context.Background(), SetupRequest{
		Email:       "admin@kaizenhub.example",
		Password:    "correct-horse-battery",
		DisplayName: "Admin",
	})
	require.NoError(t, err)
	return user, pair
}

func TestSetupCreatesHQUser(t *testing.T) {
	env := newAuthEnv(t)

	user, pair := env.setup(t)
	assert.Equal(t, domain.RoleHQ, user.Role)
	assert.Empty(t, user.PlantID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := env.auth.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.True(t, claims.IsHQ())
}

func TestSetupOnlyRunsOnce(t *testing.T) {
	env := newAuthEnv(t)
	env.setup(t)

	_, _, err := env.auth.Setup(context.Background(), SetupRequest{
		Email:       "second@kaizenhub.example",
		Password:    "another-password",
		DisplayName: "Second",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidState)
}

func TestLogin(t *testing.T) {
	env := newAuthEnv(t)
	user, _ := env.setup(t)
	ctx := context.Background()

	loggedIn, pair, err := env.auth.Login(ctx, LoginRequest{
		Email:    "admin@kaizenhub.example",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, pair.AccessToken)

	// Email lookup is case-insensitive.
	_, _, err = env.auth.Login(ctx, LoginRequest{
		Email:    "Admin@KaizenHub.example",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
}

func TestLoginBadCredentials(t *testing.T) {
	env := newAuthEnv(t)
	env.setup(t)
	ctx := context.Background()

	// Wrong password and unknown email produce the same error.
	_, _, err := env.auth.Login(ctx, LoginRequest{
		Email:    "admin@kaizenhub.example",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, _, err = env.auth.Login(ctx, LoginRequest{
		Email:    "nobody@kaizenhub.example",
		Password: "whatever-password",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	env := newAuthEnv(t)
	user, pair := env.setup(t)
	ctx := context.Background()

	newPair, refreshedUser, err := env.sessions.RefreshSession(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshedUser.ID)
	assert.NotEqual(t, pair.RefreshToken, newPair.RefreshToken)

	// The old token was consumed by the rotation.
	_, _, err = env.sessions.RefreshSession(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	// The new one works.
	_, _, err = env.sessions.RefreshSession(ctx, newPair.RefreshToken)
	require.NoError(t, err)
}

func TestLogout(t *testing.T) {
	env := newAuthEnv(t)
	_, pair := env.setup(t)
	ctx := context.Background()

	require.NoError(t, env.auth.Logout(ctx, pair.RefreshToken))

	_, _, err := env.sessions.RefreshSession(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	// Logout is idempotent.
	require.NoError(t, env.auth.Logout(ctx, pair.RefreshToken))
}

func TestRegisterUser(t *testing.T) {
	env := newAuthEnv(t)
	env.setup(t)
	ctx := context.Background()
	seedPlant(t, env.store, "plant-1", "PUN01")

	member, err := env.auth.RegisterUser(ctx, RegisterUserRequest{
		Email:       "member@kaizenhub.example",
		Password:    "member-password",
		DisplayName: "Member",
		Role:        "member",
		PlantID:     "plant-1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, member.Role)
	assert.Equal(t, "plant-1", member.PlantID)

	// A member needs a plant.
	_, err = env.auth.RegisterUser(ctx, RegisterUserRequest{
		Email:       "floating@kaizenhub.example",
		Password:    "member-password",
		DisplayName: "Floating",
		Role:        "member",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	// An HQ account must not have one.
	_, err = env.auth.RegisterUser(ctx, RegisterUserRequest{
		Email:       "hq2@kaizenhub.example",
		Password:    "hq-password1",
		DisplayName: "HQ Two",
		Role:        "hq",
		PlantID:     "plant-1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	// Duplicate email, case-insensitively.
	_, err = env.auth.RegisterUser(ctx, RegisterUserRequest{
		Email:       "Member@KaizenHub.example",
		Password:    "member-password",
		DisplayName: "Member Again",
		Role:        "member",
		PlantID:     "plant-1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestRegisterUserUnknownPlant(t *testing.T) {
	env := newAuthEnv(t)
	env.setup(t)

	_, err := env.auth.RegisterUser(context.Background(), RegisterUserRequest{
		Email:       "member@kaizenhub.example",
		Password:    "member-password",
		DisplayName: "Member",
		Role:        "member",
		PlantID:     "plant-missing",
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

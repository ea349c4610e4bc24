package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kaizenhub/kaizenhub-server/internal/auth"
	"github.com/kaizenhub/kaizenhub-server/internal/domain"
	domainerrors "github.com/kaizenhub/kaizenhub-server/internal/errors"
	"github.com/kaizenhub/kaizenhub-server/internal/id"
	"github.com/kaizenhub/kaizenhub-server/internal/store"
)

// SessionService manages refresh token sessions.
type SessionService struct {
	store  store.Store
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(store store.Store, tokens *auth.TokenService, logger *slog.Logger) *SessionService {
	return &SessionService{store: store, tokens: tokens, logger: logger}
}

// TokenPair is the pair of credentials handed to a client on login or
// refresh.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// CreateSession issues a new token pair for the user and persists the
// refresh token hash.
func (s *SessionService) CreateSession(ctx context.Context, user *domain.User) (*TokenPair, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	sessionID, err := id.Generate("sess")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		ID:               sessionID,
		UserID:           user.ID,
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		ExpiresAt:        now.Add(s.tokens.RefreshTokenDuration()),
		CreatedAt:        now,
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  now.Add(s.tokens.AccessTokenDuration()),
		RefreshExpiresAt: session.ExpiresAt,
	}, nil
}

// RefreshSession rotates a refresh token: the presented token is
// invalidated and a fresh pair is issued. An expired or unknown token
// yields an auth error, never a new pair.
func (s *SessionService) RefreshSession(ctx context.Context, refreshToken string) (*TokenPair, *domain.User, error) {
	session, err := s.store.GetSessionByRefreshToken(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.Unauthorized("invalid refresh token")
		}
		return nil, nil, fmt.Errorf("lookup session: %w", err)
	}

	if session.Expired(time.Now()) {
		if err := s.store.DeleteSession(ctx, session.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("delete expired session", "session_id", session.ID, "error", err)
		}
		return nil, nil, domainerrors.TokenExpired("refresh token expired")
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.Unauthorized("user no longer exists")
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	// Rotation: the old token must stop working before the new one is
	// handed out.
	if err := s.store.DeleteSession(ctx, session.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, nil, fmt.Errorf("delete session: %w", err)
	}

	pair, err := s.CreateSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return pair, user, nil
}

// DeleteSessionByRefreshToken removes the session for the given refresh
// token. Unknown tokens are a no-op; logout is idempotent.
func (s *SessionService) DeleteSessionByRefreshToken(ctx context.Context, refreshToken string) error {
	session, err := s.store.GetSessionByRefreshToken(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup session: %w", err)
	}

	if err := s.store.DeleteSession(ctx, session.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteAllUserSessions logs a user out everywhere.
func (s *SessionService) DeleteAllUserSessions(ctx context.Context, userID string) error {
	if err := s.store.DeleteAllUserSessions(ctx, userID); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions and returns how many
// were deleted. Meant to be called periodically.
func (s *SessionService) CleanupExpiredSessions(ctx context.Context) (int, error) {
	n, err := s.store.DeleteExpiredSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	if n > 0 {
		s.logger.Info("cleaned up expired sessions", "count", n)
	}
	return n, nil
}

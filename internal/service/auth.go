package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kaizenhub/kaizenhub-server/internal/auth"
	"github.com/kaizenhub/kaizenhub-server/internal/domain"
	domainerrors "github.com/kaizenhub/kaizenhub-server/internal/errors"
	"github.com/kaizenhub/kaizenhub-server/internal/id"
	"github.com/kaizenhub/kaizenhub-server/internal/store"
)

// AuthService handles account creation and credential verification.
type AuthService struct {
	store    store.Store
	sessions *SessionService
	tokens   *auth.TokenService
	logger   *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(store store.Store, sessions *SessionService, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{store: store, sessions: sessions, tokens: tokens, logger: logger}
}

// SetupRequest contains the data for first-run setup.
type SetupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
}

// Setup creates the first account on a fresh install. That account is
// always HQ; it exists to register plants and invite everyone else.
// Fails once any user exists.
func (s *AuthService) Setup(ctx context.Context, req SetupRequest) (*domain.User, *TokenPair, error) {
	if err := validate.Struct(req); err != nil {
		return nil, nil, formatValidationError(err)
	}

	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil, nil, domainerrors.InvalidState("setup already completed")
	}

	user, err := s.createUser(ctx, req.Email, req.Password, req.DisplayName, domain.RoleHQ, "")
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.sessions.CreateSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("initial setup completed", "user_id", user.ID, "email", user.Email)

	return user, pair, nil
}

// RegisterUserRequest contains the data for creating an account. HQ only.
type RegisterUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
	Role        string `json:"role" validate:"required,oneof=member hq"`
	PlantID     string `json:"plant_id"`
}

// RegisterUser creates an account. Members must belong to a plant; HQ
// users must not.
func (s *AuthService) RegisterUser(ctx context.Context, req RegisterUserRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	role := domain.Role(req.Role)
	switch role {
	case domain.RoleMember:
		if req.PlantID == "" {
			return nil, domainerrors.Validation("plant_id is required for member accounts")
		}
		if _, err := s.store.GetPlant(ctx, req.PlantID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, domainerrors.NotFound("plant not found")
			}
			return nil, fmt.Errorf("get plant: %w", err)
		}
	case domain.RoleHQ:
		if req.PlantID != "" {
			return nil, domainerrors.Validation("hq accounts do not belong to a plant")
		}
	}

	user, err := s.createUser(ctx, req.Email, req.Password, req.DisplayName, role, req.PlantID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role, "plant_id", user.PlantID)

	return user, nil
}

func (s *AuthService) createUser(ctx context.Context, email, password, displayName string, role domain.Role, plantID string) (*domain.User, error) {
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		Role:         role,
		PlantID:      plantID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("email already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and issues a token pair. Unknown email and
// wrong password produce the same error so the endpoint doesn't confirm
// which addresses have accounts.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*domain.User, *TokenPair, error) {
	if err := validate.Struct(req); err != nil {
		return nil, nil, formatValidationError(err)
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, nil, fmt.Errorf("get user by email: %w", err)
	}

	ok, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	pair, err := s.sessions.CreateSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return user, pair, nil
}

// Logout invalidates the presented refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.sessions.DeleteSessionByRefreshToken(ctx, refreshToken)
}

// VerifyAccessToken validates an access token and returns its claims.
func (s *AuthService) VerifyAccessToken(tokenString string) (*auth.AccessClaims, error) {
	claims, err := s.tokens.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired access token")
	}
	return claims, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

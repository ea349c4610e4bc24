package api

import (
	"net/http"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
	"github.com/kaizenhub/kaizenhub-server/internal/http/response"
	"github.com/kaizenhub/kaizenhub-server/internal/service"
)

// authPayload is the response body for setup, login and refresh.
type authPayload struct {
	User   *domain.User       `json:"user"`
	Tokens *service.TokenPair `json:"tokens"`
}

// refreshRequest carries the opaque refresh token.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// handleSetup creates the first HQ account on a fresh install.
func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req service.SetupRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}

	user, pair, err := s.authService.Setup(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, authPayload{User: user, Tokens: pair}, s.logger)
}

// handleLogin authenticates a user and issues a token pair.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}

	user, pair, err := s.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, authPayload{User: user, Tokens: pair}, s.logger)
}

// handleRefresh rotates a refresh token for a new pair.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}
	if req.RefreshToken == "" {
		response.BadRequest(w, "refresh_token is required", s.logger)
		return
	}

	pair, user, err := s.sessionService.RefreshSession(r.Context(), req.RefreshToken)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, authPayload{User: user, Tokens: pair}, s.logger)
}

// handleLogout revokes the presented refresh token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}

	if err := s.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]string{"message": "Logged out successfully"}, s.logger)
}

// handleGetCurrentUser returns the authenticated user.
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r.Context())

	user, err := s.authService.GetUser(r.Context(), claims.UserID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}

// handleRegisterUser creates an account. HQ only.
func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterUserRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, err.Error(), s.logger)
		return
	}

	user, err := s.authService.RegisterUser(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, user, s.logger)
}

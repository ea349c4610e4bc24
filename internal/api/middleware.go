package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/kaizenhub/kaizenhub-server/internal/auth"
	"github.com/kaizenhub/kaizenhub-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyClaims contextKey = "claims"

// requireAuth is middleware that validates access tokens and attaches
// the token claims to the request context. Role and plant travel inside
// the encrypted token, so authorization needs no database round trip.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Missing authorization header", s.logger)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format", s.logger)
			return
		}

		claims, err := s.authService.VerifyAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireHQ is middleware that ensures the authenticated user has
// headquarters privileges. Must be used after requireAuth.
func (s *Server) requireHQ(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := getClaims(r.Context())
		if claims == nil || !claims.IsHQ() {
			response.Forbidden(w, "Headquarters access required", s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// rateLimitLogin throttles login attempts per client IP.
func (s *Server) rateLimitLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := getClientIP(r)
		if !s.loginLimiter.Allow(key) {
			s.logger.Warn("Login rate limit exceeded", "ip", key)
			response.TooManyRequests(w, "Too many login attempts. Please try again later.", s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getClaims extracts the access token claims from request context.
// Returns nil if not authenticated.
func getClaims(ctx context.Context) *auth.AccessClaims {
	if claims, ok := ctx.Value(contextKeyClaims).(*auth.AccessClaims); ok {
		return claims
	}
	return nil
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take first IP in the chain.
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr (strip port).
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}

package auth

import (
	"time"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
)

// AccessClaims represents the claims stored in a PASETO access token.
// These are encrypted in v4.local tokens, so they're not readable
// without the key.
type AccessClaims struct {
	UserID  string      `json:"user_id"`
	Email   string      `json:"email"`
	Role    domain.Role `json:"role"`
	PlantID string      `json:"plant_id,omitempty"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// IsHQ reports whether the token belongs to a headquarters user.
func (c *AccessClaims) IsHQ() bool {
	return c.Role == domain.RoleHQ
}

package domain

import "time"

// Role determines what a user can do.
type Role string

// User roles.
const (
	// RoleMember is a plant-level user: submits and copies practices.
	RoleMember Role = "member"
	// RoleHQ is a headquarters user: approves, benchmarks, manages plants.
	RoleHQ Role = "hq"
)

// Valid reports whether the role is a known value.
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleHQ
}

// User is an account belonging to a plant (or headquarters).
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	Role         Role      `json:"role"`
	PlantID      string    `json:"plant_id,omitempty"` // empty for HQ users
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsHQ reports whether the user has headquarters privileges.
func (u *User) IsHQ() bool {
	return u.Role == RoleHQ
}

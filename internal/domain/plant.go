package domain

import "time"

// Plant is a manufacturing site participating in best practice sharing.
type Plant struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"` // short unique code, e.g. "PUN01"
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

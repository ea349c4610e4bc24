package domain

import "time"

// Leaderboard point awards for copy-and-implement events.
const (
	// OriginCopyPoints go to the practice's home plant the first time
	// any plant copies it.
	OriginCopyPoints = 10
	// CopierPoints go to the copying plant on every copy.
	CopierPoints = 5
)

// LeaderboardEntry is the running point total for one plant and year.
// TotalPoints always equals OriginPoints + CopierPoints; points are
// additive and never revoked.
type LeaderboardEntry struct {
	PlantID      string    `json:"plant_id"`
	Year         int       `json:"year"`
	OriginPoints int       `json:"origin_points"`
	CopierPoints int       `json:"copier_points"`
	TotalPoints  int       `json:"total_points"`
	UpdatedAt    time.Time `json:"updated_at"`
}

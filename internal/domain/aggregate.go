package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyAggregate is the derived savings rollup for one plant and month.
//
// Rows are exclusively owned by the scoring engine: created on the first
// qualifying submission in a plant/month, overwritten on every
// recalculation, never deleted (zero is a valid steady state). Stars is
// always derived from (TotalSavings, YTD) and never set independently.
type MonthlyAggregate struct {
	PlantID       string          `json:"plant_id"`
	Year          int             `json:"year"`
	Month         int             `json:"month"` // 1..12
	TotalSavings  decimal.Decimal `json:"total_savings"` // canonical lakhs
	PracticeCount int             `json:"practice_count"`
	Stars         int             `json:"stars"` // 0..5
	UpdatedAt     time.Time       `json:"updated_at"`
}

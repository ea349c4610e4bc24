package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyUnit is the unit a savings amount is reported in.
// Internal storage is always canonical lakhs; crores appear only at
// the reporting boundary (1 crore = 100 lakhs).
type CurrencyUnit string

// Currency units.
const (
	UnitLakhs  CurrencyUnit = "lakhs"
	UnitCrores CurrencyUnit = "crores"
)

// Valid reports whether the unit is a known value.
func (u CurrencyUnit) Valid() bool {
	return u == UnitLakhs || u == UnitCrores
}

// ReportingPeriod is the period a savings amount covers.
type ReportingPeriod string

// Reporting periods.
const (
	PeriodMonthly  ReportingPeriod = "monthly"
	PeriodAnnually ReportingPeriod = "annually"
)

// Valid reports whether the period is a known value.
func (p ReportingPeriod) Valid() bool {
	return p == PeriodMonthly || p == PeriodAnnually
}

// SubmissionStatus is the lifecycle state of a best practice submission.
type SubmissionStatus string

// Submission lifecycle states.
const (
	StatusDraft     SubmissionStatus = "draft"
	StatusSubmitted SubmissionStatus = "submitted"
	StatusApproved  SubmissionStatus = "approved"
)

// Valid reports whether the status is a known value.
func (s SubmissionStatus) Valid() bool {
	return s == StatusDraft || s == StatusSubmitted || s == StatusApproved
}

// Submission is a best practice submitted by a plant.
//
// Savings fields are all optional: a practice may legitimately be
// submitted without quantified savings, in which case it still counts
// toward the plant's practice count but contributes zero savings.
type Submission struct {
	ID          string   `json:"id"`
	PlantID     string   `json:"plant_id"`
	Title       string   `json:"title"`
	Problem     string   `json:"problem,omitempty"`
	Improvement string   `json:"improvement,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	SavingsAmount *decimal.Decimal `json:"savings_amount,omitempty"`
	SavingsUnit   *CurrencyUnit    `json:"savings_unit,omitempty"`
	SavingsPeriod *ReportingPeriod `json:"savings_period,omitempty"`

	Status      SubmissionStatus `json:"status"`
	SubmittedAt *time.Time       `json:"submitted_at,omitempty"`

	Benchmarked   bool       `json:"benchmarked"`
	BenchmarkedAt *time.Time `json:"benchmarked_at,omitempty"`

	// CopiedFromID links a copy-and-implement clone back to the
	// benchmarked origin practice.
	CopiedFromID *string `json:"copied_from_id,omitempty"`

	DeletedAt *time.Time `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Qualifying reports whether the submission counts toward monthly
// aggregation: submitted or approved, not soft-deleted, and carrying a
// submitted date that anchors it to a month.
func (s *Submission) Qualifying() bool {
	if s.DeletedAt != nil {
		return false
	}
	if s.SubmittedAt == nil {
		return false
	}
	return s.Status == StatusSubmitted || s.Status == StatusApproved
}

// HasSavingsData reports whether the submission carries a complete,
// recognizable savings triple (amount, unit, period). Submissions
// without one are skipped during savings aggregation, not rejected.
func (s *Submission) HasSavingsData() bool {
	if s.SavingsAmount == nil || s.SavingsUnit == nil || s.SavingsPeriod == nil {
		return false
	}
	return s.SavingsUnit.Valid() && s.SavingsPeriod.Valid()
}

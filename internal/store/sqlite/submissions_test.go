package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
	"github.com/kaizenhub/kaizenhub-server/internal/store"
)

// makeTestSubmission builds a fully populated submitted practice.
func makeTestSubmission(id, plantID string, submittedAt time.Time) *domain.Submission {
	amount := decimal.RequireFromString("12.5")
	unit := domain.UnitLakhs
	period := domain.PeriodMonthly
	now := submittedAt

	return &domain.Submission{
		ID:            id,
		PlantID:       plantID,
		Title:         "Reduce coolant waste in CNC line",
		Problem:       "Coolant discarded after single pass",
		Improvement:   "Closed-loop filtration and reuse",
		Tags:          []string{"machining", "coolant"},
		SavingsAmount: &amount,
		SavingsUnit:   &unit,
		SavingsPeriod: &period,
		Status:        domain.StatusSubmitted,
		SubmittedAt:   &submittedAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestCreateAndGetSubmission(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestPlant(t, s, "plant-1", "PUN01")
	submittedAt := time.Date(2025, time.March, 9, 10, 0, 0, 0, time.UTC)
	sub := makeTestSubmission("bp-1", "plant-1", submittedAt)

	if err := s.CreateSubmission(ctx, sub); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}

	got, err := s.GetSubmission(ctx, "bp-1")
	if err != nil {
		t.Fatalf("GetSubmission: %v", err)
	}

	if got.Title != sub.Title {
		t.Errorf("Title: got %q, want %q", got.Title, sub.Title)
	}
	if got.Problem != sub.Problem {
		t.Errorf("Problem: got %q, want %q", got.Problem, sub.Problem)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "machining" {
		t.Errorf("Tags: got %v, want %v", got.Tags, sub.Tags)
	}
	if got.SavingsAmount == nil || !got.SavingsAmount.Equal(*sub.SavingsAmount) {
		t.Errorf("SavingsAmount: got %v, want %v", got.SavingsAmount, sub.SavingsAmount)
	}
	if got.SavingsUnit == nil || *got.SavingsUnit != domain.UnitLakhs {
		t.Errorf("SavingsUnit: got %v, want lakhs", got.SavingsUnit)
	}
	if got.SavingsPeriod == nil || *got.SavingsPeriod != domain.PeriodMonthly {
		t.Errorf("SavingsPeriod: got %v, want monthly", got.SavingsPeriod)
	}
	if got.Status != domain.StatusSubmitted {
		t.Errorf("Status: got %q, want submitted", got.Status)
	}
	if got.SubmittedAt == nil || !got.SubmittedAt.Equal(submittedAt) {
		t.Errorf("SubmittedAt: got %v, want %v", got.SubmittedAt, submittedAt)
	}
	if got.Benchmarked {
		t.Error("Benchmarked: got true, want false")
	}
}

func TestGetSubmissionWithoutSavings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestPlant(t, s, "plant-1", "PUN01")
	now := time.Now()
	sub := &domain.Submission{
		ID:        "bp-bare",
		PlantID:   "plant-1",
		Title:     "5S audit checklist",
		Status:    domain.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.CreateSubmission(ctx, sub); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}

	got, err := s.GetSubmission(ctx, "bp-bare")
	if err != nil {
		t.Fatalf("GetSubmission: %v", err)
	}
	if got.SavingsAmount != nil || got.SavingsUnit != nil || got.SavingsPeriod != nil {
		t.Error("savings fields should round-trip as nil")
	}
	if got.SubmittedAt != nil {
		t.Errorf("SubmittedAt: got %v, want nil", got.SubmittedAt)
	}
	if got.Tags != nil {
		t.Errorf("Tags: got %v, want nil", got.Tags)
	}
}

func TestDeleteSubmissionHidesRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestPlant(t, s, "plant-1", "PUN01")
	sub := makeTestSubmission("bp-1", "plant-1", time.Now())
	if err := s.CreateSubmission(ctx, sub); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}

	if err := s.DeleteSubmission(ctx, "bp-1"); err != nil {
		t.Fatalf("DeleteSubmission: %v", err)
	}

	if _, err := s.GetSubmission(ctx, "bp-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetSubmission after delete: got %v, want ErrNotFound", err)
	}

	// Double delete reports not found.
	if err := s.DeleteSubmission(ctx, "bp-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second DeleteSubmission: got %v, want ErrNotFound", err)
	}
}

func TestListQualifyingSubmissions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestPlant(t, s, "plant-1", "PUN01")
	makeTestPlant(t, s, "plant-2", "CHN01")

	march := time.Date(2025, time.March, 15, 9, 0, 0, 0, time.UTC)
	april := time.Date(2025, time.April, 2, 9, 0, 0, 0, time.UTC)

	// In-month, qualifying.
	inMonth := makeTestSubmission("bp-march", "plant-1", march)
	if err := s.CreateSubmission(ctx, inMonth); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}

	// Approved also qualifies.
	approved := makeTestSubmission("bp-approved", "plant-1", march.Add(time.Hour))
	approved.Status = domain.StatusApproved
	if err := s.CreateSubmission(ctx, approved); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}

	// Draft does not qualify.
	draft := makeTestSubmission("bp-draft", "plant-1", march)
	draft.Status = domain.StatusDraft
	if err := s.CreateSubmission(ctx, draft); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}

	// Wrong month.
	other := makeTestSubmission("bp-april", "plant-1", april)
	if err := s.CreateSubmission(ctx, other); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}

	// Wrong plant.
	foreign := makeTestSubmission("bp-foreign", "plant-2", march)
	if err := s.CreateSubmission(ctx, foreign); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}

	// Soft-deleted.
	deleted := makeTestSubmission("bp-deleted", "plant-1", march)
	if err := s.CreateSubmission(ctx, deleted); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}
	if err := s.DeleteSubmission(ctx, "bp-deleted"); err != nil {
		t.Fatalf("DeleteSubmission: %v", err)
	}

	subs, err := s.ListQualifyingSubmissions(ctx, "plant-1", 2025, 3)
	if err != nil {
		t.Fatalf("ListQualifyingSubmissions: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("got %d submissions, want 2", len(subs))
	}
	if subs[0].ID != "bp-march" || subs[1].ID != "bp-approved" {
		t.Errorf("wrong submissions or order: %s, %s", subs[0].ID, subs[1].ID)
	}
}

func TestListQualifyingSubmissionsFractionalSecondBoundary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestPlant(t, s, "plant-1", "PUN01")

	// Half a second into April. Stored timestamps must sort in time
	// order even with sub-second precision, so this belongs to April's
	// window, not March's.
	boundary := time.Date(2025, time.April, 1, 0, 0, 0, 500_000_000, time.UTC)
	sub := makeTestSubmission("bp-boundary", "plant-1", boundary)
	if err := s.CreateSubmission(ctx, sub); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}

	march, err := s.ListQualifyingSubmissions(ctx, "plant-1", 2025, 3)
	if err != nil {
		t.Fatalf("ListQualifyingSubmissions: %v", err)
	}
	if len(march) != 0 {
		t.Fatalf("March window: got %d submissions, want 0", len(march))
	}

	april, err := s.ListQualifyingSubmissions(ctx, "plant-1", 2025, 4)
	if err != nil {
		t.Fatalf("ListQualifyingSubmissions: %v", err)
	}
	if len(april) != 1 || april[0].ID != "bp-boundary" {
		t.Fatalf("April window: got %v, want bp-boundary", april)
	}

	got, err := s.GetSubmission(ctx, "bp-boundary")
	if err != nil {
		t.Fatalf("GetSubmission: %v", err)
	}
	if !got.SubmittedAt.Equal(boundary) {
		t.Errorf("SubmittedAt: got %v, want %v", got.SubmittedAt, boundary)
	}
}

func TestListBenchmarkedSubmissions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestPlant(t, s, "plant-1", "PUN01")

	now := time.Now()
	plain := makeTestSubmission("bp-plain", "plant-1", now)
	if err := s.CreateSubmission(ctx, plain); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}

	marked := makeTestSubmission("bp-marked", "plant-1", now)
	marked.Benchmarked = true
	marked.BenchmarkedAt = &now
	if err := s.CreateSubmission(ctx, marked); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}

	subs, err := s.ListBenchmarkedSubmissions(ctx)
	if err != nil {
		t.Fatalf("ListBenchmarkedSubmissions: %v", err)
	}
	if len(subs) != 1 || subs[0].ID != "bp-marked" {
		t.Fatalf("got %v, want only bp-marked", subs)
	}
}

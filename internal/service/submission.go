package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
	domainerrors "github.com/kaizenhub/kaizenhub-server/internal/errors"
	"github.com/kaizenhub/kaizenhub-server/internal/id"
	"github.com/kaizenhub/kaizenhub-server/internal/store"
)

// RecalcEnqueuer schedules a background forward recalculation for a
// plant starting at the given month.
type RecalcEnqueuer interface {
	Enqueue(plantID string, year, month int)
}

// SubmissionService manages best practice submissions through their
// lifecycle: draft, submitted, approved, benchmarked.
type SubmissionService struct {
	store   store.Store
	indexer store.SearchIndexer
	recalc  RecalcEnqueuer
	logger  *slog.Logger
}

// NewSubmissionService creates a new submission service.
func NewSubmissionService(store store.Store, indexer store.SearchIndexer, recalc RecalcEnqueuer, logger *slog.Logger) *SubmissionService {
	return &SubmissionService{store: store, indexer: indexer, recalc: recalc, logger: logger}
}

// SavingsInput is the optional savings triple on a submission. A
// practice either carries the full triple or no savings data at all.
type SavingsInput struct {
	Amount *decimal.Decimal `json:"amount"`
	Unit   string           `json:"unit" validate:"omitempty,oneof=lakhs crores"`
	Period string           `json:"period" validate:"omitempty,oneof=monthly annually"`
}

func (s *SavingsInput) empty() bool {
	return s == nil || (s.Amount == nil && s.Unit == "" && s.Period == "")
}

func (s *SavingsInput) complete() bool {
	return s != nil && s.Amount != nil && s.Unit != "" && s.Period != ""
}

// CreateSubmissionRequest contains the data for a new draft submission.
type CreateSubmissionRequest struct {
	Title       string        `json:"title" validate:"required,max=200"`
	Problem     string        `json:"problem" validate:"max=5000"`
	Improvement string        `json:"improvement" validate:"max=5000"`
	Tags        []string      `json:"tags" validate:"max=10,dive,max=50"`
	Savings     *SavingsInput `json:"savings"`
}

// CreateSubmission creates a draft submission for the given plant.
// Drafts are invisible to scoring until submitted.
func (s *SubmissionService) CreateSubmission(ctx context.Context, plantID string, req CreateSubmissionRequest) (*domain.Submission, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	if err := validateSavings(req.Savings); err != nil {
		return nil, err
	}

	if _, err := s.store.GetPlant(ctx, plantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("plant not found")
		}
		return nil, fmt.Errorf("get plant: %w", err)
	}

	subID, err := id.Generate("bp")
	if err != nil {
		return nil, fmt.Errorf("generate submission ID: %w", err)
	}

	now := time.Now()
	sub := &domain.Submission{
		ID:          subID,
		PlantID:     plantID,
		Title:       req.Title,
		Problem:     req.Problem,
		Improvement: req.Improvement,
		Tags:        req.Tags,
		Status:      domain.StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	applySavings(sub, req.Savings)

	if err := s.store.CreateSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	s.index(ctx, sub)

	s.logger.Info("submission created", "submission_id", sub.ID, "plant_id", plantID)

	return sub, nil
}

// UpdateSubmissionRequest contains the mutable submission fields.
type UpdateSubmissionRequest struct {
	Title       string        `json:"title" validate:"required,max=200"`
	Problem     string        `json:"problem" validate:"max=5000"`
	Improvement string        `json:"improvement" validate:"max=5000"`
	Tags        []string      `json:"tags" validate:"max=10,dive,max=50"`
	Savings     *SavingsInput `json:"savings"`
}

// UpdateSubmission edits a submission. Editing a submitted or approved
// practice's savings changes history, so the plant's aggregates are
// recalculated forward from the practice's anchor month.
func (s *SubmissionService) UpdateSubmission(ctx context.Context, subID string, req UpdateSubmissionRequest) (*domain.Submission, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	if err := validateSavings(req.Savings); err != nil {
		return nil, err
	}

	sub, err := s.GetSubmission(ctx, subID)
	if err != nil {
		return nil, err
	}

	wasQualifying := sub.Qualifying()

	sub.Title = req.Title
	sub.Problem = req.Problem
	sub.Improvement = req.Improvement
	sub.Tags = req.Tags
	sub.SavingsAmount = nil
	sub.SavingsUnit = nil
	sub.SavingsPeriod = nil
	applySavings(sub, req.Savings)
	sub.UpdatedAt = time.Now()

	if err := s.store.UpdateSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}

	s.index(ctx, sub)

	if wasQualifying {
		s.enqueueAnchor(sub)
	}

	return sub, nil
}

// Submit moves a draft to submitted, stamping the submission time that
// anchors it to a scoring month, and triggers recalculation.
func (s *SubmissionService) Submit(ctx context.Context, subID string) (*domain.Submission, error) {
	sub, err := s.GetSubmission(ctx, subID)
	if err != nil {
		return nil, err
	}

	if sub.Status != domain.StatusDraft {
		return nil, domainerrors.InvalidStatef("cannot submit a %s practice", sub.Status)
	}

	now := time.Now()
	sub.Status = domain.StatusSubmitted
	sub.SubmittedAt = &now
	sub.UpdatedAt = now

	if err := s.store.UpdateSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}

	s.index(ctx, sub)
	s.enqueueAnchor(sub)

	s.logger.Info("submission submitted", "submission_id", sub.ID, "plant_id", sub.PlantID)

	return sub, nil
}

// Approve moves a submitted practice to approved. HQ only; enforced by
// the handler. Approval doesn't change scoring, submitted practices
// already count.
func (s *SubmissionService) Approve(ctx context.Context, subID string) (*domain.Submission, error) {
	sub, err := s.GetSubmission(ctx, subID)
	if err != nil {
		return nil, err
	}

	if sub.Status != domain.StatusSubmitted {
		return nil, domainerrors.InvalidStatef("cannot approve a %s practice", sub.Status)
	}

	sub.Status = domain.StatusApproved
	sub.UpdatedAt = time.Now()

	if err := s.store.UpdateSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}

	s.index(ctx, sub)

	s.logger.Info("submission approved", "submission_id", sub.ID)

	return sub, nil
}

// Benchmark marks an approved practice as a benchmark, making it
// eligible for copy-and-implement by other plants. HQ only.
func (s *SubmissionService) Benchmark(ctx context.Context, subID string) (*domain.Submission, error) {
	sub, err := s.GetSubmission(ctx, subID)
	if err != nil {
		return nil, err
	}

	if sub.Status != domain.StatusApproved {
		return nil, domainerrors.InvalidState("only approved practices can be benchmarked")
	}
	if sub.Benchmarked {
		return sub, nil
	}

	now := time.Now()
	sub.Benchmarked = true
	sub.BenchmarkedAt = &now
	sub.UpdatedAt = now

	if err := s.store.UpdateSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}

	s.index(ctx, sub)

	s.logger.Info("submission benchmarked", "submission_id", sub.ID)

	return sub, nil
}

// Unbenchmark removes benchmark status. Copy records and already
// awarded leaderboard points stay; points are never clawed back.
func (s *SubmissionService) Unbenchmark(ctx context.Context, subID string) (*domain.Submission, error) {
	sub, err := s.GetSubmission(ctx, subID)
	if err != nil {
		return nil, err
	}

	if !sub.Benchmarked {
		return sub, nil
	}

	sub.Benchmarked = false
	sub.BenchmarkedAt = nil
	sub.UpdatedAt = time.Now()

	if err := s.store.UpdateSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}

	s.index(ctx, sub)

	return sub, nil
}

// DeleteSubmission soft-deletes a practice. If it was counting toward
// aggregates, the plant's months are recalculated from its anchor.
func (s *SubmissionService) DeleteSubmission(ctx context.Context, subID string) error {
	sub, err := s.GetSubmission(ctx, subID)
	if err != nil {
		return err
	}

	wasQualifying := sub.Qualifying()

	if err := s.store.DeleteSubmission(ctx, subID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("submission not found")
		}
		return fmt.Errorf("delete submission: %w", err)
	}

	if err := s.indexer.DeleteSubmission(ctx, subID); err != nil {
		s.logger.Warn("remove submission from search index", "submission_id", subID, "error", err)
	}

	if wasQualifying {
		s.enqueueAnchor(sub)
	}

	s.logger.Info("submission deleted", "submission_id", subID)

	return nil
}

// GetSubmission retrieves a submission by ID.
func (s *SubmissionService) GetSubmission(ctx context.Context, subID string) (*domain.Submission, error) {
	sub, err := s.store.GetSubmission(ctx, subID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("submission not found")
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return sub, nil
}

// ListByPlant returns all of a plant's submissions, newest first.
func (s *SubmissionService) ListByPlant(ctx context.Context, plantID string) ([]*domain.Submission, error) {
	subs, err := s.store.ListSubmissionsByPlant(ctx, plantID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

// ListAll returns every live submission across all plants, newest first.
func (s *SubmissionService) ListAll(ctx context.Context) ([]*domain.Submission, error) {
	subs, err := s.store.ListAllSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all submissions: %w", err)
	}
	return subs, nil
}

// ListBenchmarked returns the benchmark library: every practice marked
// as a benchmark, across all plants.
func (s *SubmissionService) ListBenchmarked(ctx context.Context) ([]*domain.Submission, error) {
	subs, err := s.store.ListBenchmarkedSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list benchmarked submissions: %w", err)
	}
	return subs, nil
}

// enqueueAnchor schedules a forward recalculation from the submission's
// anchor month.
func (s *SubmissionService) enqueueAnchor(sub *domain.Submission) {
	if sub.SubmittedAt == nil {
		return
	}
	at := sub.SubmittedAt.UTC()
	s.recalc.Enqueue(sub.PlantID, at.Year(), int(at.Month()))
}

func (s *SubmissionService) index(ctx context.Context, sub *domain.Submission) {
	if err := s.indexer.IndexSubmission(ctx, sub); err != nil {
		s.logger.Warn("index submission", "submission_id", sub.ID, "error", err)
	}
}

// validateSavings enforces the all-or-nothing savings triple.
func validateSavings(in *SavingsInput) error {
	if in.empty() {
		return nil
	}
	if !in.complete() {
		return domainerrors.Validation("savings must include amount, unit and period")
	}
	if !domain.CurrencyUnit(in.Unit).Valid() {
		return domainerrors.Validationf("unknown savings unit %q", in.Unit)
	}
	if !domain.ReportingPeriod(in.Period).Valid() {
		return domainerrors.Validationf("unknown savings period %q", in.Period)
	}
	return nil
}

// applySavings copies a complete savings triple onto the submission.
func applySavings(sub *domain.Submission, in *SavingsInput) {
	if !in.complete() {
		return
	}
	amount := in.Amount.Copy()
	unit := domain.CurrencyUnit(in.Unit)
	period := domain.ReportingPeriod(in.Period)
	sub.SavingsAmount = &amount
	sub.SavingsUnit = &unit
	sub.SavingsPeriod = &period
}

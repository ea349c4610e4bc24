package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
	domainerrors "github.com/kaizenhub/kaizenhub-server/internal/errors"
	"github.com/kaizenhub/kaizenhub-server/internal/id"
	"github.com/kaizenhub/kaizenhub-server/internal/store"
)

// CopyService handles copy-and-implement: a plant adopts another
// plant's benchmarked practice and both sides earn leaderboard points.
type CopyService struct {
	store       store.Store
	indexer     store.SearchIndexer
	leaderboard *LeaderboardService
	logger      *slog.Logger

	now func() time.Time
}

// NewCopyService creates a new copy service.
func NewCopyService(store store.Store, indexer store.SearchIndexer, leaderboard *LeaderboardService, logger *slog.Logger) *CopyService {
	return &CopyService{store: store, indexer: indexer, leaderboard: leaderboard, logger: logger, now: time.Now}
}

// CopyAndImplement records that the user's plant is adopting the
// benchmarked origin practice. It creates a draft clone for the copying
// plant, linked back to the origin, and awards points: the copier earns
// points on every distinct adoption, the origin plant only on the first
// plant to copy it. A plant cannot copy its own practice, and cannot
// copy the same practice twice.
func (s *CopyService) CopyAndImplement(ctx context.Context, user *domain.User, originID string) (*domain.Submission, error) {
	if user.PlantID == "" {
		return nil, domainerrors.Forbidden("headquarters accounts cannot copy practices")
	}

	origin, err := s.store.GetSubmission(ctx, originID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("practice not found")
		}
		return nil, fmt.Errorf("get origin submission: %w", err)
	}

	if !origin.Benchmarked {
		return nil, domainerrors.InvalidState("only benchmarked practices can be copied")
	}
	if origin.PlantID == user.PlantID {
		return nil, domainerrors.InvalidState("cannot copy a practice from your own plant")
	}

	recordID, err := id.Generate("copy")
	if err != nil {
		return nil, fmt.Errorf("generate copy record ID: %w", err)
	}

	now := s.now()
	record := &domain.CopyRecord{
		ID:                 recordID,
		OriginSubmissionID: origin.ID,
		CopyingPlantID:     user.PlantID,
		CopiedByUserID:     user.ID,
		CopiedAt:           now,
	}

	if err := s.store.CreateCopyRecord(ctx, record); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("plant has already copied this practice")
		}
		return nil, fmt.Errorf("create copy record: %w", err)
	}

	// Awards are ordered last so every failure path can unwind to a
	// clean slate: a retry after an error must neither hit the
	// duplicate-copy conflict nor double-award points.
	clone, err := s.createClone(ctx, origin, user.PlantID, now)
	if err != nil {
		s.undoCopyRecord(ctx, record.ID)
		return nil, err
	}

	if err := s.awardPoints(ctx, origin, user.PlantID, now); err != nil {
		s.undoClone(ctx, clone.ID)
		s.undoCopyRecord(ctx, record.ID)
		return nil, err
	}

	s.logger.Info("practice copied",
		"origin_submission_id", origin.ID,
		"origin_plant_id", origin.PlantID,
		"copying_plant_id", user.PlantID,
		"clone_id", clone.ID,
	)

	return clone, nil
}

// awardPoints credits the leaderboard for the copy year. Whether this
// was the first copy of the practice is decided by the record count
// after the insert, so the origin bonus is paid exactly once.
func (s *CopyService) awardPoints(ctx context.Context, origin *domain.Submission, copyingPlantID string, now time.Time) error {
	copies, err := s.store.CountCopiesOfOrigin(ctx, origin.ID)
	if err != nil {
		return fmt.Errorf("count copies of origin: %w", err)
	}

	return s.leaderboard.AwardCopyPoints(ctx, origin.PlantID, copyingPlantID, copies == 1, now.UTC().Year(), now)
}

// createClone makes the copying plant's draft, carrying over the
// practice description but none of the origin's savings figures or
// lifecycle state. The plant reports its own results when it submits.
func (s *CopyService) createClone(ctx context.Context, origin *domain.Submission, plantID string, now time.Time) (*domain.Submission, error) {
	cloneID, err := id.Generate("bp")
	if err != nil {
		return nil, fmt.Errorf("generate submission ID: %w", err)
	}

	originID := origin.ID
	clone := &domain.Submission{
		ID:           cloneID,
		PlantID:      plantID,
		Title:        origin.Title,
		Problem:      origin.Problem,
		Improvement:  origin.Improvement,
		Tags:         origin.Tags,
		Status:       domain.StatusDraft,
		CopiedFromID: &originID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateSubmission(ctx, clone); err != nil {
		return nil, fmt.Errorf("create clone submission: %w", err)
	}

	if err := s.indexer.IndexSubmission(ctx, clone); err != nil {
		s.logger.Warn("index clone submission", "submission_id", clone.ID, "error", err)
	}

	return clone, nil
}

// undoCopyRecord removes a copy record whose follow-up work failed, so
// a retry of the action starts clean instead of hitting the
// duplicate-copy conflict.
func (s *CopyService) undoCopyRecord(ctx context.Context, recordID string) {
	if err := s.store.DeleteCopyRecord(ctx, recordID); err != nil {
		s.logger.Error("undo copy record", "copy_record_id", recordID, "error", err)
	}
}

// undoClone removes a clone created for a copy action that failed
// afterwards.
func (s *CopyService) undoClone(ctx context.Context, cloneID string) {
	if err := s.store.DeleteSubmission(ctx, cloneID); err != nil {
		s.logger.Error("undo clone submission", "submission_id", cloneID, "error", err)
		return
	}
	if err := s.indexer.DeleteSubmission(ctx, cloneID); err != nil {
		s.logger.Warn("deindex clone submission", "submission_id", cloneID, "error", err)
	}
}

// ListCopiesByPlant returns a plant's adoption history.
func (s *CopyService) ListCopiesByPlant(ctx context.Context, plantID string) ([]*domain.CopyRecord, error) {
	records, err := s.store.ListCopiesByPlant(ctx, plantID)
	if err != nil {
		return nil, fmt.Errorf("list copy records: %w", err)
	}
	return records, nil
}

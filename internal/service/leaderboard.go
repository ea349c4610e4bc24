package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
	"github.com/kaizenhub/kaizenhub-server/internal/store"
)

// LeaderboardService exposes the yearly copy-and-implement standings.
type LeaderboardService struct {
	store  store.Store
	logger *slog.Logger
}

// NewLeaderboardService creates a new leaderboard service.
func NewLeaderboardService(store store.Store, logger *slog.Logger) *LeaderboardService {
	return &LeaderboardService{store: store, logger: logger}
}

// AwardCopyPoints credits both sides of a copy for the given year. The
// copying plant earns points on every copy; the origin plant only when
// this was the first copy of the practice. Both credits land in one
// store transaction, so a failure awards nothing rather than half.
// Points are additive and never revoked.
func (s *LeaderboardService) AwardCopyPoints(ctx context.Context, originPlantID, copyingPlantID string, firstCopy bool, year int, now time.Time) error {
	originDelta := 0
	if firstCopy {
		originDelta = domain.OriginCopyPoints
	}

	if err := s.store.AddCopyAwardPoints(ctx, originPlantID, copyingPlantID, year, originDelta, domain.CopierPoints, now); err != nil {
		return fmt.Errorf("award copy points: %w", err)
	}

	s.logger.Debug("copy points awarded",
		"origin_plant_id", originPlantID,
		"copying_plant_id", copyingPlantID,
		"first_copy", firstCopy,
		"year", year,
	)

	return nil
}

// Standings returns all plants' point totals for the year, highest
// first. Plants that never earned a point have no entry.
func (s *LeaderboardService) Standings(ctx context.Context, year int) ([]*domain.LeaderboardEntry, error) {
	entries, err := s.store.ListLeaderboardEntries(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("list leaderboard entries: %w", err)
	}
	return entries, nil
}

// PlantEntry returns one plant's point total for the year. A plant with
// no awards gets a zero entry rather than an error.
func (s *LeaderboardService) PlantEntry(ctx context.Context, plantID string, year int) (*domain.LeaderboardEntry, error) {
	entry, err := s.store.GetLeaderboardEntry(ctx, plantID, year)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &domain.LeaderboardEntry{PlantID: plantID, Year: year}, nil
		}
		return nil, fmt.Errorf("get leaderboard entry: %w", err)
	}
	return entry, nil
}

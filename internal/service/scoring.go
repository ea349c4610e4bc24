package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
	"github.com/kaizenhub/kaizenhub-server/internal/scoring"
	"github.com/kaizenhub/kaizenhub-server/internal/store"
)

// ScoringService recomputes monthly savings aggregates and star ratings.
//
// Aggregates are pure derived state: every recalculation rebuilds the
// plant/month row from the qualifying submissions, so running it twice
// produces the same row. Edits to past months are handled by
// recalculating forward from the edited month, because YTD figures and
// therefore star ratings of later months depend on it.
type ScoringService struct {
	store  store.Store
	logger *slog.Logger

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewScoringService creates a new scoring service.
func NewScoringService(store store.Store, logger *slog.Logger) *ScoringService {
	return &ScoringService{store: store, logger: logger, now: time.Now}
}

// ComputeMonthlySavings sums the normalized savings of the plant's
// qualifying submissions in the given month. Returns the total in
// canonical lakhs and the number of qualifying practices. Submissions
// without a complete savings triple count toward the practice count but
// contribute zero.
func (s *ScoringService) ComputeMonthlySavings(ctx context.Context, plantID string, year, month int) (decimal.Decimal, int, error) {
	subs, err := s.store.ListQualifyingSubmissions(ctx, plantID, year, month)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("list qualifying submissions: %w", err)
	}

	total := decimal.Zero
	for _, sub := range subs {
		if !sub.HasSavingsData() {
			continue
		}
		lakhs := scoring.NormalizeToLakhs(*sub.SavingsAmount, *sub.SavingsUnit)
		total = total.Add(scoring.ToMonthly(lakhs, *sub.SavingsPeriod))
	}

	return total, len(subs), nil
}

// ComputeYTD returns the plant's year-to-date savings through the given
// month, in canonical lakhs, by summing the stored monthly aggregates
// for months 1..month.
func (s *ScoringService) ComputeYTD(ctx context.Context, plantID string, year, month int) (decimal.Decimal, error) {
	aggs, err := s.store.ListMonthlyAggregates(ctx, plantID, year)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list monthly aggregates: %w", err)
	}

	ytd := decimal.Zero
	for _, agg := range aggs {
		if agg.Month <= month {
			ytd = ytd.Add(agg.TotalSavings)
		}
	}
	return ytd, nil
}

// RecalculateMonth rebuilds one plant/month aggregate from scratch:
// monthly total, practice count, and the star rating derived from the
// monthly total and the YTD through that month.
func (s *ScoringService) RecalculateMonth(ctx context.Context, plantID string, year, month int) (*domain.MonthlyAggregate, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month out of range: %d", month)
	}

	total, count, err := s.ComputeMonthlySavings(ctx, plantID, year, month)
	if err != nil {
		return nil, err
	}

	// YTD through this month: prior months from stored aggregates plus
	// the freshly computed total. RecalculateForward walks months in
	// ascending order, so the prior rows are already up to date.
	priorYTD, err := s.ComputeYTD(ctx, plantID, year, month-1)
	if err != nil {
		return nil, err
	}
	ytd := priorYTD.Add(total)

	agg := &domain.MonthlyAggregate{
		PlantID:       plantID,
		Year:          year,
		Month:         month,
		TotalSavings:  total,
		PracticeCount: count,
		Stars:         scoring.Classify(&total, &ytd, domain.UnitLakhs),
		UpdatedAt:     s.now(),
	}

	if err := s.store.UpsertMonthlyAggregate(ctx, agg); err != nil {
		return nil, fmt.Errorf("upsert monthly aggregate: %w", err)
	}

	return agg, nil
}

// RecalculateForward rebuilds the plant's aggregates from the anchor
// month through the last relevant month of that year: the current month
// for the current year, December for past years. Future years have no
// months to rebuild. Recalculation never crosses a year boundary; YTD
// resets in January.
func (s *ScoringService) RecalculateForward(ctx context.Context, plantID string, year, month int) error {
	if month < 1 {
		month = 1
	}

	now := s.now()
	endMonth := 12
	switch {
	case year > now.Year():
		return nil
	case year == now.Year():
		endMonth = int(now.Month())
	}

	for m := month; m <= endMonth; m++ {
		agg, err := s.RecalculateMonth(ctx, plantID, year, m)
		if err != nil {
			return fmt.Errorf("recalculate %s %d-%02d: %w", plantID, year, m, err)
		}
		s.logger.Debug("aggregate recalculated",
			"plant_id", plantID,
			"year", year,
			"month", m,
			"total_savings", agg.TotalSavings.String(),
			"practice_count", agg.PracticeCount,
			"stars", agg.Stars,
		)
	}

	return nil
}

// GetMonthlyAggregate returns the stored aggregate for a plant/month, or
// a zero-valued aggregate when no qualifying submission ever touched it.
func (s *ScoringService) GetMonthlyAggregate(ctx context.Context, plantID string, year, month int) (*domain.MonthlyAggregate, error) {
	agg, err := s.store.GetMonthlyAggregate(ctx, plantID, year, month)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &domain.MonthlyAggregate{
				PlantID:      plantID,
				Year:         year,
				Month:        month,
				TotalSavings: decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get monthly aggregate: %w", err)
	}
	return agg, nil
}

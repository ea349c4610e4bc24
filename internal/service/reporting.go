package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
	"github.com/kaizenhub/kaizenhub-server/internal/scoring"
	"github.com/kaizenhub/kaizenhub-server/internal/store"
)

// ReportingService produces the read-side views of the scoring engine:
// per-plant monthly and YTD reports and the cross-plant month overview.
type ReportingService struct {
	store   store.Store
	scoring *ScoringService
	logger  *slog.Logger
}

// NewReportingService creates a new reporting service.
func NewReportingService(store store.Store, scoring *ScoringService, logger *slog.Logger) *ReportingService {
	return &ReportingService{store: store, scoring: scoring, logger: logger}
}

// MonthlyReport is one plant's scoring summary for a month.
type MonthlyReport struct {
	PlantID          string          `json:"plant_id"`
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	TotalSavings     decimal.Decimal `json:"total_savings"`
	FormattedSavings string          `json:"formatted_savings"`
	PracticeCount    int             `json:"practice_count"`
	Stars            int             `json:"stars"`
}

// YTDReport is one plant's cumulative scoring summary through a month.
type YTDReport struct {
	PlantID          string          `json:"plant_id"`
	Year             int             `json:"year"`
	ThroughMonth     int             `json:"through_month"`
	TotalSavings     decimal.Decimal `json:"total_savings"`
	FormattedSavings string          `json:"formatted_savings"`
	PracticeCount    int             `json:"practice_count"`
	Months           []*domain.MonthlyAggregate `json:"months"`
}

// PlantMonthly returns the plant's report for one month. A month no
// qualifying submission ever touched reports zeros.
func (s *ReportingService) PlantMonthly(ctx context.Context, plantID string, year, month int) (*MonthlyReport, error) {
	agg, err := s.scoring.GetMonthlyAggregate(ctx, plantID, year, month)
	if err != nil {
		return nil, err
	}
	return monthlyReportFrom(agg), nil
}

// PlantYTD returns the plant's cumulative report for the year through
// the given month, with the per-month breakdown.
func (s *ReportingService) PlantYTD(ctx context.Context, plantID string, year, month int) (*YTDReport, error) {
	aggs, err := s.store.ListMonthlyAggregates(ctx, plantID, year)
	if err != nil {
		return nil, fmt.Errorf("list monthly aggregates: %w", err)
	}

	report := &YTDReport{
		PlantID:      plantID,
		Year:         year,
		ThroughMonth: month,
		TotalSavings: decimal.Zero,
		Months:       make([]*domain.MonthlyAggregate, 0, len(aggs)),
	}
	for _, agg := range aggs {
		if agg.Month > month {
			continue
		}
		report.TotalSavings = report.TotalSavings.Add(agg.TotalSavings)
		report.PracticeCount += agg.PracticeCount
		report.Months = append(report.Months, agg)
	}
	report.FormattedSavings = scoring.FormatSavings(&report.TotalSavings, domain.UnitCrores)

	return report, nil
}

// MonthOverview returns every plant's report for one month, for the
// HQ dashboard. Plants with no aggregate that month are absent.
func (s *ReportingService) MonthOverview(ctx context.Context, year, month int) ([]*MonthlyReport, error) {
	aggs, err := s.store.ListAggregatesForMonth(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("list aggregates for month: %w", err)
	}

	reports := make([]*MonthlyReport, 0, len(aggs))
	for _, agg := range aggs {
		reports = append(reports, monthlyReportFrom(agg))
	}
	return reports, nil
}

// YTDOverview returns every plant's cumulative report for the year
// through the given month. Plants with no aggregates report zeros.
func (s *ReportingService) YTDOverview(ctx context.Context, year, month int) ([]*YTDReport, error) {
	plants, err := s.store.ListPlants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plants: %w", err)
	}

	reports := make([]*YTDReport, 0, len(plants))
	for _, plant := range plants {
		report, err := s.PlantYTD(ctx, plant.ID, year, month)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func monthlyReportFrom(agg *domain.MonthlyAggregate) *MonthlyReport {
	return &MonthlyReport{
		PlantID:          agg.PlantID,
		Year:             agg.Year,
		Month:            agg.Month,
		TotalSavings:     agg.TotalSavings,
		FormattedSavings: scoring.FormatSavings(&agg.TotalSavings, domain.UnitCrores),
		PracticeCount:    agg.PracticeCount,
		Stars:            agg.Stars,
	}
}

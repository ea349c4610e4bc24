package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
	"github.com/kaizenhub/kaizenhub-server/internal/id"
	"github.com/kaizenhub/kaizenhub-server/internal/store"
	"github.com/kaizenhub/kaizenhub-server/internal/store/sqlite"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := sqlite.Open(dbPath, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedPlant(t *testing.T, st store.Store, plantID, code string) *domain.Plant {
	t.Helper()
	now := time.Now()
	plant := &domain.Plant{
		ID:        plantID,
		Code:      code,
		Name:      "Plant " + code,
		Location:  "Pune",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.CreatePlant(context.Background(), plant))
	return plant
}

// seedPractice inserts a submitted practice anchored to submittedAt.
// Pass amount "" for a practice without savings data.
func seedPractice(t *testing.T, st store.Store, plantID string, submittedAt time.Time, amount string, unit domain.CurrencyUnit, period domain.ReportingPeriod) *domain.Submission {
	t.Helper()
	subID, err := id.Generate("bp")
	require.NoError(t, err)

	sub := &domain.Submission{
		ID:          subID,
		PlantID:     plantID,
		Title:       "Practice " + subID,
		Status:      domain.StatusSubmitted,
		SubmittedAt: &submittedAt,
		CreatedAt:   submittedAt,
		UpdatedAt:   submittedAt,
	}
	if amount != "" {
		amt := decimal.RequireFromString(amount)
		sub.SavingsAmount = &amt
		sub.SavingsUnit = &unit
		sub.SavingsPeriod = &period
	}
	require.NoError(t, st.CreateSubmission(context.Background(), sub))
	return sub
}

func monthStart(year, month int) time.Time {
	return time.Date(year, time.Month(month), 10, 12, 0, 0, 0, time.UTC)
}

// fixedScoring returns a scoring service whose clock is pinned so
// forward recalculation covers a known range of months.
func fixedScoring(st store.Store, now time.Time) *ScoringService {
	svc := NewScoringService(st, testLogger())
	svc.now = func() time.Time { return now }
	return svc
}

func TestRecalculateMonthFromSubmissions(t *testing.T) {
	st := newTestStore(t)
	seedPlant(t, st, "plant-1", "PUN01")
	svc := fixedScoring(st, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	march := monthStart(2025, 3)
	// 2 crores annually normalizes to 200 lakhs / 12 per month.
	seedPractice(t, st, "plant-1", march, "2", domain.UnitCrores, domain.PeriodAnnually)
	// 3 lakhs monthly contributes as-is.
	seedPractice(t, st, "plant-1", march, "3", domain.UnitLakhs, domain.PeriodMonthly)
	// No savings data: counts as a practice, contributes zero.
	seedPractice(t, st, "plant-1", march, "", "", "")
	// Drafts never count.
	draft := &domain.Submission{
		ID:        "bp-draft",
		PlantID:   "plant-1",
		Title:     "Draft",
		Status:    domain.StatusDraft,
		CreatedAt: march,
		UpdatedAt: march,
	}
	require.NoError(t, st.CreateSubmission(ctx, draft))

	agg, err := svc.RecalculateMonth(ctx, "plant-1", 2025, 3)
	require.NoError(t, err)

	expected := decimal.NewFromInt(200).Div(decimal.NewFromInt(12)).Add(decimal.NewFromInt(3))
	assert.True(t, agg.TotalSavings.Sub(expected).Abs().LessThan(decimal.RequireFromString("0.0001")),
		"total = %s, want ~%s", agg.TotalSavings, expected)
	assert.Equal(t, 3, agg.PracticeCount)
	// Monthly ~19.67 clears the top band, but YTD ~19.67 only reaches
	// the first: the rating is the lower of the two.
	assert.Equal(t, 1, agg.Stars)

	stored, err := st.GetMonthlyAggregate(ctx, "plant-1", 2025, 3)
	require.NoError(t, err)
	assert.True(t, stored.TotalSavings.Equal(agg.TotalSavings))
	assert.Equal(t, agg.Stars, stored.Stars)
}

func TestRecalculateMonthIdempotent(t *testing.T) {
	st := newTestStore(t)
	seedPlant(t, st, "plant-1", "PUN01")
	svc := fixedScoring(st, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	seedPractice(t, st, "plant-1", monthStart(2025, 5), "12", domain.UnitLakhs, domain.PeriodMonthly)

	first, err := svc.RecalculateMonth(ctx, "plant-1", 2025, 5)
	require.NoError(t, err)
	second, err := svc.RecalculateMonth(ctx, "plant-1", 2025, 5)
	require.NoError(t, err)

	assert.True(t, first.TotalSavings.Equal(second.TotalSavings))
	assert.Equal(t, first.PracticeCount, second.PracticeCount)
	assert.Equal(t, first.Stars, second.Stars)
}

func TestRecalculateMonthZeroIsValid(t *testing.T) {
	st := newTestStore(t)
	seedPlant(t, st, "plant-1", "PUN01")
	svc := fixedScoring(st, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	agg, err := svc.RecalculateMonth(ctx, "plant-1", 2025, 7)
	require.NoError(t, err)
	assert.True(t, agg.TotalSavings.IsZero())
	assert.Equal(t, 0, agg.PracticeCount)
	assert.Equal(t, 0, agg.Stars)
}

func TestRecalculateForwardAccumulatesYTD(t *testing.T) {
	st := newTestStore(t)
	seedPlant(t, st, "plant-1", "PUN01")
	svc := fixedScoring(st, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	seedPractice(t, st, "plant-1", monthStart(2025, 1), "5", domain.UnitLakhs, domain.PeriodMonthly)
	seedPractice(t, st, "plant-1", monthStart(2025, 2), "6", domain.UnitLakhs, domain.PeriodMonthly)
	seedPractice(t, st, "plant-1", monthStart(2025, 3), "13", domain.UnitLakhs, domain.PeriodMonthly)

	require.NoError(t, svc.RecalculateForward(ctx, "plant-1", 2025, 1))

	// January: monthly 5 clears one band but YTD 5 is below the floor.
	jan, err := st.GetMonthlyAggregate(ctx, "plant-1", 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, jan.Stars)

	// February: monthly 6, YTD 11 clears the floor.
	feb, err := st.GetMonthlyAggregate(ctx, "plant-1", 2025, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, feb.Stars)

	// March: monthly 13 reaches the fourth band, YTD 24 still caps it.
	mar, err := st.GetMonthlyAggregate(ctx, "plant-1", 2025, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, mar.Stars)

	// A quiet month after the anchor still gets a zero row.
	apr, err := st.GetMonthlyAggregate(ctx, "plant-1", 2025, 4)
	require.NoError(t, err)
	assert.True(t, apr.TotalSavings.IsZero())
}

func TestRecalculateForwardReflectsEdits(t *testing.T) {
	st := newTestStore(t)
	seedPlant(t, st, "plant-1", "PUN01")
	svc := fixedScoring(st, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	seedPractice(t, st, "plant-1", monthStart(2025, 1), "5", domain.UnitLakhs, domain.PeriodMonthly)
	seedPractice(t, st, "plant-1", monthStart(2025, 2), "6", domain.UnitLakhs, domain.PeriodMonthly)
	require.NoError(t, svc.RecalculateForward(ctx, "plant-1", 2025, 1))

	// A late January submission changes February's YTD and rating too.
	seedPractice(t, st, "plant-1", monthStart(2025, 1), "100", domain.UnitLakhs, domain.PeriodMonthly)
	require.NoError(t, svc.RecalculateForward(ctx, "plant-1", 2025, 1))

	jan, err := st.GetMonthlyAggregate(ctx, "plant-1", 2025, 1)
	require.NoError(t, err)
	assert.True(t, jan.TotalSavings.Equal(decimal.NewFromInt(105)))
	// Monthly 105 maxes out; YTD 105 reaches the third band.
	assert.Equal(t, 3, jan.Stars)

	feb, err := st.GetMonthlyAggregate(ctx, "plant-1", 2025, 2)
	require.NoError(t, err)
	// February's own 6 lakhs is unchanged but YTD 111 now clears the
	// third band; monthly still caps the rating at 2.
	assert.Equal(t, 2, feb.Stars)
}

func TestRecalculateForwardStopsAtCurrentMonth(t *testing.T) {
	st := newTestStore(t)
	seedPlant(t, st, "plant-1", "PUN01")
	svc := fixedScoring(st, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	seedPractice(t, st, "plant-1", monthStart(2025, 1), "5", domain.UnitLakhs, domain.PeriodMonthly)
	require.NoError(t, svc.RecalculateForward(ctx, "plant-1", 2025, 1))

	_, err := st.GetMonthlyAggregate(ctx, "plant-1", 2025, 3)
	require.NoError(t, err)
	_, err = st.GetMonthlyAggregate(ctx, "plant-1", 2025, 4)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRecalculateForwardFutureYearIsNoop(t *testing.T) {
	st := newTestStore(t)
	seedPlant(t, st, "plant-1", "PUN01")
	svc := fixedScoring(st, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	require.NoError(t, svc.RecalculateForward(ctx, "plant-1", 2026, 1))

	_, err := st.GetMonthlyAggregate(ctx, "plant-1", 2026, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestComputeYTDSumsThroughMonth(t *testing.T) {
	st := newTestStore(t)
	seedPlant(t, st, "plant-1", "PUN01")
	svc := fixedScoring(st, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for m := 1; m <= 4; m++ {
		seedPractice(t, st, "plant-1", monthStart(2025, m), "10", domain.UnitLakhs, domain.PeriodMonthly)
	}
	require.NoError(t, svc.RecalculateForward(ctx, "plant-1", 2025, 1))

	ytd, err := svc.ComputeYTD(ctx, "plant-1", 2025, 3)
	require.NoError(t, err)
	assert.True(t, ytd.Equal(decimal.NewFromInt(30)), "ytd = %s", ytd)
}

func TestGetMonthlyAggregateMissingMonthIsZero(t *testing.T) {
	st := newTestStore(t)
	seedPlant(t, st, "plant-1", "PUN01")
	svc := fixedScoring(st, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))

	agg, err := svc.GetMonthlyAggregate(context.Background(), "plant-1", 2025, 9)
	require.NoError(t, err)
	assert.True(t, agg.TotalSavings.IsZero())
	assert.Equal(t, 0, agg.Stars)
	assert.Equal(t, 9, agg.Month)
}

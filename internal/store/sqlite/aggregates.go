package sqlite

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
	"github.com/kaizenhub/kaizenhub-server/internal/store"
)

// aggregateColumns is the ordered list of columns selected in aggregate
// queries. Must match the scan order in scanAggregate.
const aggregateColumns = `plant_id, year, month, total_savings, practice_count, stars, updated_at`

// scanAggregate scans a sql.Row (or sql.Rows via its Scan method) into
// a domain.MonthlyAggregate.
func scanAggregate(scanner interface{ Scan(dest ...any) error }) (*domain.MonthlyAggregate, error) {
	var agg domain.MonthlyAggregate

	var (
		totalSavings string
		updatedAt    string
	)

	err := scanner.Scan(
		&agg.PlantID,
		&agg.Year,
		&agg.Month,
		&totalSavings,
		&agg.PracticeCount,
		&agg.Stars,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	agg.TotalSavings, err = decimal.NewFromString(totalSavings)
	if err != nil {
		return nil, err
	}
	agg.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &agg, nil
}

// UpsertMonthlyAggregate inserts or overwrites the aggregate row for the
// plant and month. Recalculation always writes the full row; there is no
// partial update path.
func (s *Store) UpsertMonthlyAggregate(ctx context.Context, agg *domain.MonthlyAggregate) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO monthly_aggregates (
			plant_id, year, month, total_savings, practice_count, stars, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (plant_id, year, month) DO UPDATE SET
			total_savings = excluded.total_savings,
			practice_count = excluded.practice_count,
			stars = excluded.stars,
			updated_at = excluded.updated_at`,
		agg.PlantID,
		agg.Year,
		agg.Month,
		agg.TotalSavings.String(),
		agg.PracticeCount,
		agg.Stars,
		formatTime(agg.UpdatedAt),
	)
	return err
}

// GetMonthlyAggregate retrieves the aggregate for one plant and month.
// Returns store.ErrNotFound if no aggregate has been computed yet.
func (s *Store) GetMonthlyAggregate(ctx context.Context, plantID string, year, month int) (*domain.MonthlyAggregate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+aggregateColumns+` FROM monthly_aggregates
		WHERE plant_id = ? AND year = ? AND month = ?`,
		plantID, year, month)

	agg, err := scanAggregate(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return agg, nil
}

// ListMonthlyAggregates returns all aggregates for a plant and year in
// month order.
func (s *Store) ListMonthlyAggregates(ctx context.Context, plantID string, year int) ([]*domain.MonthlyAggregate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+aggregateColumns+` FROM monthly_aggregates
		WHERE plant_id = ? AND year = ?
		ORDER BY month ASC`, plantID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAggregates(rows)
}

// ListAggregatesForMonth returns every plant's aggregate for one month.
func (s *Store) ListAggregatesForMonth(ctx context.Context, year, month int) ([]*domain.MonthlyAggregate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+aggregateColumns+` FROM monthly_aggregates
		WHERE year = ? AND month = ?
		ORDER BY plant_id ASC`, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAggregates(rows)
}

// collectAggregates drains a result set into a slice.
func collectAggregates(rows *sql.Rows) ([]*domain.MonthlyAggregate, error) {
	var aggs []*domain.MonthlyAggregate
	for rows.Next() {
		agg, err := scanAggregate(rows)
		if err != nil {
			return nil, err
		}
		aggs = append(aggs, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return aggs, nil
}

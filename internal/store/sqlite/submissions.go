package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"strings"
	"time"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
	"github.com/kaizenhub/kaizenhub-server/internal/store"
)

// submissionColumns is the ordered list of columns selected in
// submission queries. Must match the scan order in scanSubmission.
const submissionColumns = `id, plant_id, title, problem, improvement, tags,
	savings_amount, savings_unit, savings_period,
	status, submitted_at, benchmarked, benchmarked_at, copied_from_id,
	deleted_at, created_at, updated_at`

// scanSubmission scans a sql.Row (or sql.Rows via its Scan method) into
// a domain.Submission.
func scanSubmission(scanner interface{ Scan(dest ...any) error }) (*domain.Submission, error) {
	var sub domain.Submission

	var (
		problem       sql.NullString
		improvement   sql.NullString
		tags          sql.NullString
		savingsAmount sql.NullString
		savingsUnit   sql.NullString
		savingsPeriod sql.NullString
		status        string
		submittedAt   sql.NullString
		benchmarked   int
		benchmarkedAt sql.NullString
		copiedFromID  sql.NullString
		deletedAt     sql.NullString
		createdAt     string
		updatedAt     string
	)

	err := scanner.Scan(
		&sub.ID,
		&sub.PlantID,
		&sub.Title,
		&problem,
		&improvement,
		&tags,
		&savingsAmount,
		&savingsUnit,
		&savingsPeriod,
		&status,
		&submittedAt,
		&benchmarked,
		&benchmarkedAt,
		&copiedFromID,
		&deletedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if problem.Valid {
		sub.Problem = problem.String
	}
	if improvement.Valid {
		sub.Improvement = improvement.String
	}
	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &sub.Tags); err != nil {
			return nil, err
		}
	}

	sub.SavingsAmount, err = parseNullableDecimal(savingsAmount)
	if err != nil {
		return nil, err
	}
	if savingsUnit.Valid {
		u := domain.CurrencyUnit(savingsUnit.String)
		sub.SavingsUnit = &u
	}
	if savingsPeriod.Valid {
		p := domain.ReportingPeriod(savingsPeriod.String)
		sub.SavingsPeriod = &p
	}

	sub.Status = domain.SubmissionStatus(status)
	sub.SubmittedAt, err = parseNullableTime(submittedAt)
	if err != nil {
		return nil, err
	}

	sub.Benchmarked = benchmarked != 0
	sub.BenchmarkedAt, err = parseNullableTime(benchmarkedAt)
	if err != nil {
		return nil, err
	}

	if copiedFromID.Valid {
		sub.CopiedFromID = &copiedFromID.String
	}

	sub.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}
	sub.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	sub.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &sub, nil
}

// marshalTags serializes a tag list to its JSON storage form.
func marshalTags(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// savingsUnitString returns the storage form of an optional currency unit.
func savingsUnitString(u *domain.CurrencyUnit) sql.NullString {
	if u == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*u), Valid: true}
}

// savingsPeriodString returns the storage form of an optional reporting period.
func savingsPeriodString(p *domain.ReportingPeriod) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*p), Valid: true}
}

// CreateSubmission inserts a new submission.
// Returns store.ErrAlreadyExists if the submission ID already exists.
func (s *Store) CreateSubmission(ctx context.Context, sub *domain.Submission) error {
	tags, err := marshalTags(sub.Tags)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO submissions (
			id, plant_id, title, problem, improvement, tags,
			savings_amount, savings_unit, savings_period,
			status, submitted_at, benchmarked, benchmarked_at, copied_from_id,
			deleted_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID,
		sub.PlantID,
		sub.Title,
		nullString(sub.Problem),
		nullString(sub.Improvement),
		tags,
		nullDecimalString(sub.SavingsAmount),
		savingsUnitString(sub.SavingsUnit),
		savingsPeriodString(sub.SavingsPeriod),
		string(sub.Status),
		nullTimeString(sub.SubmittedAt),
		boolToInt(sub.Benchmarked),
		nullTimeString(sub.BenchmarkedAt),
		nullableString(sub.CopiedFromID),
		nullTimeString(sub.DeletedAt),
		formatTime(sub.CreatedAt),
		formatTime(sub.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetSubmission retrieves a submission by ID, excluding soft-deleted records.
// Returns store.ErrNotFound if the submission does not exist.
func (s *Store) GetSubmission(ctx context.Context, id string) (*domain.Submission, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = ? AND deleted_at IS NULL`, id)

	sub, err := scanSubmission(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// UpdateSubmission performs a full row update on an existing submission.
// Returns store.ErrNotFound if the submission does not exist or is soft-deleted.
func (s *Store) UpdateSubmission(ctx context.Context, sub *domain.Submission) error {
	tags, err := marshalTags(sub.Tags)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE submissions SET
			plant_id = ?,
			title = ?,
			problem = ?,
			improvement = ?,
			tags = ?,
			savings_amount = ?,
			savings_unit = ?,
			savings_period = ?,
			status = ?,
			submitted_at = ?,
			benchmarked = ?,
			benchmarked_at = ?,
			copied_from_id = ?,
			created_at = ?,
			updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		sub.PlantID,
		sub.Title,
		nullString(sub.Problem),
		nullString(sub.Improvement),
		tags,
		nullDecimalString(sub.SavingsAmount),
		savingsUnitString(sub.SavingsUnit),
		savingsPeriodString(sub.SavingsPeriod),
		string(sub.Status),
		nullTimeString(sub.SubmittedAt),
		boolToInt(sub.Benchmarked),
		nullTimeString(sub.BenchmarkedAt),
		nullableString(sub.CopiedFromID),
		formatTime(sub.CreatedAt),
		formatTime(sub.UpdatedAt),
		sub.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteSubmission performs a soft delete by setting deleted_at.
// Returns store.ErrNotFound if the submission does not exist or is
// already deleted.
func (s *Store) DeleteSubmission(ctx context.Context, id string) error {
	now := formatTime(time.Now())

	result, err := s.db.ExecContext(ctx, `
		UPDATE submissions SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		now, now, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListSubmissionsByPlant returns all non-deleted submissions for a plant,
// newest first.
func (s *Store) ListSubmissionsByPlant(ctx context.Context, plantID string) ([]*domain.Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		WHERE plant_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC`, plantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSubmissions(rows)
}

// ListBenchmarkedSubmissions returns all non-deleted benchmarked
// submissions, newest benchmark first.
func (s *Store) ListBenchmarkedSubmissions(ctx context.Context) ([]*domain.Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		WHERE benchmarked = 1 AND deleted_at IS NULL
		ORDER BY benchmarked_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSubmissions(rows)
}

// ListAllSubmissions returns every non-deleted submission. Used for
// rebuilding the search index.
func (s *Store) ListAllSubmissions(ctx context.Context) ([]*domain.Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		WHERE deleted_at IS NULL
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSubmissions(rows)
}

// ListQualifyingSubmissions returns the submissions that count toward a
// plant's aggregate for the given month: submitted or approved, not
// soft-deleted, anchored by submitted_at to the month.
func (s *Store) ListQualifyingSubmissions(ctx context.Context, plantID string, year, month int) ([]*domain.Submission, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		WHERE plant_id = ?
		  AND deleted_at IS NULL
		  AND status IN (?, ?)
		  AND submitted_at IS NOT NULL
		  AND submitted_at >= ? AND submitted_at < ?
		ORDER BY submitted_at ASC`,
		plantID,
		string(domain.StatusSubmitted),
		string(domain.StatusApproved),
		formatTime(start),
		formatTime(end),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSubmissions(rows)
}

// collectSubmissions drains a result set into a slice.
func collectSubmissions(rows *sql.Rows) ([]*domain.Submission, error) {
	var subs []*domain.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return subs, nil
}

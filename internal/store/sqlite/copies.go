package sqlite

import (
	"context"
	"strings"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
	"github.com/kaizenhub/kaizenhub-server/internal/store"
)

// copyColumns is the ordered list of columns selected in copy record
// queries. Must match the scan order in scanCopyRecord.
const copyColumns = `id, origin_submission_id, copying_plant_id, copied_by_user_id, copied_at`

// scanCopyRecord scans a sql.Row (or sql.Rows via its Scan method) into
// a domain.CopyRecord.
func scanCopyRecord(scanner interface{ Scan(dest ...any) error }) (*domain.CopyRecord, error) {
	var rec domain.CopyRecord

	var copiedAt string

	err := scanner.Scan(
		&rec.ID,
		&rec.OriginSubmissionID,
		&rec.CopyingPlantID,
		&rec.CopiedByUserID,
		&copiedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.CopiedAt, err = parseTime(copiedAt)
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// CreateCopyRecord inserts a copy record.
// Returns store.ErrAlreadyExists if the plant has already copied this
// origin practice; the (origin, plant) pair is unique.
func (s *Store) CreateCopyRecord(ctx context.Context, rec *domain.CopyRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO copy_records (
			id, origin_submission_id, copying_plant_id, copied_by_user_id, copied_at
		) VALUES (?, ?, ?, ?, ?)`,
		rec.ID,
		rec.OriginSubmissionID,
		rec.CopyingPlantID,
		rec.CopiedByUserID,
		formatTime(rec.CopiedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// DeleteCopyRecord removes a copy record. Used to undo an insert whose
// follow-up work failed; missing records are not an error.
func (s *Store) DeleteCopyRecord(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM copy_records WHERE id = ?`, id)
	return err
}

// CountCopiesOfOrigin returns how many plants have copied the origin
// practice.
func (s *Store) CountCopiesOfOrigin(ctx context.Context, originSubmissionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM copy_records WHERE origin_submission_id = ?`,
		originSubmissionID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ListCopiesByPlant returns the copy records made by a plant, newest first.
func (s *Store) ListCopiesByPlant(ctx context.Context, plantID string) ([]*domain.CopyRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+copyColumns+` FROM copy_records
		WHERE copying_plant_id = ?
		ORDER BY copied_at DESC`, plantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*domain.CopyRecord
	for rows.Next() {
		rec, err := scanCopyRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

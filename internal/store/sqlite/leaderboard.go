package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
	"github.com/kaizenhub/kaizenhub-server/internal/store"
)

// leaderboardColumns is the ordered list of columns selected in
// leaderboard queries. Must match the scan order in scanLeaderboardEntry.
const leaderboardColumns = `plant_id, year, origin_points, copier_points, total_points, updated_at`

// scanLeaderboardEntry scans a sql.Row (or sql.Rows via its Scan method)
// into a domain.LeaderboardEntry.
func scanLeaderboardEntry(scanner interface{ Scan(dest ...any) error }) (*domain.LeaderboardEntry, error) {
	var e domain.LeaderboardEntry

	var updatedAt string

	err := scanner.Scan(
		&e.PlantID,
		&e.Year,
		&e.OriginPoints,
		&e.CopierPoints,
		&e.TotalPoints,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// AddLeaderboardPoints atomically adds point deltas to a plant's entry
// for the year, creating the row on first award. total_points is
// maintained in the same statement so it can never drift from the sum
// of its parts.
func (s *Store) AddLeaderboardPoints(ctx context.Context, plantID string, year, originDelta, copierDelta int, now time.Time) error {
	return addLeaderboardPoints(ctx, s.db, plantID, year, originDelta, copierDelta, now)
}

// AddCopyAwardPoints credits both sides of a copy in one transaction:
// copier points to the copying plant, origin points (zero after the
// first copy) to the origin plant. Either both rows land or neither
// does, so a failure leaves no half-recorded award behind.
func (s *Store) AddCopyAwardPoints(ctx context.Context, originPlantID, copyingPlantID string, year, originDelta, copierDelta int, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := addLeaderboardPoints(ctx, tx, copyingPlantID, year, 0, copierDelta, now); err != nil {
		return err
	}
	if originDelta > 0 {
		if err := addLeaderboardPoints(ctx, tx, originPlantID, year, originDelta, 0, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func addLeaderboardPoints(ctx context.Context, db execer, plantID string, year, originDelta, copierDelta int, now time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO leaderboard_entries (
			plant_id, year, origin_points, copier_points, total_points, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (plant_id, year) DO UPDATE SET
			origin_points = origin_points + excluded.origin_points,
			copier_points = copier_points + excluded.copier_points,
			total_points = total_points + excluded.total_points,
			updated_at = excluded.updated_at`,
		plantID,
		year,
		originDelta,
		copierDelta,
		originDelta+copierDelta,
		formatTime(now),
	)
	return err
}

// GetLeaderboardEntry retrieves one plant's entry for a year.
// Returns store.ErrNotFound if the plant has earned no points that year.
func (s *Store) GetLeaderboardEntry(ctx context.Context, plantID string, year int) (*domain.LeaderboardEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+leaderboardColumns+` FROM leaderboard_entries
		WHERE plant_id = ? AND year = ?`, plantID, year)

	e, err := scanLeaderboardEntry(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListLeaderboardEntries returns all entries for a year, highest total
// first with plant ID as a stable tiebreak.
func (s *Store) ListLeaderboardEntries(ctx context.Context, year int) ([]*domain.LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+leaderboardColumns+` FROM leaderboard_entries
		WHERE year = ?
		ORDER BY total_points DESC, plant_id ASC`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.LeaderboardEntry
	for rows.Next() {
		e, err := scanLeaderboardEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

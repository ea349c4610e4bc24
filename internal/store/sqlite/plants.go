package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
	"github.com/kaizenhub/kaizenhub-server/internal/store"
)

// plantColumns is the ordered list of columns selected in plant queries.
// Must match the scan order in scanPlant.
const plantColumns = `id, code, name, location, created_at, updated_at`

// scanPlant scans a sql.Row (or sql.Rows via its Scan method) into a domain.Plant.
func scanPlant(scanner interface{ Scan(dest ...any) error }) (*domain.Plant, error) {
	var p domain.Plant

	var (
		location  sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&p.ID,
		&p.Code,
		&p.Name,
		&location,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if location.Valid {
		p.Location = location.String
	}

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// CreatePlant inserts a new plant.
// Returns store.ErrAlreadyExists if the plant ID or code already exists.
func (s *Store) CreatePlant(ctx context.Context, plant *domain.Plant) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plants (id, code, name, location, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		plant.ID,
		plant.Code,
		plant.Name,
		nullString(plant.Location),
		formatTime(plant.CreatedAt),
		formatTime(plant.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetPlant retrieves a plant by ID.
// Returns store.ErrNotFound if the plant does not exist.
func (s *Store) GetPlant(ctx context.Context, id string) (*domain.Plant, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+plantColumns+` FROM plants WHERE id = ?`, id)

	p, err := scanPlant(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetPlantByCode retrieves a plant by its short code.
// Returns store.ErrNotFound if the plant does not exist.
func (s *Store) GetPlantByCode(ctx context.Context, code string) (*domain.Plant, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+plantColumns+` FROM plants WHERE code = ?`, code)

	p, err := scanPlant(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePlant performs a full row update on an existing plant.
// Returns store.ErrNotFound if the plant does not exist.
func (s *Store) UpdatePlant(ctx context.Context, plant *domain.Plant) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE plants SET
			code = ?,
			name = ?,
			location = ?,
			created_at = ?,
			updated_at = ?
		WHERE id = ?`,
		plant.Code,
		plant.Name,
		nullString(plant.Location),
		formatTime(plant.CreatedAt),
		formatTime(plant.UpdatedAt),
		plant.ID,
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

// ListPlants returns all plants ordered by code.
func (s *Store) ListPlants(ctx context.Context) ([]*domain.Plant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+plantColumns+` FROM plants ORDER BY code ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plants []*domain.Plant
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, err
		}
		plants = append(plants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return plants, nil
}

package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// makeTestPlant inserts a plant so FK constraints are satisfied.
func makeTestPlant(t *testing.T, s *Store, id, code string) *domain.Plant {
	t.Helper()
	now := time.Now()
	plant := &domain.Plant{
		ID:        id,
		Code:      code,
		Name:      "Plant " + code,
		Location:  "Pune",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreatePlant(context.Background(), plant); err != nil {
		t.Fatalf("makeTestPlant(%s): %v", id, err)
	}
	return plant
}

// makeTestUser inserts a member user belonging to the given plant.
func makeTestUser(t *testing.T, s *Store, id, plantID string) *domain.User {
	t.Helper()
	now := time.Now()
	user := &domain.User{
		ID:           id,
		Email:        id + "@example.com",
		PasswordHash: "$argon2id$fakehash",
		DisplayName:  "User " + id,
		Role:         domain.RoleMember,
		PlantID:      plantID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("makeTestUser(%s): %v", id, err)
	}
	return user
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	// Verify WAL mode is set.
	var journalMode string
	err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	// Verify foreign keys are enabled.
	var fk int
	err = s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	// Verify tables exist.
	tables := []string{
		"plants", "users", "sessions", "submissions",
		"monthly_aggregates", "leaderboard_entries", "copy_records",
	}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpenClose(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// Re-open should work (schema is idempotent).
	s2, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("re-open store: %v", err)
	}
	defer s2.Close()
}

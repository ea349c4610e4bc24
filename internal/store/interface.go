// Package store defines the persistence interface for the KaizenHub server.
package store

import (
	"context"
	"time"

	"github.com/kaizenhub/kaizenhub-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error
	SetSearchIndexer(indexer SearchIndexer)

	// Plants
	CreatePlant(ctx context.Context, plant *domain.Plant) error
	GetPlant(ctx context.Context, id string) (*domain.Plant, error)
	GetPlantByCode(ctx context.Context, code string) (*domain.Plant, error)
	UpdatePlant(ctx context.Context, plant *domain.Plant) error
	ListPlants(ctx context.Context) ([]*domain.Plant, error)

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CountUsers(ctx context.Context) (int, error)

	// Auth Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Submissions
	CreateSubmission(ctx context.Context, sub *domain.Submission) error
	GetSubmission(ctx context.Context, id string) (*domain.Submission, error)
	UpdateSubmission(ctx context.Context, sub *domain.Submission) error
	DeleteSubmission(ctx context.Context, id string) error
	ListSubmissionsByPlant(ctx context.Context, plantID string) ([]*domain.Submission, error)
	ListBenchmarkedSubmissions(ctx context.Context) ([]*domain.Submission, error)
	ListAllSubmissions(ctx context.Context) ([]*domain.Submission, error)
	// ListQualifyingSubmissions returns the submissions anchored to the
	// given plant and month that count toward aggregation: submitted or
	// approved, not soft-deleted, submitted_at within the month.
	ListQualifyingSubmissions(ctx context.Context, plantID string, year, month int) ([]*domain.Submission, error)

	// Monthly Aggregates
	UpsertMonthlyAggregate(ctx context.Context, agg *domain.MonthlyAggregate) error
	GetMonthlyAggregate(ctx context.Context, plantID string, year, month int) (*domain.MonthlyAggregate, error)
	ListMonthlyAggregates(ctx context.Context, plantID string, year int) ([]*domain.MonthlyAggregate, error)
	ListAggregatesForMonth(ctx context.Context, year, month int) ([]*domain.MonthlyAggregate, error)

	// Leaderboard
	AddLeaderboardPoints(ctx context.Context, plantID string, year, originDelta, copierDelta int, now time.Time) error
	// AddCopyAwardPoints credits both plants of a copy action
	// atomically; a failure records neither side.
	AddCopyAwardPoints(ctx context.Context, originPlantID, copyingPlantID string, year, originDelta, copierDelta int, now time.Time) error
	GetLeaderboardEntry(ctx context.Context, plantID string, year int) (*domain.LeaderboardEntry, error)
	ListLeaderboardEntries(ctx context.Context, year int) ([]*domain.LeaderboardEntry, error)

	// Copy Records
	CreateCopyRecord(ctx context.Context, rec *domain.CopyRecord) error
	DeleteCopyRecord(ctx context.Context, id string) error
	CountCopiesOfOrigin(ctx context.Context, originSubmissionID string) (int, error)
	ListCopiesByPlant(ctx context.Context, plantID string) ([]*domain.CopyRecord, error)
}

// SearchIndexer is the interface for updating the practice search index.
type SearchIndexer interface {
	IndexSubmission(ctx context.Context, sub *domain.Submission) error
	DeleteSubmission(ctx context.Context, submissionID string) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

func (NoopSearchIndexer) IndexSubmission(context.Context, *domain.Submission) error { return nil }
func (NoopSearchIndexer) DeleteSubmission(context.Context, string) error            { return nil }

// NewNoopSearchIndexer creates a new no-op search indexer for testing.
func NewNoopSearchIndexer() SearchIndexer { return NoopSearchIndexer{} }

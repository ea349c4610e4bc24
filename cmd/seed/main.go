// Package main provides a tool to seed the database with test plant data.
//
// This creates a handful of plants, users, and best practice submissions
// spread over recent months, then recalculates the savings aggregates so
// reports and the leaderboard have something to show.
//
// Usage:
//
//	DATA_PATH=~/kaizenhub go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kaizenhub/kaizenhub-server/internal/auth"
	"github.com/kaizenhub/kaizenhub-server/internal/domain"
	"github.com/kaizenhub/kaizenhub-server/internal/id"
	"github.com/kaizenhub/kaizenhub-server/internal/service"
	"github.com/kaizenhub/kaizenhub-server/internal/store/sqlite"
)

var seedPlants = []struct {
	code     string
	name     string
	location string
}{
	{"PUN01", "Pune Plant", "Pune, Maharashtra"},
	{"CHN01", "Chennai Plant", "Chennai, Tamil Nadu"},
	{"NSK01", "Nashik Plant", "Nashik, Maharashtra"},
	{"HRD01", "Haridwar Plant", "Haridwar, Uttarakhand"},
}

var seedTitles = []string{
	"Compressed air leak audit",
	"Furnace insulation upgrade",
	"Coolant recycling loop",
	"LED retrofit on shop floor",
	"Conveyor motor VFD installation",
	"Steam trap replacement program",
	"Paint booth airflow tuning",
	"Scrap segregation at source",
}

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/kaizenhub")
	}

	if err := os.MkdirAll(dataPath, 0o750); err != nil {
		fatal("create data dir: %v", err)
	}

	dbPath := filepath.Join(dataPath, "kaizenhub.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	st, err := sqlite.Open(dbPath, logger)
	if err != nil {
		fatal("open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC()

	// Plants
	plants := make([]*domain.Plant, 0, len(seedPlants))
	for _, p := range seedPlants {
		if existing, err := st.GetPlantByCode(ctx, p.code); err == nil {
			fmt.Printf("Plant %s already exists, reusing\n", p.code)
			plants = append(plants, existing)
			continue
		}

		plant := &domain.Plant{
			ID:        id.MustGenerate("plant"),
			Code:      p.code,
			Name:      p.name,
			Location:  p.location,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := st.CreatePlant(ctx, plant); err != nil {
			fatal("create plant %s: %v", p.code, err)
		}
		fmt.Printf("Created plant: %s (%s)\n", p.name, p.code)
		plants = append(plants, plant)
	}

	// Users: one HQ account plus a member per plant
	passwordHash, err := auth.HashPassword("testpass123")
	if err != nil {
		fatal("hash password: %v", err)
	}

	createUser(ctx, st, &domain.User{
		ID:           id.MustGenerate("user"),
		Email:        "hq@example.com",
		PasswordHash: passwordHash,
		DisplayName:  "HQ Admin",
		Role:         domain.RoleHQ,
		CreatedAt:    now,
		UpdatedAt:    now,
	})

	members := make(map[string]*domain.User, len(plants))
	for i, plant := range plants {
		user := &domain.User{
			ID:           id.MustGenerate("user"),
			Email:        fmt.Sprintf("member%d@example.com", i+1),
			PasswordHash: passwordHash,
			DisplayName:  fmt.Sprintf("%s Member", plant.Code),
			Role:         domain.RoleMember,
			PlantID:      plant.ID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		createUser(ctx, st, user)
		members[plant.ID] = user
	}

	// Submissions spread over the past six months, some with savings,
	// some without, a few left as drafts.
	var benchmarked []*domain.Submission
	for _, plant := range plants {
		created := 0
		for monthsAgo := 5; monthsAgo >= 0; monthsAgo-- {
			perMonth := 1 + rng.Intn(3)
			for range perMonth {
				sub := buildSubmission(rng, plant.ID, now, monthsAgo)
				if err := st.CreateSubmission(ctx, sub); err != nil {
					fatal("create submission: %v", err)
				}
				created++
				if sub.Benchmarked {
					benchmarked = append(benchmarked, sub)
				}
			}
		}
		fmt.Printf("Created %d submissions for %s\n", created, plant.Code)
	}

	// Copy a few benchmarked practices across plants to populate the
	// leaderboard.
	leaderboard := service.NewLeaderboardService(st, logger)
	copies := 0
	for _, origin := range benchmarked {
		for _, plant := range plants {
			if plant.ID == origin.PlantID || rng.Float32() > 0.4 {
				continue
			}

			rec := &domain.CopyRecord{
				ID:                 id.MustGenerate("copy"),
				OriginSubmissionID: origin.ID,
				CopyingPlantID:     plant.ID,
				CopiedByUserID:     members[plant.ID].ID,
				CopiedAt:           now,
			}
			if err := st.CreateCopyRecord(ctx, rec); err != nil {
				continue
			}

			count, err := st.CountCopiesOfOrigin(ctx, origin.ID)
			if err != nil {
				fatal("count copies: %v", err)
			}
			if err := leaderboard.AwardCopyPoints(ctx, origin.PlantID, plant.ID, count == 1, now.Year(), now); err != nil {
				fatal("award copy points: %v", err)
			}
			copies++
		}
	}
	fmt.Printf("Created %d copy records\n", copies)

	// Recalculate aggregates from the earliest seeded month forward
	scoring := service.NewScoringService(st, logger)
	start := now.AddDate(0, -5, 0)
	for _, plant := range plants {
		if err := scoring.RecalculateForward(ctx, plant.ID, start.Year(), int(start.Month())); err != nil {
			fatal("recalculate %s: %v", plant.Code, err)
		}
		if start.Year() != now.Year() {
			if err := scoring.RecalculateForward(ctx, plant.ID, now.Year(), 1); err != nil {
				fatal("recalculate %s: %v", plant.Code, err)
			}
		}
	}
	fmt.Println("Aggregates recalculated")

	fmt.Println("\nSeeding complete!")
	fmt.Println("HQ login: hq@example.com / testpass123")
}

func buildSubmission(rng *rand.Rand, plantID string, now time.Time, monthsAgo int) *domain.Submission {
	anchor := now.AddDate(0, -monthsAgo, 0)
	submittedAt := time.Date(anchor.Year(), anchor.Month(), 1+rng.Intn(27), 9+rng.Intn(8), rng.Intn(60), 0, 0, time.UTC)

	sub := &domain.Submission{
		ID:          id.MustGenerate("bp"),
		PlantID:     plantID,
		Title:       seedTitles[rng.Intn(len(seedTitles))],
		Problem:     "Recurring losses identified during the monthly energy review.",
		Improvement: "Implemented the countermeasure and standardized it in the daily checklist.",
		Tags:        []string{"energy", "cost"},
		Status:      domain.StatusSubmitted,
		SubmittedAt: &submittedAt,
		CreatedAt:   submittedAt,
		UpdatedAt:   submittedAt,
	}

	// Most practices carry savings; roughly one in five does not.
	if rng.Float32() > 0.2 {
		amount := decimal.NewFromFloat(float64(1+rng.Intn(40)) / 2.0)
		unit := domain.UnitLakhs
		period := domain.PeriodMonthly
		if rng.Float32() > 0.7 {
			period = domain.PeriodAnnually
			amount = amount.Mul(decimal.NewFromInt(12))
		}
		sub.SavingsAmount = &amount
		sub.SavingsUnit = &unit
		sub.SavingsPeriod = &period
	}

	// Older practices tend to be approved; a few are benchmarked.
	if monthsAgo > 0 {
		sub.Status = domain.StatusApproved
		if rng.Float32() > 0.6 {
			sub.Benchmarked = true
			benchmarkedAt := submittedAt.AddDate(0, 0, 7)
			sub.BenchmarkedAt = &benchmarkedAt
		}
	}

	return sub
}

func createUser(ctx context.Context, st *sqlite.Store, user *domain.User) {
	if existing, _ := st.GetUserByEmail(ctx, user.Email); existing != nil {
		fmt.Printf("User %s already exists, skipping\n", user.Email)
		return
	}
	if err := st.CreateUser(ctx, user); err != nil {
		fatal("create user %s: %v", user.Email, err)
	}
	fmt.Printf("Created user: %s (%s)\n", user.DisplayName, user.Email)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

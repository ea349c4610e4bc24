package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwardCopyPointsAdditive(t *testing.T) {
	st := newTestStore(t)
	svc := NewLeaderboardService(st, testLogger())
	ctx := context.Background()
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	seedPlant(t, st, "plant_a", "AAA01")
	seedPlant(t, st, "plant_b", "BBB01")
	seedPlant(t, st, "plant_c", "CCC01")

	// First copy pays both sides, later copies only the copier.
	require.NoError(t, svc.AwardCopyPoints(ctx, "plant_a", "plant_b", true, 2025, now))
	require.NoError(t, svc.AwardCopyPoints(ctx, "plant_a", "plant_c", false, 2025, now))
	require.NoError(t, svc.AwardCopyPoints(ctx, "plant_b", "plant_c", true, 2025, now))

	a, err := svc.PlantEntry(ctx, "plant_a", 2025)
	require.NoError(t, err)
	assert.Equal(t, 10, a.OriginPoints)
	assert.Equal(t, 0, a.CopierPoints)
	assert.Equal(t, 10, a.TotalPoints)

	b, err := svc.PlantEntry(ctx, "plant_b", 2025)
	require.NoError(t, err)
	assert.Equal(t, 10, b.OriginPoints)
	assert.Equal(t, 5, b.CopierPoints)
	assert.Equal(t, 15, b.TotalPoints)

	c, err := svc.PlantEntry(ctx, "plant_c", 2025)
	require.NoError(t, err)
	assert.Equal(t, 0, c.OriginPoints)
	assert.Equal(t, 10, c.CopierPoints)
	assert.Equal(t, 10, c.TotalPoints)

	// Totals always decompose into the two point streams.
	standings, err := svc.Standings(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, standings, 3)
	for _, entry := range standings {
		assert.Equal(t, entry.TotalPoints, entry.OriginPoints+entry.CopierPoints)
	}
	assert.Equal(t, "plant_b", standings[0].PlantID)
}

func TestPlantEntryMissingYearIsZero(t *testing.T) {
	st := newTestStore(t)
	svc := NewLeaderboardService(st, testLogger())

	entry, err := svc.PlantEntry(context.Background(), "plant_none", 2030)
	require.NoError(t, err)
	assert.Equal(t, 0, entry.TotalPoints)
	assert.Equal(t, 2030, entry.Year)
}

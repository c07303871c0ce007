package ledger

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/aulaeco/recicla-backend/internal/materials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopulateWritesExactlyThePolicyShape(t *testing.T) {
	cfg := testLedgerConfig()
	repo := newStubLedgerRepo()
	seeder, err := NewSeeder(repo, cfg, rand.New(rand.NewSource(42)), fixedNow)
	require.NoError(t, err)

	created, err := seeder.Populate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg.ExpectedTotal(), created)

	records, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, cfg.ExpectedTotal())

	perUser := map[uint]int{}
	for _, rec := range records {
		perUser[rec.UserID]++
		m := materials.Material(rec.Material)
		assert.True(t, m.IsEnforced(), "material %q", rec.Material)
		assert.GreaterOrEqual(t, rec.Quantity, float64(cfg.QuantityMin))
		assert.LessOrEqual(t, rec.Quantity, float64(cfg.QuantityMax))
		assert.Equal(t, float64(int(rec.Quantity)), rec.Quantity, "quantities are unit counts")
		assert.Equal(t, materials.Points(m, rec.Quantity), rec.Points)
		assert.Contains(t, materials.Catalog(m), rec.Item)
		assert.Equal(t, cfg.Center, rec.Center)
	}
	for _, userID := range cfg.SeedUserIDs {
		assert.Equal(t, cfg.PerUserCap, perUser[userID])
	}
}

func TestPopulateStaggersDatesPerUser(t *testing.T) {
	cfg := testLedgerConfig()
	repo := newStubLedgerRepo()
	seeder, err := NewSeeder(repo, cfg, rand.New(rand.NewSource(7)), fixedNow)
	require.NoError(t, err)

	_, err = seeder.Populate(context.Background())
	require.NoError(t, err)

	records, err := repo.ListAll(context.Background())
	require.NoError(t, err)

	floors := map[uint]time.Time{
		cfg.SeedUserIDs[0]: fixedNow().Add(-seedSpreads[0]),
		cfg.SeedUserIDs[1]: fixedNow().Add(-seedSpreads[1]),
		cfg.SeedUserIDs[2]: fixedNow().Add(-seedSpreads[2]),
	}
	for _, rec := range records {
		date, err := time.Parse("2006-01-02", rec.Date)
		require.NoError(t, err)
		floor := floors[rec.UserID].Truncate(24 * time.Hour)
		assert.False(t, date.Before(floor.Add(-24*time.Hour)), "user %d record dated %s before window", rec.UserID, rec.Date)
		assert.False(t, date.After(fixedNow()), "user %d record dated %s in the future", rec.UserID, rec.Date)
	}
}

func TestSeederRejectsBrokenPolicy(t *testing.T) {
	cfg := testLedgerConfig()
	cfg.PerUserCap = 0
	_, err := NewSeeder(newStubLedgerRepo(), cfg, nil, nil)
	assert.Error(t, err)
}

package ledger

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/aulaeco/recicla-backend/internal/materials"
	"github.com/aulaeco/recicla-backend/pkg/config"
	"github.com/aulaeco/recicla-backend/pkg/db/models"
	"github.com/aulaeco/recicla-backend/pkg/errors"
)

// date windows used to stagger demo records so the evolution chart has
// something to show. Seed users cycle through them in order.
var seedSpreads = []time.Duration{
	7 * 24 * time.Hour,
	30 * 24 * time.Hour,
	365 * 24 * time.Hour,
}

// Seeder populates an empty or rebuilt ledger with a deterministic shape:
// exactly PerUserCap records per seed user, enforced materials only, integer
// quantities inside the configured range.
type Seeder struct {
	repo Repository
	cfg  config.LedgerConfig
	rand *rand.Rand
	now  func() time.Time
}

// NewSeeder wires a seeder. rng and now are injectable for tests; pass nil
// to use the defaults.
func NewSeeder(repo Repository, cfg config.LedgerConfig, rng *rand.Rand, now func() time.Time) (*Seeder, error) {
	if repo == nil {
		return nil, errors.New(errors.CodeInternal, "seeder requires a repository")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Seeder{repo: repo, cfg: cfg, rand: rng, now: now}, nil
}

// Populate writes the full demo ledger and returns how many records were
// created. It does not clear existing rows; callers decide when to wipe.
func (s *Seeder) Populate(ctx context.Context) (int, error) {
	enforced := materials.Enforced()
	created := 0
	for idx, userID := range s.cfg.SeedUserIDs {
		spread := seedSpreads[idx%len(seedSpreads)]
		for i := 0; i < s.cfg.PerUserCap; i++ {
			material := enforced[s.rand.Intn(len(enforced))]
			quantity := s.cfg.QuantityMin + s.rand.Intn(s.cfg.QuantityMax-s.cfg.QuantityMin+1)
			record := models.Recycling{
				UserID:   userID,
				Material: string(material),
				Quantity: float64(quantity),
				Points:   materials.Points(material, float64(quantity)),
				Item:     s.pickItem(material),
				Date:     s.dateWithin(spread),
				Center:   s.cfg.Center,
			}
			if err := s.repo.Create(ctx, &record); err != nil {
				return created, fmt.Errorf("seed record for user %d: %w", userID, err)
			}
			created++
		}
	}
	return created, nil
}

func (s *Seeder) pickItem(m materials.Material) string {
	items := materials.Catalog(m)
	if len(items) == 0 {
		return materials.DefaultItem(m)
	}
	return items[s.rand.Intn(len(items))]
}

func (s *Seeder) dateWithin(spread time.Duration) string {
	back := time.Duration(s.rand.Int63n(int64(spread)))
	return s.now().Add(-back).UTC().Format("2006-01-02")
}

package ledger

import (
	"context"
	"math"
	"time"

	"github.com/aulaeco/recicla-backend/internal/materials"
	"github.com/aulaeco/recicla-backend/pkg/errors"
	"github.com/aulaeco/recicla-backend/pkg/logger"
	"github.com/aulaeco/recicla-backend/pkg/metrics"
)

// Rebalancer redistributes records away from an over-represented material so
// no enforced material holds more than its ceiling share of the ledger.
type Rebalancer struct {
	repo    Repository
	logg    *logger.Logger
	metrics *metrics.MaintenanceMetrics
}

// RebalanceResult summarizes one rebalance pass.
type RebalanceResult struct {
	Ceiling      int
	Moved        int
	CountsBefore map[materials.Material]int
	CountsAfter  map[materials.Material]int
}

func NewRebalancer(repo Repository, logg *logger.Logger, m *metrics.MaintenanceMetrics) (*Rebalancer, error) {
	if repo == nil {
		return nil, errors.New(errors.CodeInternal, "rebalancer requires a repository")
	}
	if logg == nil {
		return nil, errors.New(errors.CodeInternal, "rebalancer requires a logger")
	}
	return &Rebalancer{repo: repo, logg: logg, metrics: m}, nil
}

// Rebalance drains the oldest records of the source material into whichever
// enforced materials sit under the ceiling, lowest count first. Only material
// and points are rewritten; owner, quantity and date stay untouched. Running
// it again immediately is a no-op.
func (rb *Rebalancer) Rebalance(ctx context.Context, source materials.Material) (*RebalanceResult, error) {
	start := time.Now()
	result, err := rb.rebalance(ctx, source)
	rb.metrics.ObserveDuration("rebalance", time.Since(start))
	if err != nil {
		rb.metrics.IncRun("rebalance", "error")
		return nil, err
	}
	if result.Moved == 0 {
		rb.metrics.IncRun("rebalance", OutcomeNoop)
	} else {
		rb.metrics.IncRun("rebalance", OutcomeNormalize)
	}
	rb.metrics.AddReclassified(result.Moved)
	return result, nil
}

func (rb *Rebalancer) rebalance(ctx context.Context, source materials.Material) (*RebalanceResult, error) {
	source = materials.Normalize(string(source))
	if !source.IsEnforced() {
		return nil, errors.New(errors.CodeValidation, "rebalance source must be an enforced material").
			WithDetails(map[string]any{"material": string(source)})
	}

	stored, err := rb.repo.CountByMaterial(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "counting ledger by material")
	}

	enforced := materials.Enforced()
	counts := make(map[materials.Material]int, len(enforced))
	for _, m := range enforced {
		counts[m] = 0
	}
	total := 0
	for label, n := range stored {
		total += int(n)
		m := materials.Normalize(label)
		if _, ok := counts[m]; ok {
			counts[m] += int(n)
		}
	}

	ceiling := int(math.Ceil(float64(total) / float64(len(enforced))))
	result := &RebalanceResult{
		Ceiling:      ceiling,
		CountsBefore: cloneCounts(counts),
	}

	ctx = rb.logg.WithFields(ctx, map[string]any{
		"source":  string(source),
		"total":   total,
		"ceiling": ceiling,
	})

	for counts[source] > ceiling {
		target, room := rb.pickTarget(counts, source, ceiling)
		if target == "" {
			break
		}
		need := counts[source] - ceiling
		if need > room {
			need = room
		}

		batch, err := rb.repo.ListByMaterialOldest(ctx, string(source), need)
		if err != nil {
			return nil, errors.Wrap(errors.CodeDependency, err, "selecting records to reclassify")
		}
		if len(batch) == 0 {
			break
		}
		movedBefore := result.Moved
		for _, rec := range batch {
			points := materials.Points(target, rec.Quantity)
			if err := rb.repo.UpdateMaterialAndPoints(ctx, rec.ID, string(target), points); err != nil {
				rb.logg.Error(rb.logg.WithField(ctx, "record_id", rec.ID), "reclassify failed, skipping record", err)
				continue
			}
			counts[source]--
			counts[target]++
			result.Moved++
		}
		if result.Moved == movedBefore || len(batch) < need {
			break
		}
	}

	result.CountsAfter = cloneCounts(counts)
	rb.logg.Info(rb.logg.WithField(ctx, "moved", result.Moved), "rebalance pass complete")
	return result, nil
}

// pickTarget chooses the enforced material with the most headroom under the
// ceiling. Returns "" when every other material is already at capacity.
func (rb *Rebalancer) pickTarget(counts map[materials.Material]int, source materials.Material, ceiling int) (materials.Material, int) {
	var best materials.Material
	bestRoom := 0
	for _, m := range materials.Enforced() {
		if m == source {
			continue
		}
		room := ceiling - counts[m]
		if room > bestRoom {
			best = m
			bestRoom = room
		}
	}
	return best, bestRoom
}

func cloneCounts(counts map[materials.Material]int) map[materials.Material]int {
	out := make(map[materials.Material]int, len(counts))
	for k, v := range counts {
		out[k] = v
	}
	return out
}

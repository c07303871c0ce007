package ledger

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/aulaeco/recicla-backend/internal/materials"
	"github.com/aulaeco/recicla-backend/pkg/config"
	"github.com/aulaeco/recicla-backend/pkg/db/models"
	"github.com/aulaeco/recicla-backend/pkg/errors"
	"github.com/aulaeco/recicla-backend/pkg/logger"
	"github.com/aulaeco/recicla-backend/pkg/metrics"
)

// Violation names one way a ledger snapshot can break the seeded-demo policy.
type Violation string

const (
	ViolationInvalidMaterial    Violation = "invalid_material"
	ViolationPerUserCapExceeded Violation = "per_user_cap_exceeded"
	ViolationUnexpectedOwner    Violation = "unexpected_owner"
	ViolationUnexpectedTotal    Violation = "unexpected_total_count"
	ViolationFractionalQuantity Violation = "fractional_quantity"
	ViolationMismatchedPoints   Violation = "mismatched_points"
	ViolationWrongCenter        Violation = "wrong_center"
	ViolationMissingItem        Violation = "missing_item"
)

// quantityTolerance absorbs float drift from records written when the kg
// column still carried masses. Anything further from an integer than this is
// a legacy mass row.
const quantityTolerance = 1e-4

// Maintenance outcomes reported through metrics and logs.
const (
	OutcomeRebuild   = "rebuild"
	OutcomeNormalize = "normalize"
	OutcomeNoop      = "noop"
)

// Report is the outcome of one audit over a ledger snapshot. Rebuild reasons
// wipe the ledger; sweep reasons are fixable in place.
type Report struct {
	Total        int
	NeedsRebuild bool
	NeedsSweep   bool
	Reasons      []Violation
}

// Has reports whether the audit flagged the given violation.
func (r Report) Has(v Violation) bool {
	for _, got := range r.Reasons {
		if got == v {
			return true
		}
	}
	return false
}

func (r *Report) flag(v Violation, rebuild bool) {
	if !r.Has(v) {
		r.Reasons = append(r.Reasons, v)
	}
	if rebuild {
		r.NeedsRebuild = true
	} else {
		r.NeedsSweep = true
	}
}

// Auditor checks a ledger against the seeded-demo policy and repairs it,
// either by rebuilding from scratch or by normalizing records in place.
type Auditor struct {
	repo    Repository
	seeder  *Seeder
	cfg     config.LedgerConfig
	logg    *logger.Logger
	metrics *metrics.MaintenanceMetrics
}

// NewAuditor wires an auditor. metrics may be nil outside the server.
func NewAuditor(repo Repository, seeder *Seeder, cfg config.LedgerConfig, logg *logger.Logger, m *metrics.MaintenanceMetrics) (*Auditor, error) {
	if repo == nil {
		return nil, errors.New(errors.CodeInternal, "auditor requires a repository")
	}
	if seeder == nil {
		return nil, errors.New(errors.CodeInternal, "auditor requires a seeder")
	}
	if logg == nil {
		return nil, errors.New(errors.CodeInternal, "auditor requires a logger")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Auditor{repo: repo, seeder: seeder, cfg: cfg, logg: logg, metrics: m}, nil
}

// Audit classifies a snapshot without touching the store. Ownership, counts
// and fractional quantities force a rebuild; label and backfill drift only
// needs a sweep.
func (a *Auditor) Audit(records []models.Recycling) Report {
	report := Report{Total: len(records)}
	if len(records) != a.cfg.ExpectedTotal() {
		report.flag(ViolationUnexpectedTotal, true)
	}

	allowed := make(map[uint]bool, len(a.cfg.SeedUserIDs))
	for _, id := range a.cfg.SeedUserIDs {
		allowed[id] = true
	}
	perUser := make(map[uint]int)

	for _, rec := range records {
		if !allowed[rec.UserID] {
			report.flag(ViolationUnexpectedOwner, true)
		}
		perUser[rec.UserID]++
		if perUser[rec.UserID] > a.cfg.PerUserCap {
			report.flag(ViolationPerUserCapExceeded, true)
		}

		if rec.Quantity < 1 || math.Abs(rec.Quantity-math.Round(rec.Quantity)) > quantityTolerance {
			report.flag(ViolationFractionalQuantity, true)
		}

		normalized := materials.Normalize(rec.Material)
		if !normalized.IsEnforced() {
			report.flag(ViolationInvalidMaterial, true)
			continue
		}
		if string(normalized) != rec.Material {
			report.flag(ViolationInvalidMaterial, false)
		}
		if rec.Points != materials.Points(normalized, rec.Quantity) {
			report.flag(ViolationMismatchedPoints, false)
		}
		if rec.Center != a.cfg.Center {
			report.flag(ViolationWrongCenter, false)
		}
		if rec.Item == "" {
			report.flag(ViolationMissingItem, false)
		}
	}
	return report
}

// Maintain runs one full audit-and-repair pass. It converges: running it on
// a ledger it just repaired performs no writes.
func (a *Auditor) Maintain(ctx context.Context) (Report, error) {
	start := time.Now()
	report, outcome, err := a.maintain(ctx)
	a.metrics.ObserveDuration("maintain", time.Since(start))
	if err != nil {
		a.metrics.IncRun("maintain", "error")
		return report, err
	}
	a.metrics.IncRun("maintain", outcome)
	return report, nil
}

func (a *Auditor) maintain(ctx context.Context) (Report, string, error) {
	records, err := a.repo.ListAll(ctx)
	if err != nil {
		return Report{}, "", errors.Wrap(errors.CodeDependency, err, "loading ledger snapshot")
	}

	report := a.Audit(records)
	ctx = a.logg.WithFields(ctx, map[string]any{
		"total":         report.Total,
		"needs_rebuild": report.NeedsRebuild,
		"reasons":       report.Reasons,
	})

	if report.NeedsRebuild {
		a.logg.Warn(ctx, "ledger failed audit, rebuilding from seed policy")
		if err := a.repo.DeleteAll(ctx); err != nil {
			return report, "", errors.Wrap(errors.CodeDependency, err, "clearing ledger before rebuild")
		}
		created, err := a.seeder.Populate(ctx)
		if err != nil {
			return report, "", errors.Wrap(errors.CodeDependency, err, "reseeding ledger")
		}
		a.metrics.AddRebuilt(created)
		a.logg.Info(a.logg.WithField(ctx, "created", created), "ledger rebuilt")
		return report, OutcomeRebuild, nil
	}

	if !report.NeedsSweep {
		return report, OutcomeNoop, nil
	}

	rewrites := a.sweep(ctx, records)
	a.metrics.AddRewrites(rewrites)
	a.logg.Info(a.logg.WithField(ctx, "rewrites", rewrites), "ledger normalized in place")
	return report, OutcomeNormalize, nil
}

// sweep repairs label drift record by record. Failures are logged and
// skipped; the next pass picks them up again.
func (a *Auditor) sweep(ctx context.Context, records []models.Recycling) int {
	rewrites := 0
	centerDirty := false
	for _, rec := range records {
		recCtx := a.logg.WithField(ctx, "record_id", rec.ID)
		normalized := materials.Normalize(rec.Material)
		wantPoints := materials.Points(normalized, rec.Quantity)
		if string(normalized) != rec.Material || rec.Points != wantPoints {
			if err := a.repo.UpdateMaterialAndPoints(ctx, rec.ID, string(normalized), wantPoints); err != nil {
				a.logg.Error(recCtx, "normalize rewrite failed, skipping record", err)
				continue
			}
			rewrites++
		}
		if rec.Item == "" {
			if err := a.repo.UpdateItemAndMaterial(ctx, rec.ID, materials.DefaultItem(normalized), string(normalized)); err != nil {
				a.logg.Error(recCtx, "item backfill failed, skipping record", err)
				continue
			}
			rewrites++
		}
		if rec.Center != a.cfg.Center {
			centerDirty = true
		}
	}
	if centerDirty {
		if err := a.repo.UpdateCenterAll(ctx, a.cfg.Center); err != nil {
			a.logg.Error(ctx, "center enforcement failed", err)
		} else {
			rewrites++
		}
	}
	return rewrites
}

// NormalizeAll runs the in-place sweep over the whole ledger without the
// ownership audit or any rebuild. Non-enforced labels still normalize to
// their canonical form, Icopor and Otro included.
func (a *Auditor) NormalizeAll(ctx context.Context) (int, error) {
	start := time.Now()
	records, err := a.repo.ListAll(ctx)
	if err != nil {
		a.metrics.IncRun("normalize", "error")
		return 0, errors.Wrap(errors.CodeDependency, err, "loading ledger snapshot")
	}
	rewrites := a.sweep(ctx, records)
	a.metrics.ObserveDuration("normalize", time.Since(start))
	a.metrics.AddRewrites(rewrites)
	if rewrites == 0 {
		a.metrics.IncRun("normalize", OutcomeNoop)
	} else {
		a.metrics.IncRun("normalize", OutcomeNormalize)
	}
	return rewrites, nil
}

// Describe renders a short human summary for CLI output.
func (r Report) Describe() string {
	if len(r.Reasons) == 0 {
		return fmt.Sprintf("%d records, ledger consistent", r.Total)
	}
	return fmt.Sprintf("%d records, violations: %v (rebuild=%t)", r.Total, r.Reasons, r.NeedsRebuild)
}

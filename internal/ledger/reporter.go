package ledger

import (
	"math"
	"regexp"
	"sort"

	"github.com/aulaeco/recicla-backend/internal/materials"
	"github.com/aulaeco/recicla-backend/pkg/db/models"
)

// Ecological equivalence factors applied to the global quantity total.
const (
	treesPerUnit     = 1.0 / 50.0
	energyKWhPerUnit = 1.0
	waterLPerUnit    = 200.0
)

// MaterialTotal aggregates one material's share of the ledger. Labels are
// normalized before grouping, so legacy spellings collapse into one row.
type MaterialTotal struct {
	Material      string  `json:"material"`
	Records       int     `json:"records"`
	TotalQuantity float64 `json:"total_quantity"`
	TotalPoints   int     `json:"total_points"`
}

// GlobalTotals is the whole-ledger rollup plus ecological equivalents.
type GlobalTotals struct {
	TotalRecords   int     `json:"total_records"`
	TotalQuantity  float64 `json:"total_quantity"`
	TotalPoints    int     `json:"total_points"`
	TreesSaved     int     `json:"trees_saved"`
	EnergySavedKWh int     `json:"energy_saved_kwh"`
	WaterSavedL    int     `json:"water_saved_l"`
}

// MonthTotal is one point of the evolution series.
type MonthTotal struct {
	Month         string  `json:"month"`
	Records       int     `json:"records"`
	TotalQuantity float64 `json:"total_quantity"`
}

var monthPrefix = regexp.MustCompile(`^\d{4}-\d{2}`)

// PerMaterialTotals groups a snapshot by normalized material. Enforced
// materials come first in taxonomy order, then any others alphabetically.
func PerMaterialTotals(records []models.Recycling) []MaterialTotal {
	grouped := make(map[materials.Material]*MaterialTotal)
	for _, rec := range records {
		m := materials.Normalize(rec.Material)
		row, ok := grouped[m]
		if !ok {
			row = &MaterialTotal{Material: string(m)}
			grouped[m] = row
		}
		row.Records++
		row.TotalQuantity += rec.Quantity
		row.TotalPoints += rec.Points
	}

	out := make([]MaterialTotal, 0, len(grouped))
	for _, m := range materials.Enforced() {
		if row, ok := grouped[m]; ok {
			out = append(out, *row)
			delete(grouped, m)
		}
	}
	rest := make([]MaterialTotal, 0, len(grouped))
	for _, row := range grouped {
		rest = append(rest, *row)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].Material < rest[j].Material })
	return append(out, rest...)
}

// ComputeGlobalTotals rolls the snapshot up and derives the ecological
// equivalents from the quantity total.
func ComputeGlobalTotals(records []models.Recycling) GlobalTotals {
	var totals GlobalTotals
	for _, rec := range records {
		totals.TotalRecords++
		totals.TotalQuantity += rec.Quantity
		totals.TotalPoints += rec.Points
	}
	totals.TreesSaved = int(math.Round(totals.TotalQuantity * treesPerUnit))
	totals.EnergySavedKWh = int(math.Round(totals.TotalQuantity * energyKWhPerUnit))
	totals.WaterSavedL = int(math.Round(totals.TotalQuantity * waterLPerUnit))
	return totals
}

// MonthlyEvolution buckets the snapshot by year-month, ascending. Records
// whose date does not start with YYYY-MM are dropped from the series.
func MonthlyEvolution(records []models.Recycling) []MonthTotal {
	grouped := make(map[string]*MonthTotal)
	for _, rec := range records {
		month := monthPrefix.FindString(rec.Date)
		if month == "" {
			continue
		}
		row, ok := grouped[month]
		if !ok {
			row = &MonthTotal{Month: month}
			grouped[month] = row
		}
		row.Records++
		row.TotalQuantity += rec.Quantity
	}
	out := make([]MonthTotal, 0, len(grouped))
	for _, row := range grouped {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

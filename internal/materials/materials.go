package materials

import "strings"

// Material is the canonical label stored on every recycling record.
type Material string

const (
	MaterialTetraPak   Material = "Tetra Pak"
	MaterialPlasticoPP Material = "Plástico PP"
	MaterialAluminio   Material = "Aluminio"

	// MaterialIcopor survives only inside normalization sweeps; the enforced
	// set excludes it, so the auditor rebuilds any ledger still carrying it.
	MaterialIcopor Material = "Icopor"

	// MaterialOtro is the single fallback for labels nothing else matches.
	MaterialOtro Material = "Otro"
)

var enforcedMaterials = []Material{
	MaterialTetraPak,
	MaterialPlasticoPP,
	MaterialAluminio,
}

// Enforced returns the materials allowed on new and rebuilt records, in
// enumeration order. Callers must not mutate the returned slice.
func Enforced() []Material {
	return enforcedMaterials
}

// IsEnforced reports whether the material may be stored on a record.
func (m Material) IsEnforced() bool {
	for _, candidate := range enforcedMaterials {
		if candidate == m {
			return true
		}
	}
	return false
}

var synonyms = map[string]Material{
	// Tetra Pak
	"tetrapak":         MaterialTetraPak,
	"tetra pak":        MaterialTetraPak,
	"tetra-pak":        MaterialTetraPak,
	"tetra":            MaterialTetraPak,
	"envase tetra pak": MaterialTetraPak,
	// Plástico PP
	"pp":          MaterialPlasticoPP,
	"plastico pp": MaterialPlasticoPP,
	"plástico pp": MaterialPlasticoPP,
	"plastic pp":  MaterialPlasticoPP,
	// Icopor (expanded polystyrene)
	"icopor":            MaterialIcopor,
	"icopor (eps)":      MaterialIcopor,
	"icopor eps":        MaterialIcopor,
	"icopor/poliespuma": MaterialIcopor,
	"icopor-espuma":     MaterialIcopor,
	"anime":             MaterialIcopor,
	"unicel":            MaterialIcopor,
	// Aluminio
	"aluminio":            MaterialAluminio,
	"aluminum":            MaterialAluminio,
	"lata":                MaterialAluminio,
	"latas":               MaterialAluminio,
	"envase de aluminio":  MaterialAluminio,
	"envases de aluminio": MaterialAluminio,
}

// Normalize resolves an arbitrary submitted label to its canonical material.
// Resolution order: exact synonym lookup, then substring heuristics, then the
// Otro fallback. Canonical labels resolve to themselves, so the function is
// idempotent.
func Normalize(raw string) Material {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return MaterialOtro
	}
	if mapped, ok := synonyms[key]; ok {
		return mapped
	}

	// Heuristics run in fixed priority order; the first hit wins.
	switch {
	case strings.Contains(key, "tetra"):
		return MaterialTetraPak
	case strings.Contains(key, "pp"),
		strings.Contains(key, "pet"),
		strings.Contains(key, "plastico"),
		strings.Contains(key, "plástico"),
		strings.Contains(key, "plastic"):
		return MaterialPlasticoPP
	case strings.Contains(key, "icopor"),
		strings.Contains(key, "unicel"),
		strings.Contains(key, "anime"):
		return MaterialIcopor
	case strings.Contains(key, "aluminio"),
		strings.Contains(key, "aluminum"),
		strings.Contains(key, "alumin"),
		strings.Contains(key, "lata"),
		strings.Contains(key, "metal"):
		return MaterialAluminio
	case strings.Contains(key, "otro"):
		return MaterialOtro
	}
	return MaterialOtro
}

var catalog = map[Material][]string{
	MaterialTetraPak:   {"Envase Tetra Pak", "Caja Tetra Pak"},
	MaterialPlasticoPP: {"Tapa PP", "Envase PP", "Vaso PP"},
	MaterialAluminio:   {"Lata de aluminio", "Envase de aluminio"},
}

const fallbackItem = "Objeto reciclado"

// Catalog returns the item labels associated with the material. Callers must
// not mutate the returned slice.
func Catalog(m Material) []string {
	return catalog[m]
}

// DefaultItem is the deterministic backfill label for records missing an item:
// always the first catalog entry.
func DefaultItem(m Material) string {
	if entries := catalog[m]; len(entries) > 0 {
		return entries[0]
	}
	return fallbackItem
}

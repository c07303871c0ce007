package materials

import "math"

// Per-unit rates. Materials outside the enforced set earn the floor rate.
const (
	rateTetraPak   = 6
	ratePlasticoPP = 4
	rateAluminio   = 5
	rateDefault    = 1
)

// Rate returns the points earned per recycled unit of the material.
func Rate(m Material) int {
	switch m {
	case MaterialTetraPak:
		return rateTetraPak
	case MaterialPlasticoPP:
		return ratePlasticoPP
	case MaterialAluminio:
		return rateAluminio
	default:
		return rateDefault
	}
}

// Points converts a (material, quantity) pair into its point value. The
// quantity is floored to an integer and clamped at zero first, so negative
// or garbage input prices at zero. Pure and deterministic; every write path
// that touches material or quantity must re-invoke it.
func Points(m Material, quantity float64) int {
	qty := clampQuantity(quantity)
	return qty * Rate(m)
}

func clampQuantity(quantity float64) int {
	if math.IsNaN(quantity) || quantity <= 0 {
		return 0
	}
	return int(math.Floor(quantity))
}

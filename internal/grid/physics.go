package grid

import (
	"fmt"
	"hash/fnv"
	"math"
	"time"
)

// Grid geometry. An 8x8 lattice at 0.01 degree spacing covers roughly one
// kilometer around the beach, matching the inference service's output.
const (
	GridSize       = 8
	CellSpacingDeg = 0.01

	// DefaultCenterLat/Lon anchor the grid when no beach coordinate is
	// given (south San Diego Bay).
	DefaultCenterLat = 32.56
	DefaultCenterLon = -117.15
)

// Physics baseline weights and normalization caps. Rainfall saturates at
// 50mm over 72h, wind at 20 m/s, tide magnitude at 2.
const (
	rainWeight = 0.4
	rainCapMM  = 50.0

	windWeight = 0.3
	windCapMS  = 20.0

	tideWeight = 0.2
	tideCap    = 2.0

	communityWeight = 0.1
)

// Class thresholds on the blended score.
const (
	mediumThreshold = 0.33
	highThreshold   = 0.66
)

// FallbackModelVersion marks grids synthesized without a trained model.
const FallbackModelVersion = "physics_fallback"

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// PhysicsScore computes the deterministic risk baseline from the four
// dominant drivers. Each input is normalized to [0,1] before weighting, so
// the result is always in [0,1].
func PhysicsScore(rainfall72MM, windMS, tidePhase, community float64) float64 {
	return rainWeight*clip01(rainfall72MM/rainCapMM) +
		windWeight*clip01(windMS/windCapMS) +
		tideWeight*clip01(math.Abs(tidePhase)/tideCap) +
		communityWeight*clip01(community)
}

// ClassFromScore maps a blended score onto the three-way class.
func ClassFromScore(y float64) Class {
	switch {
	case y < mediumThreshold:
		return ClassLow
	case y < highThreshold:
		return ClassMedium
	default:
		return ClassHigh
	}
}

// Uncertainty is highest mid-scale where the class call is closest: a cell
// at 0.5 gets 0.30, one pinned at either extreme gets 0.225.
func Uncertainty(local float64) float64 {
	return 0.15 + (1-math.Abs(0.5-local))*0.15
}

// cellJitter derives a stable pseudo-random offset in [0,1) from the cell
// position and beach geometry, so repeated synthesis yields identical grids.
func cellJitter(ix, iy int, geomID string) float64 {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d-%d-%s", ix, iy, geomID)
	return float64(h.Sum32()%1000) / 1000.0
}

// Synthesize builds a physics-only grid around the given center. score is
// the grid-wide blend, physicsBase and residual its components; per-cell
// scores jitter around the blend by up to 0.04 so the lattice shows local
// texture instead of a uniform field.
func Synthesize(geomID string, centerLat, centerLon, score, physicsBase, residual float64) *Grid {
	cells := make([]Cell, 0, GridSize*GridSize)

	for iy := 0; iy < GridSize; iy++ {
		for ix := 0; ix < GridSize; ix++ {
			dlat := (float64(iy) - 3.5) * CellSpacingDeg
			dlon := (float64(ix) - 3.5) * CellSpacingDeg

			jitter := cellJitter(ix, iy, geomID)
			local := clip01(score + (jitter-0.5)*0.08)

			cells = append(cells, Cell{
				Lon:         round3(centerLon + dlon),
				Lat:         round3(centerLat + dlat),
				RiskClass:   ClassFromScore(local),
				RiskScore:   round3(local),
				Uncertainty: round2(Uncertainty(local)),
			})
		}
	}

	return &Grid{
		Cells: cells,
		Aggregate: Aggregate{
			RiskScore:   round3(score),
			RiskClass:   ClassFromScore(score),
			PhysicsBase: round3(physicsBase),
			Residual:    round3(residual),
		},
		GeneratedAt: time.Now().UTC(),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

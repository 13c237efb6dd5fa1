package grid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shorecast/shorecast/internal/grid"
	"github.com/shorecast/shorecast/internal/scoring"
)

func ptr(v float64) *float64 { return &v }

func pleasantBundle() grid.Bundle {
	return grid.Bundle{
		FeelsLikeF:       75,
		WindMPH:          ptr(4.0),
		WindDirectionDeg: 90,
		WaterTempC:       ptr(20.0),
		WaveHeightFt:     ptr(1.0),
		UVIndex:          ptr(4.0),
	}
}

func TestInterpret_EmptyGridConservativeDefault(t *testing.T) {
	for _, g := range []*grid.Grid{nil, {}} {
		s := grid.Interpret(g, 32.58, -117.13, pleasantBundle(), scoring.StatusOpen)

		assert.Equal(t, scoring.VerdictSlow, s.Safety)
		assert.Equal(t, 50, s.Comfort)
		assert.Equal(t, grid.ClassMedium, s.RiskClass)
		assert.Equal(t, 1.0, s.Uncertainty)
		assert.Equal(t, []string{"noData"}, s.Why)
	}
}

func TestInterpret_PicksNearestCell(t *testing.T) {
	g := &grid.Grid{
		Cells: []grid.Cell{
			// First cell is far away and high risk; the nearest is low.
			{Lat: 32.62, Lon: -117.18, RiskClass: grid.ClassHigh, Uncertainty: 0.25},
			{Lat: 32.58, Lon: -117.13, RiskClass: grid.ClassLow, Uncertainty: 0.18},
			{Lat: 32.55, Lon: -117.10, RiskClass: grid.ClassMedium, Uncertainty: 0.22},
		},
	}

	s := grid.Interpret(g, 32.581, -117.131, pleasantBundle(), scoring.StatusOpen)

	assert.Equal(t, grid.ClassLow, s.RiskClass)
	assert.Equal(t, 0.18, s.Uncertainty)
	assert.Equal(t, scoring.VerdictGo, s.Safety)
	assert.Contains(t, s.Why, "nearest cell risk low")
}

func TestInterpret_StatusDominance(t *testing.T) {
	g := &grid.Grid{
		Cells: []grid.Cell{{Lat: 32.58, Lon: -117.13, RiskClass: grid.ClassLow, Uncertainty: 0.18}},
	}

	s := grid.Interpret(g, 32.58, -117.13, pleasantBundle(), scoring.StatusClosure)
	assert.Equal(t, scoring.VerdictNoGo, s.Safety)
	assert.Contains(t, s.Why, "official closure in effect")

	s = grid.Interpret(g, 32.58, -117.13, pleasantBundle(), scoring.StatusAdvisory)
	assert.NotEqual(t, scoring.VerdictGo, s.Safety)
	assert.Contains(t, s.Why, "official advisory in effect")
}

func TestInterpret_SubstitutesDefaults(t *testing.T) {
	g := &grid.Grid{
		Cells: []grid.Cell{{Lat: 32.58, Lon: -117.13, RiskClass: grid.ClassLow, Uncertainty: 0.18}},
	}

	// Only feels-like is known; everything else takes documented defaults
	// (wind 8mph, sea surface 18C, wave 2ft, UV 5) and still scores.
	s := grid.Interpret(g, 32.58, -117.13, grid.Bundle{FeelsLikeF: 75}, scoring.StatusOpen)

	assert.GreaterOrEqual(t, s.Comfort, 0)
	assert.LessOrEqual(t, s.Comfort, 100)
	assert.NotZero(t, s.Comfort)
}

func TestInterpret_FallbackNoted(t *testing.T) {
	g := &grid.Grid{
		Cells:    []grid.Cell{{Lat: 32.58, Lon: -117.13, RiskClass: grid.ClassMedium, Uncertainty: 0.3}},
		Fallback: true,
	}

	s := grid.Interpret(g, 32.58, -117.13, pleasantBundle(), scoring.StatusOpen)
	assert.Contains(t, s.Why, "physics fallback, no trained model")
}

func TestClassLevel(t *testing.T) {
	assert.Equal(t, scoring.RiskLow, grid.ClassLow.Level())
	assert.Equal(t, scoring.RiskModerate, grid.ClassMedium.Level())
	assert.Equal(t, scoring.RiskHigh, grid.ClassHigh.Level())
}

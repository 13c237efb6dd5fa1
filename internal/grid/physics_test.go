package grid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shorecast/shorecast/internal/grid"
)

func TestPhysicsScore(t *testing.T) {
	tests := []struct {
		name                            string
		rainfall, wind, tide, community float64
		want                            float64
	}{
		{name: "calm", rainfall: 0, wind: 0, tide: 0, community: 0, want: 0},
		{name: "all saturated", rainfall: 100, wind: 40, tide: 3, community: 1, want: 1},
		{name: "rain only at cap", rainfall: 50, wind: 0, tide: 0, community: 0, want: 0.4},
		{name: "half rain", rainfall: 25, wind: 0, tide: 0, community: 0, want: 0.2},
		{name: "wind only at cap", rainfall: 0, wind: 20, tide: 0, community: 0, want: 0.3},
		{name: "tide magnitude is absolute", rainfall: 0, wind: 0, tide: -2, community: 0, want: 0.2},
		{name: "community full", rainfall: 0, wind: 0, tide: 0, community: 1, want: 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := grid.PhysicsScore(tt.rainfall, tt.wind, tt.tide, tt.community)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestPhysicsScore_AlwaysInUnitInterval(t *testing.T) {
	extremes := []float64{-1000, -1, 0, 0.5, 1, 1000}
	for _, rain := range extremes {
		for _, wind := range extremes {
			got := grid.PhysicsScore(rain, wind, 1.5, 0.5)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		}
	}
}

func TestClassFromScore(t *testing.T) {
	assert.Equal(t, grid.ClassLow, grid.ClassFromScore(0))
	assert.Equal(t, grid.ClassLow, grid.ClassFromScore(0.32))
	assert.Equal(t, grid.ClassMedium, grid.ClassFromScore(0.33))
	assert.Equal(t, grid.ClassMedium, grid.ClassFromScore(0.65))
	assert.Equal(t, grid.ClassHigh, grid.ClassFromScore(0.66))
	assert.Equal(t, grid.ClassHigh, grid.ClassFromScore(1))
}

func TestUncertainty(t *testing.T) {
	assert.InDelta(t, 0.30, grid.Uncertainty(0.5), 1e-9)
	assert.InDelta(t, 0.225, grid.Uncertainty(0), 1e-9)
	assert.InDelta(t, 0.225, grid.Uncertainty(1), 1e-9)
}

func TestSynthesize(t *testing.T) {
	g := grid.Synthesize("IB", 32.58, -117.13, 0.5, 0.5, 0)

	require.Len(t, g.Cells, 64)
	assert.Equal(t, grid.ClassMedium, g.Aggregate.RiskClass)
	assert.InDelta(t, 0.5, g.Aggregate.RiskScore, 1e-9)
	assert.InDelta(t, 0.5, g.Aggregate.PhysicsBase, 1e-9)
	assert.Zero(t, g.Aggregate.Residual)

	for _, cell := range g.Cells {
		// Jitter stays within +/-0.04 of the blend.
		assert.InDelta(t, 0.5, cell.RiskScore, 0.041)
		assert.GreaterOrEqual(t, cell.Uncertainty, 0.15)
		assert.LessOrEqual(t, cell.Uncertainty, 0.30)

		// Lattice stays within half the span of the center.
		assert.InDelta(t, 32.58, cell.Lat, 0.036)
		assert.InDelta(t, -117.13, cell.Lon, 0.036)
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	a := grid.Synthesize("LJS", 32.857, -117.257, 0.4, 0.4, 0)
	b := grid.Synthesize("LJS", 32.857, -117.257, 0.4, 0.4, 0)
	assert.Equal(t, a.Cells, b.Cells)

	// A different beach jitters differently somewhere.
	c := grid.Synthesize("MB", 32.857, -117.257, 0.4, 0.4, 0)
	assert.NotEqual(t, a.Cells, c.Cells)
}

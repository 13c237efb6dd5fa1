// Package grid provides the forecast risk grid: a lattice of classified risk
// cells around a beach produced by the inference collaborator (or a local
// physics fallback), and the interpreter that reduces a grid to a single
// actionable summary for one beach.
package grid

import (
	"errors"
	"time"

	"github.com/shorecast/shorecast/internal/scoring"
)

// Grid errors.
var (
	ErrProviderUnavailable = errors.New("inference provider unavailable")
)

// Class is the per-cell risk classification. The inference wire format uses
// lowercase names, distinct from the alert-level enum.
type Class string

const (
	ClassLow    Class = "low"
	ClassMedium Class = "medium"
	ClassHigh   Class = "high"
)

// Cell is one grid point of the inference output.
type Cell struct {
	Lon         float64 `json:"lon"`
	Lat         float64 `json:"lat"`
	RiskClass   Class   `json:"riskClass"`
	RiskScore   float64 `json:"riskScore"`
	Uncertainty float64 `json:"uncertainty"`
}

// Aggregate is the grid-wide blend the inference service reports alongside
// the cells: the clamped physics-plus-residual score and its components.
type Aggregate struct {
	RiskScore   float64 `json:"riskScore"`
	RiskClass   Class   `json:"riskClass"`
	PhysicsBase float64 `json:"physicsBase"`
	Residual    float64 `json:"residual"`
}

// Grid is a full inference result: the cell lattice plus provenance.
type Grid struct {
	Cells     []Cell
	Aggregate Aggregate

	// ModelVersion identifies the model that produced the result, e.g.
	// "v2_pgnn", or "physics_fallback" when synthesized locally.
	ModelVersion string

	// Fallback is true when no trained model contributed: the cells carry
	// the physics baseline only.
	Fallback bool

	GeneratedAt time.Time
}

// Features is the input vector for one prediction. Community is the
// crowd-report signal strength in [0,1]; TidePhase is in [-1,1], positive
// on a flood tide.
type Features struct {
	GeomID       string
	Rainfall72MM float64
	WindMS       float64
	TidePhase    float64
	WaveHeightM  float64
	SeaSurfaceC  float64
	Community    float64

	// Lat/Lon center the grid; nil falls back to the regional default.
	Lat *float64
	Lon *float64

	// When is "now" or an ISO date, passed through to the provider.
	When string
}

// Summary is the interpreter's reduction of a grid to one beach and horizon.
type Summary struct {
	Safety      scoring.SafetyVerdict `json:"safety"`
	Comfort     int                   `json:"comfort"`
	RiskClass   Class                 `json:"riskClass"`
	Uncertainty float64               `json:"uncertainty"`
	Why         []string              `json:"why"`
}

// Level maps a grid risk class onto the alert-level enum.
func (c Class) Level() scoring.RiskLevel {
	switch c {
	case ClassHigh:
		return scoring.RiskHigh
	case ClassMedium:
		return scoring.RiskModerate
	default:
		return scoring.RiskLow
	}
}

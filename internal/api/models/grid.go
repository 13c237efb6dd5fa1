package models

import "github.com/shorecast/shorecast/internal/grid"

// GridPredictRequest is the input vector for a grid prediction. BeachID
// resolves the geometry and grid center; an explicit lat/lon overrides the
// center only.
type GridPredictRequest struct {
	BeachID *int `json:"beachId,omitempty"`

	Rainfall72MM float64 `json:"rainfall72mm"`
	WindMS       float64 `json:"windMs"`
	TidePhase    float64 `json:"tidePhase" validate:"gte=-1,lte=1"`
	WaveHeightM  float64 `json:"waveM"`
	SeaSurfaceC  float64 `json:"sstC"`
	Community    float64 `json:"community" validate:"gte=0,lte=1"`

	Lat *float64 `json:"lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Lon *float64 `json:"lon,omitempty" validate:"omitempty,gte=-180,lte=180"`

	// When is "now" or an ISO date (optional).
	When string `json:"when,omitempty"`
}

// GridMeta carries prediction provenance.
type GridMeta struct {
	ModelVersion string    `json:"modelVersion"`
	Fallback     bool      `json:"fallback"`
	GeneratedAt  Timestamp `json:"generatedAt"`
}

// GridPredictResponse is the full prediction result: the cell lattice, the
// grid-wide aggregate, the beach-level interpretation and provenance.
type GridPredictResponse struct {
	Cells          []grid.Cell    `json:"cells"`
	Aggregate      grid.Aggregate `json:"aggregate"`
	Interpretation grid.Summary   `json:"interpretation"`
	Meta           GridMeta       `json:"meta"`
}

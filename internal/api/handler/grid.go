package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shorecast/shorecast/internal/api/models"
	"github.com/shorecast/shorecast/internal/api/response"
	"github.com/shorecast/shorecast/internal/beach"
	"github.com/shorecast/shorecast/internal/featureflags"
	"github.com/shorecast/shorecast/internal/grid"
	"github.com/shorecast/shorecast/internal/scoring"
)

// neutralFeelsLikeF stands in for air temperature, which the prediction
// endpoint does not take; the interpretation's comfort component is
// indicative only.
const neutralFeelsLikeF = 75.0

// GridHandler handles the raw risk-grid prediction endpoint.
type GridHandler struct {
	grids   *grid.Service
	beaches *beach.Service
	flags   *featureflags.Service
}

// NewGridHandler creates a new GridHandler.
func NewGridHandler(grids *grid.Service, beaches *beach.Service, flags *featureflags.Service) *GridHandler {
	return &GridHandler{grids: grids, beaches: beaches, flags: flags}
}

// PredictGrid handles POST /v1/grid:predict - run one grid inference from an
// explicit feature vector.
func (h *GridHandler) PredictGrid(w http.ResponseWriter, r *http.Request) {
	var input models.GridPredictRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := validatePredictInput(&input); len(errs) > 0 {
		response.BadRequest(w, r, "invalid feature vector", errs)
		return
	}

	features := grid.Features{
		Rainfall72MM: input.Rainfall72MM,
		WindMS:       input.WindMS,
		TidePhase:    input.TidePhase,
		WaveHeightM:  input.WaveHeightM,
		SeaSurfaceC:  input.SeaSurfaceC,
		Community:    input.Community,
		Lat:          input.Lat,
		Lon:          input.Lon,
		When:         input.When,
	}

	centerLat, centerLon := grid.DefaultCenterLat, grid.DefaultCenterLon

	if input.BeachID != nil {
		b, err := h.beaches.Get(r.Context(), *input.BeachID)
		if err != nil {
			if errors.Is(err, beach.ErrBeachNotFound) {
				response.NotFound(w, r, "no beach matches the given identifier")
				return
			}
			response.InternalError(w, r, "failed to resolve beach")
			return
		}
		features.GeomID = b.GeomID
		centerLat, centerLon = b.Lat, b.Lon
		if features.Lat == nil {
			features.Lat = &b.Lat
			features.Lon = &b.Lon
		}
	}
	if features.Lat != nil && features.Lon != nil {
		centerLat, centerLon = *features.Lat, *features.Lon
	}

	var g *grid.Grid
	if h.flags != nil && !h.flags.IsModelGridEnabled(r.Context()) {
		g = h.grids.Fallback(features)
	} else {
		g = h.grids.Predict(r.Context(), features)
	}

	windMPH := scoring.MPHFromMS(input.WindMS)
	waveFt := scoring.FeetFromMeters(input.WaveHeightM)
	sst := input.SeaSurfaceC
	bundle := grid.Bundle{
		FeelsLikeF:   neutralFeelsLikeF,
		WindMPH:      &windMPH,
		WaterTempC:   &sst,
		WaveHeightFt: &waveFt,
	}

	resp := models.GridPredictResponse{
		Cells:          g.Cells,
		Aggregate:      g.Aggregate,
		Interpretation: grid.Interpret(g, centerLat, centerLon, bundle, scoring.StatusOpen),
		Meta: models.GridMeta{
			ModelVersion: g.ModelVersion,
			Fallback:     g.Fallback,
			GeneratedAt:  models.Timestamp(g.GeneratedAt),
		},
	}
	response.JSON(w, r, http.StatusOK, resp)
}

func validatePredictInput(input *models.GridPredictRequest) []models.FieldError {
	var errs []models.FieldError
	if input.TidePhase < -1 || input.TidePhase > 1 {
		errs = append(errs, models.FieldError{Field: "tidePhase", Message: "must be in [-1,1]", Code: "out_of_range"})
	}
	if input.Community < 0 || input.Community > 1 {
		errs = append(errs, models.FieldError{Field: "community", Message: "must be in [0,1]", Code: "out_of_range"})
	}
	if input.Rainfall72MM < 0 {
		errs = append(errs, models.FieldError{Field: "rainfall72mm", Message: "must be non-negative", Code: "out_of_range"})
	}
	if input.WindMS < 0 {
		errs = append(errs, models.FieldError{Field: "windMs", Message: "must be non-negative", Code: "out_of_range"})
	}
	if input.WaveHeightM < 0 {
		errs = append(errs, models.FieldError{Field: "waveM", Message: "must be non-negative", Code: "out_of_range"})
	}
	if (input.Lat == nil) != (input.Lon == nil) {
		errs = append(errs, models.FieldError{Field: "lat", Message: "lat and lon must be given together", Code: "invalid_pair"})
	}
	if input.Lat != nil && (*input.Lat < -90 || *input.Lat > 90) {
		errs = append(errs, models.FieldError{Field: "lat", Message: "must be in [-90,90]", Code: "out_of_range"})
	}
	if input.Lon != nil && (*input.Lon < -180 || *input.Lon > 180) {
		errs = append(errs, models.FieldError{Field: "lon", Message: "must be in [-180,180]", Code: "out_of_range"})
	}
	return errs
}

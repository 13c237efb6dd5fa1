package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shorecast/shorecast/internal/alerts"
	"github.com/shorecast/shorecast/internal/api/models"
	"github.com/shorecast/shorecast/internal/api/response"
	"github.com/shorecast/shorecast/internal/beach"
)

// AlertHandler handles the composed beach alerts endpoint.
type AlertHandler struct {
	alerts *alerts.Service
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(service *alerts.Service) *AlertHandler {
	return &AlertHandler{alerts: service}
}

// GetAlerts handles GET /v1/alerts - compose the safety and comfort verdict
// for one beach, identified by beachId or by a lat/lon coordinate.
func (h *AlertHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := alerts.Request{}

	if v := q.Get("beachId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, r, "beachId must be an integer", []models.FieldError{
				{Field: "beachId", Message: "must be an integer", Code: "invalid_type"},
			})
			return
		}
		req.BeachID = &id
	} else {
		lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
		lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
		if latErr != nil || lonErr != nil {
			response.BadRequest(w, r, "either beachId or both lat and lon are required", nil)
			return
		}
		req.Lat = lat
		req.Lon = lon
	}

	if v := q.Get("horizons"); v != "" {
		horizons, err := parseHorizons(v)
		if err != nil {
			response.BadRequest(w, r, "horizons must be a comma-separated list of hour offsets in [0,72]", []models.FieldError{
				{Field: "horizons", Message: err.Error(), Code: "invalid_value"},
			})
			return
		}
		req.Horizons = horizons
	}

	resp, err := h.alerts.Compose(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, beach.ErrBeachNotFound):
			response.NotFound(w, r, "no beach matches the given identifier")
		case errors.Is(err, beach.ErrInvalidCoordinates):
			response.BadRequest(w, r, "coordinates are out of range", nil)
		default:
			response.InternalError(w, r, "failed to compose alerts")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// parseHorizons parses a comma-separated list of hour offsets.
func parseHorizons(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	horizons := make([]int, 0, len(parts))
	for _, p := range parts {
		h, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.New("not an integer: " + p)
		}
		if h < 0 || h > 72 {
			return nil, errors.New("offset out of range: " + p)
		}
		horizons = append(horizons, h)
	}
	return horizons, nil
}

package handler

import (
	"net/http"

	"github.com/shorecast/shorecast/internal/api/models"
	"github.com/shorecast/shorecast/internal/api/response"
	"github.com/shorecast/shorecast/internal/beach"
)

// BeachHandler handles beach registry endpoints.
type BeachHandler struct {
	beaches *beach.Service
}

// NewBeachHandler creates a new BeachHandler.
func NewBeachHandler(service *beach.Service) *BeachHandler {
	return &BeachHandler{beaches: service}
}

// ListBeaches handles GET /v1/beaches - list the beach registry.
func (h *BeachHandler) ListBeaches(w http.ResponseWriter, r *http.Request) {
	beaches, err := h.beaches.List(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to list beaches")
		return
	}

	items := make([]models.BeachSummary, 0, len(beaches))
	for _, b := range beaches {
		items = append(items, models.BeachSummary{
			ID:     b.ID,
			Name:   b.Name,
			Point:  models.Point{Lat: b.Lat, Lon: b.Lon},
			Agency: b.Agency,
		})
	}
	response.JSON(w, r, http.StatusOK, models.PagedBeaches{
		Items: items,
		Meta:  models.PagedResponseMeta{Limit: len(items)},
	})
}

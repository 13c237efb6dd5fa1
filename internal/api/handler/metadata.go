package handler

import (
	"net/http"

	"github.com/shorecast/shorecast/internal/api/models"
	"github.com/shorecast/shorecast/internal/api/response"
	"github.com/shorecast/shorecast/internal/grid"
	"github.com/shorecast/shorecast/internal/report"
	"github.com/shorecast/shorecast/internal/scoring"
	"github.com/shorecast/shorecast/internal/tide"
)

// MetadataHandler handles metadata endpoints.
type MetadataHandler struct {
	stations []tide.Station
}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler(stations []tide.Station) *MetadataHandler {
	if len(stations) == 0 {
		stations = tide.DefaultStations()
	}
	return &MetadataHandler{stations: stations}
}

// ListTideStations handles GET /v1/metadata/tide-stations.
func (h *MetadataHandler) ListTideStations(w http.ResponseWriter, r *http.Request) {
	items := make([]models.TideStation, 0, len(h.stations))
	for _, s := range h.stations {
		items = append(items, models.TideStation{
			StationID: s.ID,
			Name:      s.Name,
			Point:     models.Point{Lat: s.Lat, Lon: s.Lon},
		})
	}
	response.JSON(w, r, http.StatusOK, models.PagedTideStations{
		Items: items,
		Meta:  models.PagedResponseMeta{Limit: len(items)},
	})
}

// GetEnums handles GET /v1/metadata/enums - get enum values used by the API.
func (h *MetadataHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	enums := models.Enums{
		RiskLevels: []scoring.RiskLevel{
			scoring.RiskLow,
			scoring.RiskModerate,
			scoring.RiskHigh,
		},
		SafetyVerdicts: []scoring.SafetyVerdict{
			scoring.VerdictGo,
			scoring.VerdictSlow,
			scoring.VerdictNoGo,
		},
		OfficialStatuses: []scoring.OfficialStatus{
			scoring.StatusOpen,
			scoring.StatusAdvisory,
			scoring.StatusClosure,
		},
		TideStates: []tide.State{
			tide.StateFlood,
			tide.StateEbb,
			tide.StateUnknown,
		},
		ReportTypes: []report.Type{
			report.TypeOdor,
			report.TypeDebris,
		},
		AlertLevels: []report.AlertLevel{
			report.LevelNone,
			report.LevelMinor,
			report.LevelModerate,
			report.LevelStrong,
		},
		GridRiskClasses: []grid.Class{
			grid.ClassLow,
			grid.ClassMedium,
			grid.ClassHigh,
		},
	}
	response.JSON(w, r, http.StatusOK, enums)
}

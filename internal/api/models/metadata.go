package models

import (
	"github.com/shorecast/shorecast/internal/grid"
	"github.com/shorecast/shorecast/internal/report"
	"github.com/shorecast/shorecast/internal/scoring"
	"github.com/shorecast/shorecast/internal/tide"
)

// TideStation represents a tide observation station.
type TideStation struct {
	StationID string `json:"stationId"`
	Name      string `json:"name"`
	Point     Point  `json:"point"`
}

// PagedTideStations represents a paginated list of tide stations.
type PagedTideStations struct {
	Items []TideStation     `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}

// BeachSummary represents one beach in the registry listing.
type BeachSummary struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Point  Point  `json:"point"`
	Agency string `json:"agency"`
}

// PagedBeaches represents a paginated list of beaches.
type PagedBeaches struct {
	Items []BeachSummary    `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}

// Enums represents the enum values used by the API.
type Enums struct {
	RiskLevels       []scoring.RiskLevel      `json:"riskLevels"`
	SafetyVerdicts   []scoring.SafetyVerdict  `json:"safetyVerdicts"`
	OfficialStatuses []scoring.OfficialStatus `json:"officialStatuses"`
	TideStates       []tide.State             `json:"tideStates"`
	ReportTypes      []report.Type            `json:"reportTypes"`
	AlertLevels      []report.AlertLevel      `json:"alertLevels"`
	GridRiskClasses  []grid.Class             `json:"gridRiskClasses"`
}

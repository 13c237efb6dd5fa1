// Package alerts composes the per-beach safety and comfort verdict from the
// upstream sources: regulator status, marine forecast, tide data and
// community reports. One pass per request, no state between requests.
package alerts

import (
	"errors"
	"time"

	"github.com/shorecast/shorecast/internal/report"
	"github.com/shorecast/shorecast/internal/scoring"
	"github.com/shorecast/shorecast/internal/tide"
)

// Alerts errors.
var (
	ErrNoBeach = errors.New("no beach resolved")
)

// DefaultHorizons are the forecast offsets composed per request, in hours.
var DefaultHorizons = []int{0, 24, 48, 72}

// Request identifies the beach to compose alerts for. BeachID and a
// coordinate are mutually exclusive; with an ID the coordinate is ignored.
type Request struct {
	BeachID *int
	Lat     float64
	Lon     float64

	// Horizons overrides DefaultHorizons (optional).
	Horizons []int
}

// BeachInfo echoes the resolved beach in the response.
type BeachInfo struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Agency string  `json:"agency"`
}

// HorizonRisk is the risk assessment at one forecast offset.
type HorizonRisk struct {
	HorizonHours int                   `json:"horizonHours"`
	Level        scoring.RiskLevel     `json:"level"`
	Verdict      scoring.SafetyVerdict `json:"verdict"`
}

// SafetyBlock carries the verdict and its derivation. Status is the verdict
// at horizon zero; Horizons hold the full forecast set.
type SafetyBlock struct {
	Status         scoring.SafetyVerdict  `json:"status"`
	OfficialStatus scoring.OfficialStatus `json:"officialStatus"`
	OfficialReason string                 `json:"officialReason,omitempty"`
	Horizons       []HorizonRisk          `json:"horizons"`
	Why            []string               `json:"why"`
	Sources        []string               `json:"sources"`
}

// HorizonComfort is the comfort score at one forecast offset.
type HorizonComfort struct {
	HorizonHours int `json:"horizonHours"`
	Score        int `json:"score"`
}

// BestWindow is the most pleasant contiguous span found in the forecast.
type BestWindow struct {
	StartsAt  time.Time `json:"startsAt"`
	Hours     int       `json:"hours"`
	MeanScore float64   `json:"meanScore"`
}

// ComfortBlock carries per-horizon comfort and the best visiting window.
type ComfortBlock struct {
	Horizons   []HorizonComfort `json:"horizons"`
	BestWindow *BestWindow      `json:"bestWindow,omitempty"`
	Why        []string         `json:"why"`
}

// TideEventInfo is the next predicted high or low tide.
type TideEventInfo struct {
	Type    tide.EventType `json:"type"`
	Time    time.Time      `json:"time"`
	HeightM float64        `json:"heightM"`
}

// OceanBlock carries tide and swell conditions.
type OceanBlock struct {
	TideState        tide.State     `json:"tideState"`
	NextTide         *TideEventInfo `json:"nextTide,omitempty"`
	WaveHeightM      float64        `json:"waveHeightM"`
	WavePeriodS      float64        `json:"wavePeriodS"`
	WaveDirectionDeg float64        `json:"waveDirectionDeg"`
	WaterTempC       *float64       `json:"waterTempC,omitempty"`
}

// WeatherBlock carries current atmospheric conditions. Synthetic marks
// values from the flat fallback series rather than a real forecast.
type WeatherBlock struct {
	AirTempF         float64 `json:"airTempF"`
	FeelsLikeF       float64 `json:"feelsLikeF"`
	HumidityPct      float64 `json:"humidityPct"`
	WindSpeedMPH     float64 `json:"windSpeedMph"`
	WindDirectionDeg float64 `json:"windDirectionDeg"`
	UVIndex          float64 `json:"uvIndex"`
	PrecipitationMM  float64 `json:"precipitationMm"`
	Synthetic        bool    `json:"synthetic,omitempty"`
}

// PollutionBlock surfaces the sewage flag for south-bay beaches. Purely
// additive context; it never changes the safety verdict.
type PollutionBlock struct {
	SewageFlag bool   `json:"sewageFlag"`
	Reason     string `json:"reason,omitempty"`
	Link       string `json:"link,omitempty"`
}

// ReportCounts is a per-type report tally for one trailing window.
type ReportCounts struct {
	Odor   int `json:"odor"`
	Debris int `json:"debris"`
}

// CommunityBlock carries the aggregated crowd-report signal.
type CommunityBlock struct {
	Level        report.AlertLevel `json:"level"`
	DominantType *report.Type      `json:"dominantType,omitempty"`
	Last2h       ReportCounts      `json:"last2h"`
	Last24h      ReportCounts      `json:"last24h"`
	Why          []string          `json:"why"`
}

// Response is the composed alerts artifact for one beach. Built fresh per
// request and never cached.
type Response struct {
	Beach     BeachInfo      `json:"beach"`
	AsOf      time.Time      `json:"asOf"`
	Safety    SafetyBlock    `json:"safety"`
	Comfort   ComfortBlock   `json:"comfort"`
	Ocean     OceanBlock     `json:"ocean"`
	Weather   WeatherBlock   `json:"weather"`
	Pollution PollutionBlock `json:"pollution"`
	Community CommunityBlock `json:"community"`
}

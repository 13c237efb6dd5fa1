package scoring

import "math"

// ComfortFactors holds the environmental inputs to the comfort scorer.
// Temperatures are in °F, wind in mph, wave height in feet.
type ComfortFactors struct {
	FeelsLikeF float64

	// WaterTempF is nullable: when unknown the water sub-score falls back to
	// a neutral 0.5 rather than penalizing the beach.
	WaterTempF *float64

	WindSpeedMPH     float64
	WindDirectionDeg float64

	UVIndex float64

	WaveHeightFt float64
}

// Sub-score weights. They sum to 1.0 so the blend stays in [0,1].
const (
	airWeight   = 0.30
	waterWeight = 0.20
	windWeight  = 0.15
	uvWeight    = 0.20
	waveWeight  = 0.15
)

// ComfortScore blends five piecewise sub-scores into a 0-100 pleasantness
// estimate. The result is always an integer in [0,100] for any finite input.
func ComfortScore(f ComfortFactors) int {
	blend := airWeight*airScore(f.FeelsLikeF) +
		waterWeight*waterScore(f.WaterTempF) +
		windWeight*windScore(f.WindSpeedMPH, f.WindDirectionDeg) +
		uvWeight*uvScore(f.UVIndex) +
		waveWeight*waveScore(f.WaveHeightFt)

	score := int(math.Round(blend * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// airScore peaks at 1.0 for feels-like in [72,78]°F and degrades through
// nested tolerance bands down to 0.2 outside [60,90]°F.
func airScore(feelsLikeF float64) float64 {
	switch {
	case feelsLikeF >= 72 && feelsLikeF <= 78:
		return 1.0
	case feelsLikeF >= 68 && feelsLikeF <= 82:
		return 0.85
	case feelsLikeF >= 64 && feelsLikeF <= 86:
		return 0.65
	case feelsLikeF >= 60 && feelsLikeF <= 90:
		return 0.45
	default:
		return 0.2
	}
}

// waterScore peaks at 1.0 in [66,72]°F. An unknown water temperature scores
// a neutral 0.5.
func waterScore(waterTempF *float64) float64 {
	if waterTempF == nil {
		return 0.5
	}
	w := *waterTempF
	switch {
	case w >= 66 && w <= 72:
		return 1.0
	case w >= 62 && w <= 76:
		return 0.8
	case w >= 58 && w <= 80:
		return 0.6
	default:
		return 0.4
	}
}

// windScore is 1.0 when calm and degrades to 0.3 for strong onshore wind,
// using the same onshore-arc policy as the risk classifier.
func windScore(speedMPH, directionDeg float64) float64 {
	switch {
	case speedMPH <= 5:
		return 1.0
	case speedMPH <= windStrongMPH:
		return 0.8
	case OnshoreWind(directionDeg):
		return 0.3
	default:
		return 0.6
	}
}

// uvScore is 1.0 below index 5, stepping down to 0.2 at index 8 and above.
func uvScore(uv float64) float64 {
	switch {
	case uv < 5:
		return 1.0
	case uv < 7:
		return 0.7
	case uv < 8:
		return 0.4
	default:
		return 0.2
	}
}

// waveScore is 1.0 below 2ft, stepping down to 0.3 above 4ft.
func waveScore(waveFt float64) float64 {
	switch {
	case waveFt < 2:
		return 1.0
	case waveFt <= 4:
		return 0.7
	default:
		return 0.3
	}
}

// FeelsLike estimates apparent temperature in °F. It applies the NWS heat
// index regression for hot humid conditions, the NWS wind chill formula for
// cold windy conditions, and is otherwise the identity.
func FeelsLike(airTempF, humidityPct, windSpeedMPH float64) float64 {
	if airTempF >= 80 && humidityPct >= 40 {
		return heatIndex(airTempF, humidityPct)
	}
	if airTempF <= 50 && windSpeedMPH >= 3 {
		return windChill(airTempF, windSpeedMPH)
	}
	return airTempF
}

// heatIndex is the Rothfusz regression used by the NWS.
func heatIndex(t, rh float64) float64 {
	return -42.379 +
		2.04901523*t +
		10.14333127*rh -
		0.22475541*t*rh -
		0.00683783*t*t -
		0.05481717*rh*rh +
		0.00122874*t*t*rh +
		0.00085282*t*rh*rh -
		0.00000199*t*t*rh*rh
}

// windChill is the NWS wind chill formula.
func windChill(t, v float64) float64 {
	pow := math.Pow(v, 0.16)
	return 35.74 + 0.6215*t - 35.75*pow + 0.4275*t*pow
}

// ComfortWindow is a contiguous span of hourly comfort scores.
type ComfortWindow struct {
	// Start is the index of the first hour in the window.
	Start int

	// Width is the number of hours in the window.
	Width int

	// Mean is the arithmetic mean of the scores in the window.
	Mean float64
}

// DefaultWindowWidth is the default width of the best-comfort-window search.
const DefaultWindowWidth = 3

// BestWindow finds the fixed-width contiguous span with the highest mean
// score. Ties resolve to the earliest-starting window: the scan keeps the
// first strict maximum. Returns false when scores is empty. When the series
// is shorter than width the whole series is the window.
func BestWindow(scores []int, width int) (ComfortWindow, bool) {
	if len(scores) == 0 {
		return ComfortWindow{}, false
	}
	if width <= 0 {
		width = DefaultWindowWidth
	}
	if width > len(scores) {
		width = len(scores)
	}

	sum := 0
	for _, s := range scores[:width] {
		sum += s
	}
	best := ComfortWindow{Start: 0, Width: width, Mean: float64(sum) / float64(width)}

	for i := width; i < len(scores); i++ {
		sum += scores[i] - scores[i-width]
		mean := float64(sum) / float64(width)
		if mean > best.Mean {
			best = ComfortWindow{Start: i - width + 1, Width: width, Mean: mean}
		}
	}

	return best, true
}

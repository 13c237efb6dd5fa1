package grid

import (
	"fmt"

	"github.com/shorecast/shorecast/internal/scoring"
	"github.com/shorecast/shorecast/pkg/geo"
)

// Documented defaults substituted for missing bundle values.
const (
	DefaultWindMPH      = 8.0
	DefaultSeaSurfaceC  = 18.0
	DefaultWaveHeightFt = 2.0
	DefaultUVIndex      = 5.0
)

// Bundle is the current environmental snapshot fed to the interpreter.
// Nil fields mean the upstream never reported; the interpreter substitutes
// the documented defaults rather than failing.
type Bundle struct {
	FeelsLikeF float64

	WindMPH          *float64
	WindDirectionDeg float64

	WaterTempC   *float64
	WaveHeightFt *float64
	UVIndex      *float64
}

// Interpret reduces a risk grid to a single summary for one beach: the
// geographically nearest cell supplies the risk class and uncertainty, the
// official status dominates the safety verdict, and the bundle drives the
// comfort score. An empty grid yields a conservative default rather than an
// error.
func Interpret(g *Grid, beachLat, beachLon float64, bundle Bundle, status scoring.OfficialStatus) Summary {
	if g == nil || len(g.Cells) == 0 {
		return Summary{
			Safety:      scoring.VerdictSlow,
			Comfort:     50,
			RiskClass:   ClassMedium,
			Uncertainty: 1,
			Why:         []string{"noData"},
		}
	}

	idx, _ := geo.Nearest(beachLat, beachLon, len(g.Cells), func(i int) (float64, float64) {
		return g.Cells[i].Lat, g.Cells[i].Lon
	})
	cell := g.Cells[idx]

	safety := scoring.Verdict(cell.RiskClass.Level(), status)
	comfort := scoring.ComfortScore(comfortFactors(bundle))

	why := []string{fmt.Sprintf("nearest cell risk %s", cell.RiskClass)}
	switch status {
	case scoring.StatusClosure:
		why = append(why, "official closure in effect")
	case scoring.StatusAdvisory:
		why = append(why, "official advisory in effect")
	}
	if g.Fallback {
		why = append(why, "physics fallback, no trained model")
	}

	return Summary{
		Safety:      safety,
		Comfort:     comfort,
		RiskClass:   cell.RiskClass,
		Uncertainty: cell.Uncertainty,
		Why:         why,
	}
}

// comfortFactors maps the bundle onto the comfort scorer's inputs, filling
// gaps with the documented defaults.
func comfortFactors(b Bundle) scoring.ComfortFactors {
	f := scoring.ComfortFactors{
		FeelsLikeF:       b.FeelsLikeF,
		WindSpeedMPH:     DefaultWindMPH,
		WindDirectionDeg: b.WindDirectionDeg,
		WaveHeightFt:     DefaultWaveHeightFt,
		UVIndex:          DefaultUVIndex,
	}

	if b.WindMPH != nil {
		f.WindSpeedMPH = *b.WindMPH
	}
	if b.WaveHeightFt != nil {
		f.WaveHeightFt = *b.WaveHeightFt
	}
	if b.UVIndex != nil {
		f.UVIndex = *b.UVIndex
	}

	if b.WaterTempC != nil {
		wf := scoring.FahrenheitFromCelsius(*b.WaterTempC)
		f.WaterTempF = &wf
	} else {
		wf := scoring.FahrenheitFromCelsius(DefaultSeaSurfaceC)
		f.WaterTempF = &wf
	}

	return f
}

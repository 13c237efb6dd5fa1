// Package scoring provides the pure risk and comfort scoring functions that
// turn environmental measurements into discrete safety and comfort judgments.
package scoring

import "fmt"

// RiskLevel is an ordinal risk classification derived from environmental
// point accumulation.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
)

// SafetyVerdict is the user-facing tri-state combining computed risk and the
// official regulator status.
type SafetyVerdict string

const (
	VerdictGo   SafetyVerdict = "GO"
	VerdictSlow SafetyVerdict = "SLOW"
	VerdictNoGo SafetyVerdict = "NO_GO"
)

// OfficialStatus is the regulator's designation for a beach.
type OfficialStatus string

const (
	StatusOpen     OfficialStatus = "OPEN"
	StatusAdvisory OfficialStatus = "ADVISORY"
	StatusClosure  OfficialStatus = "CLOSURE"
)

// RiskFactors holds the environmental inputs to the risk classifier.
// Absent inputs keep their zero value and contribute no risk points.
type RiskFactors struct {
	// Rainfall72MM is cumulative rainfall over the trailing 72 hours in mm.
	Rainfall72MM float64

	// WindSpeedMPH and WindDirectionDeg describe wind at the evaluation instant.
	WindSpeedMPH     float64
	WindDirectionDeg float64

	// WaveHeightM is significant wave height in meters.
	WaveHeightM float64

	// UVIndex is the UV index at the evaluation instant.
	UVIndex float64

	// ReportCount is the optional count of recent community reports.
	ReportCount int
}

// Risk point thresholds. Tuned independently; an additive cascade rather
// than a weighted sum keeps each threshold auditable on its own.
const (
	rainHeavyMM    = 25.0
	rainModerateMM = 15.0
	windStrongMPH  = 12.0
	waveRiskM      = 1.5
	uvRiskIndex    = 7.0
	reportRiskMin  = 2
)

// OnshoreWind reports whether wind from the given compass direction blows
// sea-to-shore for the local coastline. The arc is a fixed policy: either of
// two observed degree ranges counts, and both are kept deliberately even
// though the wider one subsumes the narrower.
func OnshoreWind(directionDeg float64) bool {
	return (directionDeg >= 210 && directionDeg <= 330) ||
		(directionDeg >= 180 && directionDeg <= 360)
}

// RiskPoints computes the raw additive point total for the given factors.
func RiskPoints(f RiskFactors) int {
	points := 0

	switch {
	case f.Rainfall72MM >= rainHeavyMM:
		points += 2
	case f.Rainfall72MM >= rainModerateMM:
		points++
	}

	if f.WindSpeedMPH > windStrongMPH && OnshoreWind(f.WindDirectionDeg) {
		points++
	}

	if f.WaveHeightM >= waveRiskM {
		points++
	}

	if f.UVIndex >= uvRiskIndex {
		points++
	}

	if f.ReportCount >= reportRiskMin {
		points++
	}

	return points
}

// LevelFromPoints maps a point total to an ordinal risk level. The mapping
// is a monotonic step function; ties round down (2 points is MODERATE).
func LevelFromPoints(points int) RiskLevel {
	switch {
	case points >= 3:
		return RiskHigh
	case points == 2:
		return RiskModerate
	default:
		return RiskLow
	}
}

// ClassifyRisk computes the risk level for the given factors.
func ClassifyRisk(f RiskFactors) RiskLevel {
	return LevelFromPoints(RiskPoints(f))
}

// ExplainRisk names each factor that contributed risk points, in cascade
// order. Empty when nothing triggered.
func ExplainRisk(f RiskFactors) []string {
	var why []string

	if f.Rainfall72MM >= rainModerateMM {
		why = append(why, fmt.Sprintf("%.1fmm rainfall in the last 72h", f.Rainfall72MM))
	}
	if f.WindSpeedMPH > windStrongMPH && OnshoreWind(f.WindDirectionDeg) {
		why = append(why, fmt.Sprintf("onshore wind %.0fmph", f.WindSpeedMPH))
	}
	if f.WaveHeightM >= waveRiskM {
		why = append(why, fmt.Sprintf("wave height %.1fm", f.WaveHeightM))
	}
	if f.UVIndex >= uvRiskIndex {
		why = append(why, fmt.Sprintf("UV index %.0f", f.UVIndex))
	}
	if f.ReportCount >= reportRiskMin {
		why = append(why, fmt.Sprintf("%d recent community reports", f.ReportCount))
	}

	return why
}

// Verdict combines a computed risk level with the official regulator status.
// The official status strictly dominates: it can only make the verdict more
// conservative, never less. A closure always yields NO_GO; an advisory
// forces at least SLOW.
func Verdict(level RiskLevel, status OfficialStatus) SafetyVerdict {
	if status == StatusClosure {
		return VerdictNoGo
	}

	computed := VerdictGo
	switch level {
	case RiskHigh:
		computed = VerdictNoGo
	case RiskModerate:
		computed = VerdictSlow
	}

	if status == StatusAdvisory && computed == VerdictGo {
		return VerdictSlow
	}
	return computed
}

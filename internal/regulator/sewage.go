package regulator

import "regexp"

// sewagePattern matches closure/advisory reasons that indicate transboundary
// sewage contamination rather than ordinary bacteria exceedances.
var sewagePattern = regexp.MustCompile(`(?i)(sewage|transboundary|tijuana|wastewater|spill)`)

// WaterQualityLink points at the county's public water quality data, shown
// alongside the sewage flag.
const WaterQualityLink = "https://www.sdbeachinfo.com/"

// SewageReason reports whether a regulator reason text indicates sewage
// contamination. The caller additionally restricts the flag to south-bay
// beaches; the flag is purely additive context and never changes the
// safety verdict.
func SewageReason(reason string) bool {
	return reason != "" && sewagePattern.MatchString(reason)
}

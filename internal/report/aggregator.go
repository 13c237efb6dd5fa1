package report

import (
	"fmt"
	"time"

	"github.com/shorecast/shorecast/pkg/geo"
)

// Aggregation thresholds and defaults.
const (
	// DefaultGeofenceRadiusM is the circular radius around the beach
	// coordinate within which reports count.
	DefaultGeofenceRadiusM = 500.0

	shortWindow = 2 * time.Hour
	longWindow  = 24 * time.Hour

	strongShortMin = 4
	strongLongMin  = 6
	moderateMin    = 2
	minorMin       = 1
)

// AggregateInput holds the inputs to the community signal aggregator.
type AggregateInput struct {
	BeachLat float64
	BeachLon float64
	Reports  []Report
	Now      time.Time

	// RadiusM is the geofence radius in meters; zero means the default.
	RadiusM float64
}

// Aggregate turns a raw report set into a calibrated community summary.
// It is a pure function of its inputs: it never mutates report state and is
// safe to call concurrently and repeatedly.
func Aggregate(in AggregateInput) *Summary {
	radius := in.RadiusM
	if radius <= 0 {
		radius = DefaultGeofenceRadiusM
	}

	summary := &Summary{Level: LevelNone}

	for i := range in.Reports {
		r := &in.Reports[i]
		if !r.Eligible() {
			continue
		}
		if geo.Distance(in.BeachLat, in.BeachLon, r.Lat, r.Lon) > radius {
			continue
		}

		age := in.Now.Sub(r.CreatedAt)
		if age < 0 || age > longWindow {
			continue
		}

		countInto(&summary.Last24h, r.Type)
		if age <= shortWindow {
			countInto(&summary.Last2h, r.Type)
		}
	}

	summary.Level = level(summary.Last2h, summary.Last24h)
	summary.DominantType = dominantType(summary.Last2h, summary.Last24h)
	summary.Why = explain(summary, radius)

	return summary
}

func countInto(c *WindowCounts, t Type) {
	if t == TypeOdor {
		c.Odor++
	} else {
		c.Debris++
	}
}

// level applies the calibrated thresholds to the two trailing windows.
func level(short, long WindowCounts) AlertLevel {
	switch {
	case short.Total() >= strongShortMin || long.Total() >= strongLongMin:
		return LevelStrong
	case short.Total() >= moderateMin:
		return LevelModerate
	case short.Total() >= minorMin:
		return LevelMinor
	default:
		return LevelNone
	}
}

// dominantType is whichever type has the larger 2h count; ties favor odor.
// Falls back to the 24h window when the 2h window is empty.
func dominantType(short, long WindowCounts) *Type {
	counts := short
	if counts.Total() == 0 {
		counts = long
	}
	if counts.Total() == 0 {
		return nil
	}

	t := TypeOdor
	if counts.Debris > counts.Odor {
		t = TypeDebris
	}
	return &t
}

// explain generates human-readable justification strings, one per non-zero
// window, explicitly naming counts and radius.
func explain(s *Summary, radiusM float64) []string {
	var why []string

	if s.Last2h.Total() > 0 {
		why = append(why, fmt.Sprintf(
			"%d report(s) within %.0fm in the last 2h (%d odor, %d debris)",
			s.Last2h.Total(), radiusM, s.Last2h.Odor, s.Last2h.Debris))
	}
	if s.Last24h.Total() > 0 {
		why = append(why, fmt.Sprintf(
			"%d report(s) within %.0fm in the last 24h (%d odor, %d debris)",
			s.Last24h.Total(), radiusM, s.Last24h.Odor, s.Last24h.Debris))
	}

	return why
}

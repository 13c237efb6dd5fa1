// Package marine provides hourly weather and marine forecast series for
// beach locations.
package marine

import (
	"errors"
	"time"
)

// Marine errors.
var (
	ErrProviderUnavailable = errors.New("marine provider unavailable")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
	ErrEmptySeries         = errors.New("empty forecast series")
)

// Neutral defaults substituted for variables a provider omits. Computation
// proceeds on defaults rather than aborting.
const (
	DefaultAirTempC     = 21.1 // 70°F
	DefaultHumidityPct  = 50.0
	DefaultWindSpeedMS  = 2.24 // 5mph
	DefaultWindDirDeg   = 0.0
	DefaultPrecipMM     = 0.0
	DefaultUVIndex      = 5.0
	DefaultWaveHeightM  = 0.183 // 0.6ft
	DefaultWavePeriodS  = 10.0
	DefaultWaveDirDeg   = 270.0
	DefaultSeaSurfaceC  = 18.0
	DefaultSeriesLength = 96
)

// HourlySeries is a bundle of parallel, time-aligned hourly sequences. All
// slices have the same length as Times; index i across every slice refers to
// the same instant.
type HourlySeries struct {
	Lat float64
	Lon float64

	Times []time.Time

	AirTempC         []float64
	HumidityPct      []float64
	WindSpeedMS      []float64
	WindDirectionDeg []float64
	PrecipitationMM  []float64
	UVIndex          []float64
	WaveHeightM      []float64
	WavePeriodS      []float64
	WaveDirectionDeg []float64
	SeaSurfaceTempC  []float64

	// Synthetic marks a flat fallback series generated after provider
	// failure, rather than real forecast data.
	Synthetic bool

	FetchedAt time.Time
}

// Sample is the environmental bundle at one index of the series.
type Sample struct {
	Time             time.Time
	AirTempC         float64
	HumidityPct      float64
	WindSpeedMS      float64
	WindDirectionDeg float64
	PrecipitationMM  float64
	UVIndex          float64
	WaveHeightM      float64
	WavePeriodS      float64
	WaveDirectionDeg float64
	SeaSurfaceTempC  float64
}

// Len returns the number of hourly points in the series.
func (s *HourlySeries) Len() int {
	return len(s.Times)
}

// At returns the sample at index i. The index must be in range.
func (s *HourlySeries) At(i int) Sample {
	return Sample{
		Time:             s.Times[i],
		AirTempC:         s.AirTempC[i],
		HumidityPct:      s.HumidityPct[i],
		WindSpeedMS:      s.WindSpeedMS[i],
		WindDirectionDeg: s.WindDirectionDeg[i],
		PrecipitationMM:  s.PrecipitationMM[i],
		UVIndex:          s.UVIndex[i],
		WaveHeightM:      s.WaveHeightM[i],
		WavePeriodS:      s.WavePeriodS[i],
		WaveDirectionDeg: s.WaveDirectionDeg[i],
		SeaSurfaceTempC:  s.SeaSurfaceTempC[i],
	}
}

// NearestIndex linear-scans the timestamp sequence for the index with the
// minimum absolute difference from target. The scan keeps the first strict
// minimum, so ties resolve to the lower index. Returns -1 for an empty
// series.
func (s *HourlySeries) NearestIndex(target time.Time) int {
	best := -1
	var bestDiff time.Duration

	for i, ts := range s.Times {
		diff := target.Sub(ts)
		if diff < 0 {
			diff = -diff
		}
		if best == -1 || diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	return best
}

// Rainfall72At sums 72 hourly precipitation values ending at index i,
// clamped at the series start.
func (s *HourlySeries) Rainfall72At(i int) float64 {
	if i >= len(s.PrecipitationMM) {
		i = len(s.PrecipitationMM) - 1
	}
	start := i - 71
	if start < 0 {
		start = 0
	}

	var total float64
	for j := start; j <= i && j >= 0; j++ {
		total += s.PrecipitationMM[j]
	}
	return total
}

// SyntheticSeries builds the documented flat fallback series: hourly points
// starting at the top of the current hour, every variable held at its
// neutral default.
func SyntheticSeries(lat, lon float64, now time.Time, hours int) *HourlySeries {
	if hours <= 0 {
		hours = DefaultSeriesLength
	}

	start := now.Truncate(time.Hour)
	s := &HourlySeries{
		Lat:              lat,
		Lon:              lon,
		Times:            make([]time.Time, hours),
		AirTempC:         make([]float64, hours),
		HumidityPct:      make([]float64, hours),
		WindSpeedMS:      make([]float64, hours),
		WindDirectionDeg: make([]float64, hours),
		PrecipitationMM:  make([]float64, hours),
		UVIndex:          make([]float64, hours),
		WaveHeightM:      make([]float64, hours),
		WavePeriodS:      make([]float64, hours),
		WaveDirectionDeg: make([]float64, hours),
		SeaSurfaceTempC:  make([]float64, hours),
		Synthetic:        true,
		FetchedAt:        now,
	}

	for i := 0; i < hours; i++ {
		s.Times[i] = start.Add(time.Duration(i) * time.Hour)
		s.AirTempC[i] = DefaultAirTempC
		s.HumidityPct[i] = DefaultHumidityPct
		s.WindSpeedMS[i] = DefaultWindSpeedMS
		s.WindDirectionDeg[i] = DefaultWindDirDeg
		s.PrecipitationMM[i] = DefaultPrecipMM
		s.UVIndex[i] = DefaultUVIndex
		s.WaveHeightM[i] = DefaultWaveHeightM
		s.WavePeriodS[i] = DefaultWavePeriodS
		s.WaveDirectionDeg[i] = DefaultWaveDirDeg
		s.SeaSurfaceTempC[i] = DefaultSeaSurfaceC
	}

	return s
}

// padTo stretches or creates a variable slice so it is index-aligned with a
// timestamp sequence of length n, filling missing tail values with the
// given neutral default.
func padTo(values []float64, n int, neutral float64) []float64 {
	if len(values) == n {
		return values
	}

	out := make([]float64, n)
	copy(out, values)
	for i := len(values); i < n; i++ {
		out[i] = neutral
	}
	return out
}

// Align enforces the series invariant: every variable slice is index-aligned
// to Times, with missing values defaulted rather than aborting.
func (s *HourlySeries) Align() {
	n := len(s.Times)
	s.AirTempC = padTo(s.AirTempC, n, DefaultAirTempC)
	s.HumidityPct = padTo(s.HumidityPct, n, DefaultHumidityPct)
	s.WindSpeedMS = padTo(s.WindSpeedMS, n, DefaultWindSpeedMS)
	s.WindDirectionDeg = padTo(s.WindDirectionDeg, n, DefaultWindDirDeg)
	s.PrecipitationMM = padTo(s.PrecipitationMM, n, DefaultPrecipMM)
	s.UVIndex = padTo(s.UVIndex, n, DefaultUVIndex)
	s.WaveHeightM = padTo(s.WaveHeightM, n, DefaultWaveHeightM)
	s.WavePeriodS = padTo(s.WavePeriodS, n, DefaultWavePeriodS)
	s.WaveDirectionDeg = padTo(s.WaveDirectionDeg, n, DefaultWaveDirDeg)
	s.SeaSurfaceTempC = padTo(s.SeaSurfaceTempC, n, DefaultSeaSurfaceC)
}

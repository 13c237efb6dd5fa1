package alerts

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/shorecast/shorecast/internal/beach"
	"github.com/shorecast/shorecast/internal/marine"
	"github.com/shorecast/shorecast/internal/regulator"
	"github.com/shorecast/shorecast/internal/report"
	"github.com/shorecast/shorecast/internal/scoring"
	"github.com/shorecast/shorecast/internal/tide"
)

// BeachResolver resolves the target beach for a request.
type BeachResolver interface {
	Resolve(ctx context.Context, id *int, lat, lon float64) (*beach.Beach, error)
}

// RegulatorSource supplies the official beach status listing.
type RegulatorSource interface {
	GetStatuses(ctx context.Context) ([]regulator.Entry, error)
}

// MarineSource supplies the hourly forecast series for a coordinate.
type MarineSource interface {
	GetHourly(ctx context.Context, lat, lon float64) (*marine.HourlySeries, error)
}

// TideSource supplies tide data for a coordinate.
type TideSource interface {
	GetForLocation(ctx context.Context, lat, lon float64) (*tide.StationData, error)
}

// CommunitySource supplies the aggregated crowd-report signal for a beach.
type CommunitySource interface {
	Summarize(ctx context.Context, beachID int, beachLat, beachLon float64) (*report.Summary, error)
}

// FlagSource gates optional composition inputs at runtime.
type FlagSource interface {
	IsCommunitySignalEnabled(ctx context.Context) bool
	IsSewageFlagEnabled(ctx context.Context) bool
}

// ServiceConfig holds configuration for the alerts orchestrator.
type ServiceConfig struct {
	Beaches   BeachResolver
	Regulator RegulatorSource
	Marine    MarineSource
	Tides     TideSource
	Community CommunitySource

	// Flags is optional; without one every input is enabled.
	Flags FlagSource

	Logger zerolog.Logger

	// Clock anchors "now". Defaults to the real clock; tests supply a fake.
	Clock clockwork.Clock

	// Metrics receives composition events. Defaults to NopSink.
	Metrics MetricsSink

	// UpstreamTimeout bounds each fan-out call (default: 10 seconds).
	UpstreamTimeout time.Duration
}

// Service composes AlertsResponses. Stateless across requests; every
// upstream failure is absorbed into a documented neutral default, so a
// request fails only when the beach itself cannot be resolved.
type Service struct {
	beaches   BeachResolver
	regulator RegulatorSource
	marine    MarineSource
	tides     TideSource
	community CommunitySource
	flags     FlagSource

	logger  zerolog.Logger
	clock   clockwork.Clock
	metrics MetricsSink
	timeout time.Duration
}

// NewService creates a new alerts orchestrator.
func NewService(cfg ServiceConfig) *Service {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NopSink{}
	}

	timeout := cfg.UpstreamTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Service{
		beaches:   cfg.Beaches,
		regulator: cfg.Regulator,
		marine:    cfg.Marine,
		tides:     cfg.Tides,
		community: cfg.Community,
		flags:     cfg.Flags,
		logger:    cfg.Logger,
		clock:     clock,
		metrics:   metrics,
		timeout:   timeout,
	}
}

// fetched holds the fan-out results. Each field is written by exactly one
// goroutine before the join, so no lock is needed.
type fetched struct {
	entries      []regulator.Entry
	regulatorOK  bool
	series       *marine.HourlySeries
	station      *tide.StationData
	summary      *report.Summary
	communityOK  bool
	communityCut bool
}

// Compose builds the full alerts artifact for one beach. The only error it
// returns is a failed beach resolution; every upstream failure is replaced
// by that source's neutral default.
func (s *Service) Compose(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	s.metrics.CompositionStarted(ctx)

	b, err := s.beaches.Resolve(ctx, req.BeachID, req.Lat, req.Lon)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()

	horizons := req.Horizons
	if len(horizons) == 0 {
		horizons = DefaultHorizons
	}

	f := s.fanOut(ctx, b)

	// Neutral defaults for anything the fan-out could not deliver. An
	// empty series counts as malformed and gets the same treatment.
	if f.series == nil || f.series.Len() == 0 {
		f.series = marine.SyntheticSeries(b.Lat, b.Lon, now, marine.DefaultSeriesLength)
	}
	if f.summary == nil {
		f.summary = &report.Summary{Level: report.LevelNone, Why: []string{}}
	}

	resolution := regulator.Resolve(f.entries, b.Name)

	resp := s.assemble(ctx, b, now, horizons, f, resolution)

	s.metrics.CompositionCompleted(ctx, time.Since(start))
	return resp, nil
}

// fanOut issues the four upstream fetches concurrently. Each call carries
// its own timeout and is independently allowed to fail.
func (s *Service) fanOut(ctx context.Context, b *beach.Beach) *fetched {
	f := &fetched{}

	fetchCommunity := s.flags == nil || s.flags.IsCommunitySignalEnabled(ctx)
	f.communityCut = !fetchCommunity

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		entries, err := s.regulator.GetStatuses(callCtx)
		if err != nil {
			s.absorb(ctx, "regulator", err)
			return
		}
		f.entries = entries
		f.regulatorOK = true
	}()

	go func() {
		defer wg.Done()
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		series, err := s.marine.GetHourly(callCtx, b.Lat, b.Lon)
		if err != nil {
			s.absorb(ctx, "marine", err)
			return
		}
		f.series = series
	}()

	go func() {
		defer wg.Done()
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		station, err := s.tides.GetForLocation(callCtx, b.Lat, b.Lon)
		if err != nil {
			s.absorb(ctx, "tide", err)
			return
		}
		f.station = station
	}()

	if fetchCommunity {
		wg.Add(1)
		go func() {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			summary, err := s.community.Summarize(callCtx, b.ID, b.Lat, b.Lon)
			if err != nil {
				s.absorb(ctx, "community", err)
				return
			}
			f.summary = summary
			f.communityOK = true
		}()
	}

	wg.Wait()
	return f
}

func (s *Service) absorb(ctx context.Context, source string, err error) {
	s.logger.Warn().
		Err(err).
		Str("source", source).
		Msg("upstream unavailable, composing with neutral default")
	s.metrics.UpstreamFailure(ctx, source)
}

// communityBump reports whether the crowd signal is strong enough to add a
// risk point at horizon zero.
func communityBump(level report.AlertLevel) bool {
	return level == report.LevelModerate || level == report.LevelStrong
}

func (s *Service) assemble(ctx context.Context, b *beach.Beach, now time.Time, horizons []int, f *fetched, resolution *regulator.Resolution) *Response {
	// Water temperature comes from the tide station; a missing station or
	// missing sensor leaves it nil and the comfort water sub-score neutral.
	var waterC, waterF *float64
	if f.station != nil && f.station.WaterTempC != nil {
		waterC = f.station.WaterTempC
		v := scoring.FahrenheitFromCelsius(*waterC)
		waterF = &v
	}

	bump := communityBump(f.summary.Level)

	safety := SafetyBlock{
		OfficialStatus: resolution.Status,
		OfficialReason: resolution.Reason,
		Horizons:       make([]HorizonRisk, 0, len(horizons)),
		Why:            []string{},
		Sources:        s.sources(f),
	}
	comfort := ComfortBlock{
		Horizons: make([]HorizonComfort, 0, len(horizons)),
		Why:      []string{},
	}

	for _, h := range horizons {
		target := now.Add(time.Duration(h) * time.Hour)
		idx := f.series.NearestIndex(target)
		if idx < 0 {
			continue
		}
		sample := f.series.At(idx)
		windMPH := scoring.MPHFromMS(sample.WindSpeedMS)

		rf := scoring.RiskFactors{
			Rainfall72MM:     f.series.Rainfall72At(idx),
			WindSpeedMPH:     windMPH,
			WindDirectionDeg: sample.WindDirectionDeg,
			WaveHeightM:      sample.WaveHeightM,
			UVIndex:          sample.UVIndex,
		}

		points := scoring.RiskPoints(rf)
		if h == 0 && bump {
			// The only horizon where the community signal perturbs risk.
			points++
		}
		level := scoring.LevelFromPoints(points)
		verdict := scoring.Verdict(level, resolution.Status)

		safety.Horizons = append(safety.Horizons, HorizonRisk{
			HorizonHours: h,
			Level:        level,
			Verdict:      verdict,
		})

		if h == 0 {
			safety.Status = verdict
			safety.Why = append(safety.Why, scoring.ExplainRisk(rf)...)
			if bump {
				safety.Why = append(safety.Why, "elevated community reports")
			}
			if resolution.Reason != "" {
				safety.Why = append(safety.Why, resolution.Reason)
			}
		}

		feels := scoring.FeelsLike(scoring.FahrenheitFromCelsius(sample.AirTempC), sample.HumidityPct, windMPH)
		score := scoring.ComfortScore(scoring.ComfortFactors{
			FeelsLikeF:       feels,
			WaterTempF:       waterF,
			WindSpeedMPH:     windMPH,
			WindDirectionDeg: sample.WindDirectionDeg,
			UVIndex:          sample.UVIndex,
			WaveHeightFt:     scoring.FeetFromMeters(sample.WaveHeightM),
		})
		comfort.Horizons = append(comfort.Horizons, HorizonComfort{HorizonHours: h, Score: score})
	}

	if len(safety.Horizons) == 0 {
		// Malformed series: trend conservative rather than optimistic.
		safety.Status = scoring.VerdictSlow
		safety.Why = append(safety.Why, "no forecast available")
	}

	comfort.BestWindow = s.bestWindow(f.series, now, waterF)
	if comfort.BestWindow != nil {
		comfort.Why = append(comfort.Why,
			"best conditions around "+comfort.BestWindow.StartsAt.Format("15:04 MST"))
	}
	if waterF == nil {
		comfort.Why = append(comfort.Why, "water temperature unknown")
	}

	sample0 := f.series.At(f.series.NearestIndex(now))
	wind0 := scoring.MPHFromMS(sample0.WindSpeedMS)
	air0 := scoring.FahrenheitFromCelsius(sample0.AirTempC)

	ocean := OceanBlock{
		TideState:        tide.StateUnknown,
		WaveHeightM:      sample0.WaveHeightM,
		WavePeriodS:      sample0.WavePeriodS,
		WaveDirectionDeg: sample0.WaveDirectionDeg,
		WaterTempC:       waterC,
	}
	if f.station != nil {
		ocean.TideState = f.station.StateAt(now)
		if e := f.station.NextEvent(now); e != nil {
			ocean.NextTide = &TideEventInfo{Type: e.Type, Time: e.Time, HeightM: e.HeightM}
		}
	}

	weather := WeatherBlock{
		AirTempF:         air0,
		FeelsLikeF:       scoring.FeelsLike(air0, sample0.HumidityPct, wind0),
		HumidityPct:      sample0.HumidityPct,
		WindSpeedMPH:     wind0,
		WindDirectionDeg: sample0.WindDirectionDeg,
		UVIndex:          sample0.UVIndex,
		PrecipitationMM:  sample0.PrecipitationMM,
		Synthetic:        f.series.Synthetic,
	}

	pollution := PollutionBlock{}
	sewageEnabled := s.flags == nil || s.flags.IsSewageFlagEnabled(ctx)
	if sewageEnabled && b.SouthBay && regulator.SewageReason(resolution.Reason) {
		pollution.SewageFlag = true
		pollution.Reason = resolution.Reason
		pollution.Link = regulator.WaterQualityLink
	}

	community := CommunityBlock{
		Level:        f.summary.Level,
		DominantType: f.summary.DominantType,
		Last2h:       ReportCounts{Odor: f.summary.Last2h.Odor, Debris: f.summary.Last2h.Debris},
		Last24h:      ReportCounts{Odor: f.summary.Last24h.Odor, Debris: f.summary.Last24h.Debris},
		Why:          f.summary.Why,
	}
	if community.Why == nil {
		community.Why = []string{}
	}

	return &Response{
		Beach: BeachInfo{
			ID:     b.ID,
			Name:   b.Name,
			Lat:    b.Lat,
			Lon:    b.Lon,
			Agency: b.Agency,
		},
		AsOf:      now,
		Safety:    safety,
		Comfort:   comfort,
		Ocean:     ocean,
		Weather:   weather,
		Pollution: pollution,
		Community: community,
	}
}

// bestWindow scans comfort over the next day of forecast for the most
// pleasant contiguous span.
func (s *Service) bestWindow(series *marine.HourlySeries, now time.Time, waterF *float64) *BestWindow {
	start := series.NearestIndex(now)
	if start < 0 {
		return nil
	}

	end := start + 24
	if end > series.Len() {
		end = series.Len()
	}

	scores := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		sample := series.At(i)
		windMPH := scoring.MPHFromMS(sample.WindSpeedMS)
		feels := scoring.FeelsLike(scoring.FahrenheitFromCelsius(sample.AirTempC), sample.HumidityPct, windMPH)
		scores = append(scores, scoring.ComfortScore(scoring.ComfortFactors{
			FeelsLikeF:       feels,
			WaterTempF:       waterF,
			WindSpeedMPH:     windMPH,
			WindDirectionDeg: sample.WindDirectionDeg,
			UVIndex:          sample.UVIndex,
			WaveHeightFt:     scoring.FeetFromMeters(sample.WaveHeightM),
		}))
	}

	w, ok := scoring.BestWindow(scores, scoring.DefaultWindowWidth)
	if !ok {
		return nil
	}

	return &BestWindow{
		StartsAt:  series.Times[start+w.Start],
		Hours:     w.Width,
		MeanScore: w.Mean,
	}
}

// sources names the inputs that actually contributed to this composition.
func (s *Service) sources(f *fetched) []string {
	sources := make([]string, 0, 4)

	if f.series.Synthetic {
		sources = append(sources, "synthetic-forecast")
	} else {
		sources = append(sources, "open-meteo")
	}
	if f.station != nil {
		sources = append(sources, "noaa-tides")
	}
	if f.regulatorOK {
		sources = append(sources, "sdbeachinfo")
	}
	if f.communityOK {
		sources = append(sources, "community-reports")
	}

	return sources
}

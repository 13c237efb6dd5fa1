package alerts_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shorecast/shorecast/internal/alerts"
	"github.com/shorecast/shorecast/internal/beach"
	"github.com/shorecast/shorecast/internal/marine"
	"github.com/shorecast/shorecast/internal/regulator"
	"github.com/shorecast/shorecast/internal/report"
	"github.com/shorecast/shorecast/internal/scoring"
	"github.com/shorecast/shorecast/internal/tide"
)

type stubBeaches struct {
	beach *beach.Beach
	err   error
}

func (s *stubBeaches) Resolve(_ context.Context, _ *int, _, _ float64) (*beach.Beach, error) {
	return s.beach, s.err
}

type stubRegulator struct {
	entries []regulator.Entry
	err     error
}

func (s *stubRegulator) GetStatuses(_ context.Context) ([]regulator.Entry, error) {
	return s.entries, s.err
}

type stubMarine struct {
	series *marine.HourlySeries
	err    error
}

func (s *stubMarine) GetHourly(_ context.Context, _, _ float64) (*marine.HourlySeries, error) {
	return s.series, s.err
}

type stubTides struct {
	station *tide.StationData
	err     error
}

func (s *stubTides) GetForLocation(_ context.Context, _, _ float64) (*tide.StationData, error) {
	return s.station, s.err
}

type stubCommunity struct {
	mu      sync.Mutex
	summary *report.Summary
	err     error
	calls   int
}

func (s *stubCommunity) Summarize(_ context.Context, _ int, _, _ float64) (*report.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.summary, s.err
}

func (s *stubCommunity) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubFlags struct {
	community bool
	sewage    bool
}

func (s *stubFlags) IsCommunitySignalEnabled(_ context.Context) bool { return s.community }
func (s *stubFlags) IsSewageFlagEnabled(_ context.Context) bool      { return s.sewage }

// recordingSink captures metric events for assertions.
type recordingSink struct {
	mu        sync.Mutex
	started   int
	completed int
	failures  []string
}

func (s *recordingSink) CompositionStarted(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started++
}

func (s *recordingSink) CompositionCompleted(_ context.Context, _ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed++
}

func (s *recordingSink) UpstreamFailure(_ context.Context, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, source)
}

var testStart = time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)

func imperialBeach() *beach.Beach {
	return &beach.Beach{
		ID:       1,
		Name:     "Imperial Beach",
		Lat:      32.5793,
		Lon:      -117.1336,
		Agency:   "City of Imperial Beach",
		GeomID:   "IB",
		SouthBay: true,
	}
}

// calmSeries builds a pleasant 96h forecast: 75F air, light offshore wind,
// small waves, moderate UV, no rain.
func calmSeries(n int) *marine.HourlySeries {
	s := &marine.HourlySeries{Lat: 32.5793, Lon: -117.1336, FetchedAt: testStart}
	for i := 0; i < n; i++ {
		s.Times = append(s.Times, testStart.Add(time.Duration(i)*time.Hour))
		s.AirTempC = append(s.AirTempC, 23.9)
		s.HumidityPct = append(s.HumidityPct, 50)
		s.WindSpeedMS = append(s.WindSpeedMS, 2.0)
		s.WindDirectionDeg = append(s.WindDirectionDeg, 90)
		s.PrecipitationMM = append(s.PrecipitationMM, 0)
		s.UVIndex = append(s.UVIndex, 4)
		s.WaveHeightM = append(s.WaveHeightM, 0.3)
		s.WavePeriodS = append(s.WavePeriodS, 10)
		s.WaveDirectionDeg = append(s.WaveDirectionDeg, 270)
		s.SeaSurfaceTempC = append(s.SeaSurfaceTempC, 19)
	}
	return s
}

func testStation() *tide.StationData {
	temp := 20.0
	at := testStart.Add(-time.Hour)
	return &tide.StationData{
		StationID:   "9410170",
		WaterTempC:  &temp,
		WaterTempAt: &at,
		Events: []tide.Event{
			{Type: tide.EventHigh, Time: testStart.Add(3 * time.Hour), HeightM: 1.6},
			{Type: tide.EventLow, Time: testStart.Add(9 * time.Hour), HeightM: 0.2},
		},
		FetchedAt: testStart,
	}
}

type fixture struct {
	beaches   *stubBeaches
	regulator *stubRegulator
	marine    *stubMarine
	tides     *stubTides
	community *stubCommunity
	clock     *clockwork.FakeClock
	sink      *recordingSink
}

func healthyFixture() *fixture {
	return &fixture{
		beaches:   &stubBeaches{beach: imperialBeach()},
		regulator: &stubRegulator{entries: []regulator.Entry{}},
		marine:    &stubMarine{series: calmSeries(96)},
		tides:     &stubTides{station: testStation()},
		community: &stubCommunity{summary: &report.Summary{Level: report.LevelNone, Why: []string{}}},
		clock:     clockwork.NewFakeClockAt(testStart),
		sink:      &recordingSink{},
	}
}

func (f *fixture) service(flags alerts.FlagSource) *alerts.Service {
	return alerts.NewService(alerts.ServiceConfig{
		Beaches:   f.beaches,
		Regulator: f.regulator,
		Marine:    f.marine,
		Tides:     f.tides,
		Community: f.community,
		Flags:     flags,
		Logger:    zerolog.Nop(),
		Clock:     f.clock,
		Metrics:   f.sink,
	})
}

func TestCompose_HappyPath(t *testing.T) {
	f := healthyFixture()
	svc := f.service(nil)

	resp, err := svc.Compose(context.Background(), alerts.Request{Lat: 32.58, Lon: -117.13})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Beach.ID)
	assert.Equal(t, "Imperial Beach", resp.Beach.Name)
	assert.Equal(t, testStart, resp.AsOf)

	// Calm conditions on an open beach compose to GO at every horizon.
	assert.Equal(t, scoring.VerdictGo, resp.Safety.Status)
	assert.Equal(t, scoring.StatusOpen, resp.Safety.OfficialStatus)
	require.Len(t, resp.Safety.Horizons, 4)
	for _, h := range resp.Safety.Horizons {
		assert.Equal(t, scoring.RiskLow, h.Level)
		assert.Equal(t, scoring.VerdictGo, h.Verdict)
	}

	require.Len(t, resp.Comfort.Horizons, 4)
	for _, h := range resp.Comfort.Horizons {
		assert.Greater(t, h.Score, 70)
	}
	require.NotNil(t, resp.Comfort.BestWindow)
	assert.Equal(t, 3, resp.Comfort.BestWindow.Hours)

	assert.Equal(t, tide.StateFlood, resp.Ocean.TideState)
	require.NotNil(t, resp.Ocean.NextTide)
	assert.Equal(t, tide.EventHigh, resp.Ocean.NextTide.Type)
	require.NotNil(t, resp.Ocean.WaterTempC)
	assert.Equal(t, 20.0, *resp.Ocean.WaterTempC)

	assert.False(t, resp.Weather.Synthetic)
	assert.InDelta(t, 75.0, resp.Weather.AirTempF, 0.1)

	assert.False(t, resp.Pollution.SewageFlag)
	assert.Equal(t, report.LevelNone, resp.Community.Level)

	assert.ElementsMatch(t, resp.Safety.Sources,
		[]string{"open-meteo", "noaa-tides", "sdbeachinfo", "community-reports"})
}

func TestCompose_WeatherProviderDown(t *testing.T) {
	f := healthyFixture()
	f.marine.err = errors.New("open-meteo down")
	svc := f.service(nil)

	resp, err := svc.Compose(context.Background(), alerts.Request{Lat: 32.58, Lon: -117.13})
	require.NoError(t, err)

	// A full response composed from the flat synthetic series, not an error.
	assert.True(t, resp.Weather.Synthetic)
	assert.Contains(t, resp.Safety.Sources, "synthetic-forecast")
	assert.NotContains(t, resp.Safety.Sources, "open-meteo")
	require.Len(t, resp.Safety.Horizons, 4)
	assert.Equal(t, scoring.VerdictGo, resp.Safety.Status)
	assert.InDelta(t, 70.0, resp.Weather.AirTempF, 0.3)

	f.sink.mu.Lock()
	failures := append([]string(nil), f.sink.failures...)
	f.sink.mu.Unlock()
	assert.Contains(t, failures, "marine")
}

func TestCompose_AllUpstreamsDown(t *testing.T) {
	f := healthyFixture()
	f.regulator.err = errors.New("down")
	f.marine.err = errors.New("down")
	f.tides.err = errors.New("down")
	f.community.err = errors.New("down")
	svc := f.service(nil)

	resp, err := svc.Compose(context.Background(), alerts.Request{Lat: 32.58, Lon: -117.13})
	require.NoError(t, err)

	assert.Equal(t, scoring.StatusOpen, resp.Safety.OfficialStatus)
	assert.Equal(t, tide.StateUnknown, resp.Ocean.TideState)
	assert.Nil(t, resp.Ocean.WaterTempC)
	assert.Equal(t, report.LevelNone, resp.Community.Level)
	assert.True(t, resp.Weather.Synthetic)
	assert.Equal(t, []string{"synthetic-forecast"}, resp.Safety.Sources)
}

func TestCompose_BeachNotFound(t *testing.T) {
	f := healthyFixture()
	f.beaches.beach = nil
	f.beaches.err = beach.ErrBeachNotFound
	svc := f.service(nil)

	_, err := svc.Compose(context.Background(), alerts.Request{Lat: 0, Lon: 0})
	assert.ErrorIs(t, err, beach.ErrBeachNotFound)
}

func TestCompose_ClosureDominates(t *testing.T) {
	f := healthyFixture()
	f.regulator.entries = []regulator.Entry{
		{Name: "Imperial Beach", Status: scoring.StatusClosure, Reason: "sewage contamination"},
	}
	svc := f.service(nil)

	resp, err := svc.Compose(context.Background(), alerts.Request{Lat: 32.58, Lon: -117.13})
	require.NoError(t, err)

	assert.Equal(t, scoring.VerdictNoGo, resp.Safety.Status)
	assert.Equal(t, scoring.StatusClosure, resp.Safety.OfficialStatus)
	for _, h := range resp.Safety.Horizons {
		assert.Equal(t, scoring.VerdictNoGo, h.Verdict)
	}
	assert.Contains(t, resp.Safety.Why, "sewage contamination")

	// South-bay beach with a sewage reason gets the pollution flag.
	assert.True(t, resp.Pollution.SewageFlag)
	assert.Equal(t, regulator.WaterQualityLink, resp.Pollution.Link)
}

func TestCompose_SewageFlagNeedsSouthBay(t *testing.T) {
	f := healthyFixture()
	b := imperialBeach()
	b.Name = "La Jolla Shores"
	b.SouthBay = false
	f.beaches.beach = b
	f.regulator.entries = []regulator.Entry{
		{Name: "La Jolla Shores", Status: scoring.StatusClosure, Reason: "sewage contamination"},
	}
	svc := f.service(nil)

	resp, err := svc.Compose(context.Background(), alerts.Request{Lat: 32.857, Lon: -117.256})
	require.NoError(t, err)

	// Verdict still dominated by the closure, but no pollution flag.
	assert.Equal(t, scoring.VerdictNoGo, resp.Safety.Status)
	assert.False(t, resp.Pollution.SewageFlag)
}

func TestCompose_CommunityBumpAtHorizonZeroOnly(t *testing.T) {
	f := healthyFixture()
	// One standing risk point from UV so the bump crosses a level boundary.
	for i := range f.marine.series.UVIndex {
		f.marine.series.UVIndex[i] = 7
	}
	odor := report.TypeOdor
	f.community.summary = &report.Summary{
		Level:        report.LevelModerate,
		DominantType: &odor,
		Last2h:       report.WindowCounts{Odor: 2},
		Last24h:      report.WindowCounts{Odor: 2},
		Why:          []string{"2 report(s) within 500m in the last 2h (2 odor, 0 debris)"},
	}
	svc := f.service(nil)

	resp, err := svc.Compose(context.Background(), alerts.Request{Lat: 32.58, Lon: -117.13})
	require.NoError(t, err)

	require.Len(t, resp.Safety.Horizons, 4)
	assert.Equal(t, scoring.RiskModerate, resp.Safety.Horizons[0].Level)
	for _, h := range resp.Safety.Horizons[1:] {
		assert.Equal(t, scoring.RiskLow, h.Level)
	}
	assert.Contains(t, resp.Safety.Why, "elevated community reports")
	assert.Equal(t, report.LevelModerate, resp.Community.Level)
	assert.Equal(t, 2, resp.Community.Last2h.Odor)
}

func TestCompose_CommunityDisabledByFlag(t *testing.T) {
	f := healthyFixture()
	odor := report.TypeOdor
	f.community.summary = &report.Summary{Level: report.LevelStrong, DominantType: &odor}
	svc := f.service(&stubFlags{community: false, sewage: true})

	resp, err := svc.Compose(context.Background(), alerts.Request{Lat: 32.58, Lon: -117.13})
	require.NoError(t, err)

	assert.Equal(t, 0, f.community.callCount())
	assert.Equal(t, report.LevelNone, resp.Community.Level)
	assert.NotContains(t, resp.Safety.Sources, "community-reports")
}

func TestCompose_Idempotent(t *testing.T) {
	f := healthyFixture()
	svc := f.service(nil)

	first, err := svc.Compose(context.Background(), alerts.Request{Lat: 32.58, Lon: -117.13})
	require.NoError(t, err)
	second, err := svc.Compose(context.Background(), alerts.Request{Lat: 32.58, Lon: -117.13})
	require.NoError(t, err)

	// Identical upstream snapshots and a held clock give identical output.
	assert.Equal(t, first, second)
}

func TestCompose_TimeIndexResolution(t *testing.T) {
	f := healthyFixture()
	// Make hour 24 distinctive: heavy rain concentrated there.
	f.marine.series.PrecipitationMM[24] = 30
	svc := f.service(nil)

	resp, err := svc.Compose(context.Background(), alerts.Request{Lat: 32.58, Lon: -117.13})
	require.NoError(t, err)

	require.Len(t, resp.Safety.Horizons, 4)
	assert.Equal(t, scoring.RiskLow, resp.Safety.Horizons[0].Level)

	// 30mm inside the trailing 72h window scores +2 points at 24h and
	// beyond: exactly Moderate.
	for _, h := range resp.Safety.Horizons[1:] {
		assert.Equal(t, scoring.RiskModerate, h.Level)
		assert.Equal(t, scoring.VerdictSlow, h.Verdict)
	}
}

func TestCompose_RecordsMetrics(t *testing.T) {
	f := healthyFixture()
	svc := f.service(nil)

	_, err := svc.Compose(context.Background(), alerts.Request{Lat: 32.58, Lon: -117.13})
	require.NoError(t, err)

	f.sink.mu.Lock()
	defer f.sink.mu.Unlock()
	assert.Equal(t, 1, f.sink.started)
	assert.Equal(t, 1, f.sink.completed)
	assert.Empty(t, f.sink.failures)
}

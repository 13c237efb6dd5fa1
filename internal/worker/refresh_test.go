package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shorecast/shorecast/internal/tide"
	"github.com/shorecast/shorecast/internal/worker"
)

func TestDefaultRefreshConfig(t *testing.T) {
	cfg := worker.DefaultRefreshConfig()

	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.True(t, cfg.RefreshMarine)
	assert.True(t, cfg.RefreshTides)
	assert.True(t, cfg.RefreshRegulator)
	assert.NotEmpty(t, cfg.Targets)
}

func TestDefaultRefreshTargets(t *testing.T) {
	targets := worker.DefaultRefreshTargets()

	require.Len(t, targets, 2)

	// South Bay beaches refresh first
	var southBay *worker.RefreshTarget
	for i := range targets {
		if targets[i].Name == "South Bay" {
			southBay = &targets[i]
			break
		}
	}
	require.NotNil(t, southBay, "South Bay should be in targets")
	assert.Equal(t, 1, southBay.Priority)
	assert.GreaterOrEqual(t, len(southBay.Points), 2)
}

func TestRefreshConfig_AllPoints(t *testing.T) {
	cfg := worker.RefreshConfig{
		Targets: []worker.RefreshTarget{
			{
				Name:   "Stretch A",
				Points: []worker.Point{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}},
			},
			{
				Name:   "Stretch B",
				Points: []worker.Point{{Lat: 3, Lon: 3}},
			},
		},
	}

	points := cfg.AllPoints()
	assert.Len(t, points, 3)
	assert.Equal(t, cfg.TotalPoints(), 3)
}

func TestRefreshConfig_TotalPoints(t *testing.T) {
	cfg := worker.DefaultRefreshConfig()

	// One point per registry beach
	assert.GreaterOrEqual(t, cfg.TotalPoints(), 5)
}

func TestRefreshJob_Run_NoServices(t *testing.T) {
	// Create a job with no services configured
	cfg := worker.RefreshConfig{
		Targets: []worker.RefreshTarget{
			{
				Name:   "Test",
				Points: []worker.Point{{Lat: 32.58, Lon: -117.13}},
			},
		},
		Concurrency:      1,
		Timeout:          1 * time.Second,
		RefreshMarine:    true,
		RefreshTides:     true,
		RefreshRegulator: true,
	}

	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config: cfg,
		Logger: zerolog.Nop(),
	})

	result := job.Run(context.Background())

	// Should complete without panicking
	assert.NotNil(t, result)
	assert.Equal(t, 1, result.TotalPoints)
	assert.Greater(t, result.Duration, time.Duration(0))
}

// stubTideProvider answers every station request with a fixed payload, or
// an error when broken.
type stubTideProvider struct {
	broken bool
}

func (p *stubTideProvider) GetStationData(_ context.Context, stationID string) (*tide.StationData, error) {
	if p.broken {
		return nil, errors.New("station offline")
	}
	return &tide.StationData{
		StationID: stationID,
		Events: []tide.Event{
			{Type: tide.EventHigh, Time: time.Now().Add(3 * time.Hour), HeightM: 1.5},
		},
		FetchedAt: time.Now(),
	}, nil
}

func (p *stubTideProvider) Name() string { return "stub" }

func TestRefreshJob_Run_WarmsTideCache(t *testing.T) {
	tides := tide.NewService(tide.ServiceConfig{
		Provider: &stubTideProvider{},
		Logger:   zerolog.Nop(),
	})

	cfg := worker.RefreshConfig{
		Targets: []worker.RefreshTarget{
			{
				Name:   "Test",
				Points: []worker.Point{{Lat: 32.58, Lon: -117.13}, {Lat: 32.86, Lon: -117.25}},
			},
		},
		Concurrency:  2,
		Timeout:      1 * time.Second,
		RefreshTides: true,
	}

	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:      cfg,
		Logger:      zerolog.Nop(),
		TideService: tides,
	})

	result := job.Run(context.Background())

	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 0, result.Failed)

	metrics := job.GetMetrics()
	assert.Equal(t, int64(2), metrics.TideRefresh)
}

func TestRefreshJob_Run_ReportsProviderFailures(t *testing.T) {
	tides := tide.NewService(tide.ServiceConfig{
		Provider: &stubTideProvider{broken: true},
		Logger:   zerolog.Nop(),
	})

	cfg := worker.RefreshConfig{
		Targets: []worker.RefreshTarget{
			{
				Name:   "Test",
				Points: []worker.Point{{Lat: 32.58, Lon: -117.13}},
			},
		},
		Concurrency:  1,
		Timeout:      1 * time.Second,
		RefreshTides: true,
	}

	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:      cfg,
		Logger:      zerolog.Nop(),
		TideService: tides,
	})

	result := job.Run(context.Background())

	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "tide", result.Errors[0].Provider)
}

func TestRefreshJob_GetMetrics(t *testing.T) {
	cfg := worker.RefreshConfig{
		Targets: []worker.RefreshTarget{
			{
				Name:   "Test",
				Points: []worker.Point{{Lat: 32.58, Lon: -117.13}},
			},
		},
		Concurrency: 1,
		Timeout:     1 * time.Second,
	}

	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config: cfg,
		Logger: zerolog.Nop(),
	})

	// Run the job
	_ = job.Run(context.Background())

	// Check metrics
	metrics := job.GetMetrics()
	assert.Equal(t, int64(1), metrics.TotalRefreshes)
	assert.NotZero(t, metrics.LastRefreshAt)
	assert.Greater(t, metrics.LastRefreshDuration, time.Duration(0))
}

func TestRefreshJob_MetricsSnapshot(t *testing.T) {
	cfg := worker.RefreshConfig{
		Targets: []worker.RefreshTarget{
			{
				Name:   "Test",
				Points: []worker.Point{{Lat: 32.58, Lon: -117.13}},
			},
		},
		Concurrency: 1,
		Timeout:     1 * time.Second,
	}

	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config: cfg,
		Logger: zerolog.Nop(),
	})

	_ = job.Run(context.Background())

	snapshot := job.MetricsSnapshot()

	assert.Contains(t, snapshot, "total_refreshes")
	assert.Contains(t, snapshot, "successful_refreshes")
	assert.Contains(t, snapshot, "failed_refreshes")
	assert.Contains(t, snapshot, "marine_refreshes")
	assert.Contains(t, snapshot, "tide_refreshes")
	assert.Contains(t, snapshot, "regulator_refreshes")
	assert.Contains(t, snapshot, "last_refresh_at")
	assert.Contains(t, snapshot, "last_refresh_duration")
}

func TestRefreshJob_Run_WithConcurrency(t *testing.T) {
	// Create a job with multiple points
	points := make([]worker.Point, 10)
	for i := range points {
		points[i] = worker.Point{Lat: 32.5 + float64(i)*0.05, Lon: -117.3 + float64(i)*0.01}
	}

	cfg := worker.RefreshConfig{
		Targets: []worker.RefreshTarget{
			{
				Name:   "Test",
				Points: points,
			},
		},
		Concurrency:      3,
		Timeout:          1 * time.Second,
		RefreshMarine:    false,
		RefreshTides:     false,
		RefreshRegulator: false,
	}

	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config: cfg,
		Logger: zerolog.Nop(),
	})

	result := job.Run(context.Background())

	assert.Equal(t, 10, result.TotalPoints)
	assert.Equal(t, 10, result.Successful) // All should succeed since no providers
}

func TestRefreshJob_Run_ContextCancellation(t *testing.T) {
	// Create many points to process
	points := make([]worker.Point, 100)
	for i := range points {
		points[i] = worker.Point{Lat: 32.5 + float64(i)*0.01, Lon: -117.3 + float64(i)*0.001}
	}

	cfg := worker.RefreshConfig{
		Targets: []worker.RefreshTarget{
			{
				Name:   "Test",
				Points: points,
			},
		},
		Concurrency: 1,
		Timeout:     100 * time.Millisecond,
	}

	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config: cfg,
		Logger: zerolog.Nop(),
	})

	// Cancel context immediately
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := job.Run(ctx)

	// Should complete (even if not all points processed)
	assert.NotNil(t, result)
}

func TestRefreshJob_RefreshRegulator_NoService(t *testing.T) {
	cfg := worker.RefreshConfig{
		Targets: []worker.RefreshTarget{
			{Name: "Test", Points: []worker.Point{{Lat: 32.58, Lon: -117.13}}},
		},
		RefreshRegulator: true,
	}

	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config: cfg,
		Logger: zerolog.Nop(),
	})

	err := job.RefreshRegulator(context.Background())
	assert.NoError(t, err)
}

func TestRefreshJob_RefreshRegulator_Disabled(t *testing.T) {
	cfg := worker.RefreshConfig{
		Targets: []worker.RefreshTarget{
			{Name: "Test", Points: []worker.Point{{Lat: 32.58, Lon: -117.13}}},
		},
		RefreshRegulator: false,
	}

	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config: cfg,
		Logger: zerolog.Nop(),
	})

	err := job.RefreshRegulator(context.Background())
	assert.NoError(t, err)
}

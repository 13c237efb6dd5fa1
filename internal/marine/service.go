package marine

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/shorecast/shorecast/internal/telemetry"
	"github.com/shorecast/shorecast/pkg/geo"
)

// Provider defines the interface for weather/marine forecast providers.
type Provider interface {
	// GetHourly fetches the combined weather and marine hourly series for
	// a location, spanning at least 72 forward hours.
	GetHourly(ctx context.Context, lat, lon float64) (*HourlySeries, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the marine service.
type ServiceConfig struct {
	Provider Provider
	Logger   zerolog.Logger

	// CacheTTL is how long to cache a fetched series (default: 15 minutes).
	CacheTTL time.Duration

	// CacheGridSize groups nearby lookups into grid cells in degrees
	// (default: 0.05, roughly 5km).
	CacheGridSize float64

	// StaleIfErrorTTL allows serving stale series on provider errors
	// (default: 2 hours).
	StaleIfErrorTTL time.Duration

	// Metrics records provider request and cache outcomes (optional).
	Metrics *telemetry.ProviderMetrics
}

// Service provides hourly forecast series with caching.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	cacheGridSize   float64
	staleIfErrorTTL time.Duration
	metrics         *telemetry.ProviderMetrics

	mu    sync.RWMutex
	cache map[string]*cachedSeries
}

type cachedSeries struct {
	series    *HourlySeries
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new marine service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 15 * time.Minute
	}

	gridSize := cfg.CacheGridSize
	if gridSize == 0 {
		gridSize = 0.05
	}

	staleTTL := cfg.StaleIfErrorTTL
	if staleTTL == 0 {
		staleTTL = 2 * time.Hour
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		cacheGridSize:   gridSize,
		staleIfErrorTTL: staleTTL,
		metrics:         cfg.Metrics,
		cache:           make(map[string]*cachedSeries),
	}
}

// GetHourly returns the hourly series for a location, cached per grid cell.
func (s *Service) GetHourly(ctx context.Context, lat, lon float64) (*HourlySeries, error) {
	if !geo.ValidCoordinates(lat, lon) {
		return nil, ErrInvalidCoordinates
	}

	key := s.cacheKey(lat, lon)

	s.mu.RLock()
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		s.metrics.RecordCacheHit(s.provider.Name(), "hourly")
		return cached.series, nil
	}
	s.mu.RUnlock()

	s.metrics.RecordCacheMiss(s.provider.Name(), "hourly")
	return s.fetch(ctx, lat, lon, key)
}

func (s *Service) fetch(ctx context.Context, lat, lon float64, key string) (*HourlySeries, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		return cached.series, nil
	}

	s.logger.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Str("provider", s.provider.Name()).
		Msg("fetching hourly series from provider")

	start := time.Now()
	series, err := s.provider.GetHourly(ctx, lat, lon)
	s.metrics.RecordRequest(s.provider.Name(), "hourly", time.Since(start), err)
	if err != nil {
		s.logger.Error().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("failed to fetch hourly series")

		if cached, ok := s.cache[key]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", cached.fetchedAt).
					Msg("serving stale series due to provider error")
				return cached.series, nil
			}
		}

		return nil, ErrProviderUnavailable
	}

	if series.Len() == 0 {
		return nil, ErrEmptySeries
	}
	series.Align()

	now := time.Now()
	s.cache[key] = &cachedSeries{
		series:    series,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	return series, nil
}

// cacheKey groups nearby points into grid cells to reduce provider calls.
func (s *Service) cacheKey(lat, lon float64) string {
	gridLat := math.Floor(lat/s.cacheGridSize) * s.cacheGridSize
	gridLon := math.Floor(lon/s.cacheGridSize) * s.cacheGridSize
	return fmt.Sprintf("%.3f:%.3f", gridLat, gridLon)
}

// InvalidateCache clears all cached series.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedSeries)
}

package tide

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/shorecast/shorecast/internal/telemetry"
	"github.com/shorecast/shorecast/pkg/geo"
)

// Provider defines the interface for tide data providers.
type Provider interface {
	// GetStationData fetches tide predictions and water temperature for a
	// station.
	GetStationData(ctx context.Context, stationID string) (*StationData, error)

	// Name returns the provider name for logging.
	Name() string
}

// Station is a tide observation station the service knows about.
type Station struct {
	ID   string
	Name string
	Lat  float64
	Lon  float64
}

// DefaultStations returns the San Diego regional CO-OPS stations.
func DefaultStations() []Station {
	return []Station{
		{ID: "9410170", Name: "San Diego Bay", Lat: 32.7142, Lon: -117.1736},
		{ID: "9410230", Name: "La Jolla (Scripps Pier)", Lat: 32.8669, Lon: -117.2571},
	}
}

// ServiceConfig holds configuration for the tide service.
type ServiceConfig struct {
	Provider Provider
	Logger   zerolog.Logger

	// Stations overrides the default station list.
	Stations []Station

	// CacheTTL is how long to cache station data (default: 30 minutes).
	// Tide predictions move slowly; a generous cache is fine.
	CacheTTL time.Duration

	// Metrics records provider request and cache outcomes (optional).
	Metrics *telemetry.ProviderMetrics
}

// Service provides tide data for beach coordinates, selecting the nearest
// station and caching per station.
type Service struct {
	provider Provider
	logger   zerolog.Logger
	stations []Station
	cacheTTL time.Duration
	metrics  *telemetry.ProviderMetrics

	mu    sync.RWMutex
	cache map[string]*cachedStation
}

type cachedStation struct {
	data      *StationData
	expiresAt time.Time
}

// NewService creates a new tide service.
func NewService(cfg ServiceConfig) *Service {
	stations := cfg.Stations
	if len(stations) == 0 {
		stations = DefaultStations()
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 30 * time.Minute
	}

	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		stations: stations,
		cacheTTL: cacheTTL,
		metrics:  cfg.Metrics,
		cache:    make(map[string]*cachedStation),
	}
}

// GetForLocation returns tide data from the station nearest to the given
// coordinate.
func (s *Service) GetForLocation(ctx context.Context, lat, lon float64) (*StationData, error) {
	if len(s.stations) == 0 {
		return nil, ErrNoStation
	}

	idx, _ := geo.Nearest(lat, lon, len(s.stations), func(i int) (float64, float64) {
		return s.stations[i].Lat, s.stations[i].Lon
	})
	return s.GetStation(ctx, s.stations[idx].ID)
}

// GetStation returns tide data for a specific station, cached.
func (s *Service) GetStation(ctx context.Context, stationID string) (*StationData, error) {
	s.mu.RLock()
	if cached, ok := s.cache[stationID]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		s.metrics.RecordCacheHit(s.provider.Name(), "station")
		return cached.data, nil
	}
	s.mu.RUnlock()

	s.metrics.RecordCacheMiss(s.provider.Name(), "station")

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache
	if cached, ok := s.cache[stationID]; ok && time.Now().Before(cached.expiresAt) {
		return cached.data, nil
	}

	s.logger.Debug().
		Str("station", stationID).
		Str("provider", s.provider.Name()).
		Msg("fetching tide data from provider")

	start := time.Now()
	data, err := s.provider.GetStationData(ctx, stationID)
	s.metrics.RecordRequest(s.provider.Name(), "station", time.Since(start), err)
	if err != nil {
		s.logger.Error().Err(err).
			Str("station", stationID).
			Msg("failed to fetch tide data")
		return nil, ErrProviderUnavailable
	}

	s.cache[stationID] = &cachedStation{
		data:      data,
		expiresAt: time.Now().Add(s.cacheTTL),
	}
	return data, nil
}

// InvalidateCache clears all cached station data.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedStation)
}

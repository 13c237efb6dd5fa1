package regulator

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/shorecast/shorecast/internal/scoring"
	"github.com/shorecast/shorecast/internal/telemetry"
)

// Provider defines the interface for regulator status providers.
type Provider interface {
	// GetStatuses fetches the full regulator listing.
	GetStatuses(ctx context.Context) ([]Entry, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the regulator service.
type ServiceConfig struct {
	Provider Provider
	Logger   zerolog.Logger

	// CacheTTL is how long to cache the listing (default: 10 minutes).
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving a stale listing on provider errors
	// (default: 6 hours). Closures persist for days; stale beats empty.
	StaleIfErrorTTL time.Duration

	// Metrics records provider request and cache outcomes (optional).
	Metrics *telemetry.ProviderMetrics
}

// Service provides the regulator listing with caching and resolves the
// status for individual beaches.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration
	metrics         *telemetry.ProviderMetrics

	mu        sync.RWMutex
	entries   []Entry
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new regulator service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	staleTTL := cfg.StaleIfErrorTTL
	if staleTTL == 0 {
		staleTTL = 6 * time.Hour
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleTTL,
		metrics:         cfg.Metrics,
	}
}

// GetStatuses returns the current regulator listing, cached.
func (s *Service) GetStatuses(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	if s.entries != nil && time.Now().Before(s.expiresAt) {
		entries := s.entries
		s.mu.RUnlock()
		s.metrics.RecordCacheHit(s.provider.Name(), "statuses")
		return entries, nil
	}
	s.mu.RUnlock()

	s.metrics.RecordCacheMiss(s.provider.Name(), "statuses")

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache
	if s.entries != nil && time.Now().Before(s.expiresAt) {
		return s.entries, nil
	}

	s.logger.Debug().
		Str("provider", s.provider.Name()).
		Msg("fetching regulator listing")

	start := time.Now()
	entries, err := s.provider.GetStatuses(ctx)
	s.metrics.RecordRequest(s.provider.Name(), "statuses", time.Since(start), err)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch regulator listing")

		if s.entries != nil && time.Now().Before(s.fetchedAt.Add(s.staleIfErrorTTL)) {
			s.logger.Warn().
				Time("fetched_at", s.fetchedAt).
				Msg("serving stale regulator listing due to provider error")
			return s.entries, nil
		}
		return nil, ErrProviderUnavailable
	}

	now := time.Now()
	s.entries = entries
	s.fetchedAt = now
	s.expiresAt = now.Add(s.cacheTTL)
	return entries, nil
}

// StatusFor joins the regulator listing to one beach by name. Absence from
// the listing implies OPEN.
func (s *Service) StatusFor(ctx context.Context, beachName string) (*Resolution, error) {
	entries, err := s.GetStatuses(ctx)
	if err != nil {
		return nil, err
	}
	return Resolve(entries, beachName), nil
}

// Resolve joins a regulator listing to a beach name. It prefers the most
// conservative matching entry so overlapping names (e.g. "Silver Strand"
// and "Silver Strand South") never relax a closure.
func Resolve(entries []Entry, beachName string) *Resolution {
	resolution := &Resolution{Status: scoring.StatusOpen}

	for _, e := range entries {
		if !NamesMatch(e.Name, beachName) {
			continue
		}
		if !moreConservative(e.Status, resolution.Status) {
			continue
		}
		resolution.Status = e.Status
		resolution.Matched = e.Name
		resolution.Reason = e.Reason
		resolution.SampledAt = e.SampledAt
	}

	return resolution
}

// moreConservative reports whether candidate is stricter than current.
func moreConservative(candidate, current scoring.OfficialStatus) bool {
	rank := map[scoring.OfficialStatus]int{
		scoring.StatusOpen:     0,
		scoring.StatusAdvisory: 1,
		scoring.StatusClosure:  2,
	}
	return rank[candidate] > rank[current]
}

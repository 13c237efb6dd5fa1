package grid

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Provider defines the interface for risk grid inference providers.
type Provider interface {
	// Predict runs one inference and returns the classified grid.
	Predict(ctx context.Context, f Features) (*Grid, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the grid service.
type ServiceConfig struct {
	// Provider is the external model service. Optional: without one every
	// prediction is a local physics synthesis.
	Provider Provider

	Logger zerolog.Logger

	// Timeout bounds each provider call (default: 5 seconds). The model
	// must never block a composition; on timeout the physics fallback
	// answers instead.
	Timeout time.Duration
}

// Service produces risk grids, preferring the trained model and degrading
// to the physics baseline when the model is unavailable.
type Service struct {
	provider Provider
	logger   zerolog.Logger
	timeout  time.Duration
}

// NewService creates a new grid service.
func NewService(cfg ServiceConfig) *Service {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		timeout:  timeout,
	}
}

// Predict returns a risk grid for the given features. It never fails: any
// provider error degrades to a locally synthesized physics grid with the
// fallback flag set.
func (s *Service) Predict(ctx context.Context, f Features) *Grid {
	if s.provider != nil {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		g, err := s.provider.Predict(callCtx, f)
		if err == nil {
			return g
		}

		s.logger.Warn().
			Err(err).
			Str("provider", s.provider.Name()).
			Str("geom_id", f.GeomID).
			Msg("inference unavailable, synthesizing physics grid")
	}

	return s.Fallback(f)
}

// Fallback synthesizes a physics-only grid from the features.
func (s *Service) Fallback(f Features) *Grid {
	centerLat, centerLon := DefaultCenterLat, DefaultCenterLon
	if f.Lat != nil && f.Lon != nil {
		centerLat, centerLon = *f.Lat, *f.Lon
	}

	base := PhysicsScore(f.Rainfall72MM, f.WindMS, f.TidePhase, f.Community)
	g := Synthesize(f.GeomID, centerLat, centerLon, base, base, 0)
	g.ModelVersion = FallbackModelVersion
	g.Fallback = true
	return g
}

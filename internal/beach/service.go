package beach

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shorecast/shorecast/pkg/geo"
)

// ServiceConfig holds configuration for the beach service.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger
}

// Service resolves beaches from the registry.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService creates a new beach service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}
}

// List returns all registry beaches.
func (s *Service) List(ctx context.Context) ([]Beach, error) {
	return s.repo.List(ctx)
}

// Get returns the beach with the given id.
func (s *Service) Get(ctx context.Context, id int) (*Beach, error) {
	return s.repo.Get(ctx, id)
}

// Resolve finds the beach for a request. When id is non-nil only an exact
// match counts; otherwise the registry beach nearest to (lat, lon) wins.
func (s *Service) Resolve(ctx context.Context, id *int, lat, lon float64) (*Beach, error) {
	if id != nil {
		return s.repo.Get(ctx, *id)
	}

	if !geo.ValidCoordinates(lat, lon) {
		return nil, ErrInvalidCoordinates
	}

	beaches, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(beaches) == 0 {
		return nil, ErrEmptyRegistry
	}

	idx, dist := geo.Nearest(lat, lon, len(beaches), func(i int) (float64, float64) {
		return beaches[i].Lat, beaches[i].Lon
	})

	s.logger.Debug().
		Int("beach_id", beaches[idx].ID).
		Str("beach", beaches[idx].Name).
		Float64("distance_m", dist).
		Msg("resolved beach by coordinate")

	resolved := beaches[idx]
	return &resolved, nil
}

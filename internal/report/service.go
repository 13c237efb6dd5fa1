package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the report service.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger

	// Clock anchors the trailing aggregation windows. Defaults to the real
	// clock; tests supply a fake.
	Clock clockwork.Clock

	// GeofenceRadiusM overrides the default geofence radius.
	GeofenceRadiusM float64
}

// Service provides community report submission, moderation and
// summarization.
type Service struct {
	repo    Repository
	logger  zerolog.Logger
	clock   clockwork.Clock
	radiusM float64
}

// NewService creates a new report service.
func NewService(cfg ServiceConfig) *Service {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	radius := cfg.GeofenceRadiusM
	if radius <= 0 {
		radius = DefaultGeofenceRadiusM
	}

	return &Service{
		repo:    cfg.Repository,
		logger:  cfg.Logger,
		clock:   clock,
		radiusM: radius,
	}
}

// Summarize computes the community summary for a beach at its coordinate.
func (s *Service) Summarize(ctx context.Context, beachID int, beachLat, beachLon float64) (*Summary, error) {
	reports, err := s.repo.List(ctx, beachID)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}

	summary := Aggregate(AggregateInput{
		BeachLat: beachLat,
		BeachLon: beachLon,
		Reports:  reports,
		Now:      s.clock.Now(),
		RadiusM:  s.radiusM,
	})

	s.logger.Debug().
		Int("beach_id", beachID).
		Int("reports", len(reports)).
		Str("level", string(summary.Level)).
		Msg("community summary computed")

	return summary, nil
}

// Submit stores a new unmoderated report and returns it with its assigned id.
func (s *Service) Submit(ctx context.Context, rep Report) (*Report, error) {
	if rep.Type != TypeOdor && rep.Type != TypeDebris {
		return nil, ErrInvalidReport
	}
	if rep.Severity < 1 || rep.Severity > 3 {
		return nil, ErrInvalidReport
	}

	rep.ID = "rpt_" + uuid.New().String()[:22]
	rep.Moderated = false
	rep.Approved = false
	rep.CreatedAt = s.clock.Now()

	if err := s.repo.Add(ctx, rep); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("report_id", rep.ID).
		Int("beach_id", rep.BeachID).
		Str("type", string(rep.Type)).
		Int("severity", rep.Severity).
		Msg("report submitted")

	return &rep, nil
}

// Moderate records the one-time moderation decision for a report.
func (s *Service) Moderate(ctx context.Context, id string, approved bool) error {
	if err := s.repo.Moderate(ctx, id, approved); err != nil {
		return err
	}

	s.logger.Info().
		Str("report_id", id).
		Bool("approved", approved).
		Msg("report moderated")
	return nil
}

// List returns all reports for a beach.
func (s *Service) List(ctx context.Context, beachID int) ([]Report, error) {
	return s.repo.List(ctx, beachID)
}

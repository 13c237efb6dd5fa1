// Package api provides the HTTP API for ShoreCast.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/shorecast/shorecast/internal/alerts"
	"github.com/shorecast/shorecast/internal/api/handler"
	"github.com/shorecast/shorecast/internal/api/middleware"
	"github.com/shorecast/shorecast/internal/beach"
	"github.com/shorecast/shorecast/internal/featureflags"
	"github.com/shorecast/shorecast/internal/grid"
	"github.com/shorecast/shorecast/internal/report"
	"github.com/shorecast/shorecast/internal/tide"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	AlertsService      *alerts.Service
	BeachService       *beach.Service
	GridService        *grid.Service
	ReportService      *report.Service
	FeatureFlagService *featureflags.Service

	// TideStations backs the metadata endpoint; empty falls back to the
	// regional defaults.
	TideStations []tide.Station

	// Ops configures the readiness and status probes.
	Ops handler.OpsConfig
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "shorecast-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsCfg := cfg.Ops
	if opsCfg.Version == "" {
		opsCfg.Version = cfg.Version
		opsCfg.BuildTime = cfg.BuildTime
	}
	opsHandler := handler.NewOpsHandler(opsCfg)
	alertHandler := handler.NewAlertHandler(cfg.AlertsService)
	beachHandler := handler.NewBeachHandler(cfg.BeachService)
	gridHandler := handler.NewGridHandler(cfg.GridService, cfg.BeachService, cfg.FeatureFlagService)
	reportHandler := handler.NewReportHandler(cfg.ReportService)
	metadataHandler := handler.NewMetadataHandler(cfg.TideStations)
	featureFlagsHandler := handler.NewFeatureFlagsHandler(cfg.FeatureFlagService)

	// Create rate limit middleware for different endpoint categories
	writeRateLimit := middleware.RateLimitByIP(middleware.WriteRateLimit)         // 10 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Composed alerts - the main read surface
		r.With(standardRateLimit).Get("/alerts", alertHandler.GetAlerts)

		// Raw grid inference - expensive compute, strict rate limiting
		r.With(expensiveRateLimit).Post("/grid:predict", gridHandler.PredictGrid)

		// Beach registry
		r.With(standardRateLimit).Get("/beaches", beachHandler.ListBeaches)

		// Metadata endpoints (public) - standard rate limiting
		r.Route("/metadata", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/tide-stations", metadataHandler.ListTideStations)
			r.Get("/enums", metadataHandler.GetEnums)
		})

		// Community reports: public submission is throttled hard, reads
		// are standard
		r.Route("/reports", func(r chi.Router) {
			r.With(writeRateLimit).Post("/", reportHandler.CreateReport)
			r.With(standardRateLimit).Get("/", reportHandler.ListReports)
			r.With(writeRateLimit).Post("/{reportId}:moderate", reportHandler.ModerateReport)
		})

		// Admin endpoints - for internal operations
		r.Route("/admin", func(r chi.Router) {
			r.Use(standardRateLimit)

			// Feature flags management
			r.Route("/feature-flags", func(r chi.Router) {
				r.Get("/", featureFlagsHandler.ListFeatureFlags)
				r.Put("/", featureFlagsHandler.UpsertFeatureFlags)
				r.Post("/invalidate", featureFlagsHandler.InvalidateCache)
			})
		})
	})

	return r
}

// Package main provides the entrypoint for the ShoreCast API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/shorecast/shorecast/internal/alerts"
	"github.com/shorecast/shorecast/internal/api"
	"github.com/shorecast/shorecast/internal/api/handler"
	"github.com/shorecast/shorecast/internal/api/middleware"
	"github.com/shorecast/shorecast/internal/api/models"
	"github.com/shorecast/shorecast/internal/beach"
	"github.com/shorecast/shorecast/internal/database"
	"github.com/shorecast/shorecast/internal/featureflags"
	"github.com/shorecast/shorecast/internal/grid"
	"github.com/shorecast/shorecast/internal/grid/inference"
	"github.com/shorecast/shorecast/internal/marine"
	"github.com/shorecast/shorecast/internal/marine/openmeteo"
	"github.com/shorecast/shorecast/internal/provider/resilience"
	"github.com/shorecast/shorecast/internal/regulator"
	"github.com/shorecast/shorecast/internal/regulator/sdbeachinfo"
	"github.com/shorecast/shorecast/internal/report"
	"github.com/shorecast/shorecast/internal/telemetry"
	"github.com/shorecast/shorecast/internal/tide"
	"github.com/shorecast/shorecast/internal/tide/noaa"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "shorecast-api"

	// Load .env file if present; real environments set variables directly
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting ShoreCast API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database when configured. Reports and feature flags fall
	// back to in-memory repositories without one; every other input is
	// upstream-fed and needs no storage.
	var reportRepo report.Repository = report.NewInMemoryRepository()
	var flagRepo featureflags.Repository = featureflags.NewInMemoryRepository()

	var subsystems []handler.SubsystemCheck
	if os.Getenv("DATABASE_ENABLED") == "true" {
		dbConfig := database.ConfigFromEnv()
		pool, err := database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")

		reportRepo = report.NewPostgresRepository(pool)
		flagRepo = featureflags.NewPostgresRepository(pool)
		subsystems = append(subsystems, handler.SubsystemCheck{
			Name:  "database",
			Probe: pool.Ping,
		})
	} else {
		log.Warn().Msg("database disabled - using in-memory repositories")
	}

	providerMetrics, err := telemetry.NewProviderMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider metrics")
	}

	// Resilient HTTP clients, one per upstream, registered so the status
	// endpoint can report circuit state and last-success times
	providerRegistry := resilience.NewRegistry()
	marineHTTP := resilience.NewClient(upstreamClientConfig(openmeteo.ProviderName, providerRegistry))
	tideHTTP := resilience.NewClient(upstreamClientConfig(noaa.ProviderName, providerRegistry))
	regulatorHTTP := resilience.NewClient(upstreamClientConfig(sdbeachinfo.ProviderName, providerRegistry))

	providerProbes := []handler.ProviderProbe{
		registryProbe(providerRegistry, openmeteo.ProviderName),
		registryProbe(providerRegistry, noaa.ProviderName),
		registryProbe(providerRegistry, sdbeachinfo.ProviderName),
	}

	// Domain services
	beachService := beach.NewService(beach.ServiceConfig{
		Repository: beach.NewDefaultRepository(),
		Logger:     log,
	})

	marineService := marine.NewService(marine.ServiceConfig{
		Provider: openmeteo.NewClient(openmeteo.ClientConfig{HTTPClient: marineHTTP, Logger: log}),
		Logger:   log,
		Metrics:  providerMetrics,
	})

	tideService := tide.NewService(tide.ServiceConfig{
		Provider: noaa.NewClient(noaa.ClientConfig{HTTPClient: tideHTTP, Logger: log}),
		Logger:   log,
		Metrics:  providerMetrics,
	})

	regulatorService := regulator.NewService(regulator.ServiceConfig{
		Provider: sdbeachinfo.NewClient(sdbeachinfo.ClientConfig{HTTPClient: regulatorHTTP, Logger: log}),
		Logger:   log,
		Metrics:  providerMetrics,
	})

	reportService := report.NewService(report.ServiceConfig{
		Repository: reportRepo,
		Logger:     log,
	})

	flagService := featureflags.NewService(featureflags.ServiceConfig{
		Repository: flagRepo,
		Logger:     log,
		CacheTTL:   1 * time.Minute,
	})

	// Model service is optional; without one every grid is a local
	// physics synthesis
	var gridProvider grid.Provider
	if inferenceURL := os.Getenv("INFERENCE_URL"); inferenceURL != "" {
		inferenceClient := inference.NewClient(inference.ClientConfig{
			BaseURL: inferenceURL,
			Logger:  log,
		})
		gridProvider = inferenceClient
		providerProbes = append(providerProbes, handler.ProviderProbe{
			Name: inference.ProviderName,
			State: func(ctx context.Context) models.HealthStatus {
				if inferenceClient.Healthy(ctx) {
					return models.HealthStatusOK
				}
				return models.HealthStatusFail
			},
		})
		log.Info().Str("url", inferenceURL).Msg("inference provider configured")
	} else {
		log.Warn().Msg("inference not configured - grid predictions use the physics fallback")
	}

	gridService := grid.NewService(grid.ServiceConfig{
		Provider: gridProvider,
		Logger:   log,
	})

	alertsSink, err := alerts.NewOTelSink()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize alerts metrics")
	}

	alertsService := alerts.NewService(alerts.ServiceConfig{
		Beaches:   beachService,
		Regulator: regulatorService,
		Marine:    marineService,
		Tides:     tideService,
		Community: reportService,
		Flags:     flagService,
		Logger:    log,
		Metrics:   alertsSink,
	})
	log.Info().Msg("alerts orchestrator initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:            Version,
		BuildTime:          BuildTime,
		Logger:             log,
		ServiceName:        serviceName,
		Metrics:            metrics,
		AlertsService:      alertsService,
		BeachService:       beachService,
		GridService:        gridService,
		ReportService:      reportService,
		FeatureFlagService: flagService,
		Ops: handler.OpsConfig{
			Version:    Version,
			BuildTime:  BuildTime,
			Subsystems: subsystems,
			Providers:  providerProbes,
		},
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// upstreamClientConfig builds a resilient client config registered with the
// shared provider registry.
func upstreamClientConfig(name string, registry *resilience.Registry) resilience.ClientConfig {
	cfg := resilience.DefaultClientConfig(name)
	cfg.Registry = registry
	return cfg
}

// registryProbe maps a registered provider's health onto the status
// endpoint's health enum.
func registryProbe(registry *resilience.Registry, name string) handler.ProviderProbe {
	return handler.ProviderProbe{
		Name: name,
		State: func(context.Context) models.HealthStatus {
			health := registry.GetHealth(name)
			if health == nil {
				return models.HealthStatusFail
			}
			switch {
			case health.IsUnhealthy():
				return models.HealthStatusFail
			case health.IsDegraded():
				return models.HealthStatusDegraded
			default:
				return models.HealthStatusOK
			}
		},
		LastSuccessAt: func(context.Context) *time.Time {
			if health := registry.GetHealth(name); health != nil {
				return health.LastSuccessAt
			}
			return nil
		},
	}
}

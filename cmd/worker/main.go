// Package main provides the entrypoint for the ShoreCast refresh worker.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/shorecast/shorecast/internal/marine"
	"github.com/shorecast/shorecast/internal/marine/openmeteo"
	"github.com/shorecast/shorecast/internal/regulator"
	"github.com/shorecast/shorecast/internal/regulator/sdbeachinfo"
	"github.com/shorecast/shorecast/internal/tide"
	"github.com/shorecast/shorecast/internal/tide/noaa"
	"github.com/shorecast/shorecast/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "shorecast-worker"

	// Load .env file if present; real environments set variables directly
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting ShoreCast worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Upstream services share the refresh caches with nothing else, so
	// plain default clients are enough here
	marineService := marine.NewService(marine.ServiceConfig{
		Provider: openmeteo.NewClient(openmeteo.ClientConfig{Logger: log}),
		Logger:   log,
	})
	tideService := tide.NewService(tide.ServiceConfig{
		Provider: noaa.NewClient(noaa.ClientConfig{Logger: log}),
		Logger:   log,
	})
	regulatorService := regulator.NewService(regulator.ServiceConfig{
		Provider: sdbeachinfo.NewClient(sdbeachinfo.ClientConfig{Logger: log}),
		Logger:   log,
	})

	refreshJob := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:           worker.DefaultRefreshConfig(),
		Logger:           log,
		MarineService:    marineService,
		TideService:      tideService,
		RegulatorService: regulatorService,
	})

	// Create HTTP server for health checks
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"version": Version,
			"metrics": refreshJob.MetricsSnapshot(),
		})
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start health check server
	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Prefer Pub/Sub-triggered refreshes; fall back to a local ticker when
	// no subscription is configured
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscription := os.Getenv("PUBSUB_SUBSCRIPTION")

	if projectID != "" && subscription != "" {
		pubsubHandler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscription,
			RefreshJob:       refreshJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer func() {
			if err := pubsubHandler.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close pubsub handler")
			}
		}()

		go func() {
			if err := pubsubHandler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Fatal().Err(err).Msg("pubsub handler stopped")
			}
		}()
	} else {
		log.Warn().Msg("pubsub not configured - refreshing on a local ticker")

		interval := 15 * time.Minute
		if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
			if parsed, err := time.ParseDuration(v); err == nil {
				interval = parsed
			}
		}

		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			// Warm the caches immediately on start
			refreshJob.Run(ctx)
			if err := refreshJob.RefreshRegulator(ctx); err != nil {
				log.Warn().Err(err).Msg("regulator refresh failed")
			}

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					refreshJob.Run(ctx)
					if err := refreshJob.RefreshRegulator(ctx); err != nil {
						log.Warn().Err(err).Msg("regulator refresh failed")
					}
				}
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}

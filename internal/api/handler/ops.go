// Package handler provides HTTP handlers for the ShoreCast API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/shorecast/shorecast/internal/api/models"
	"github.com/shorecast/shorecast/internal/api/response"
)

// SubsystemCheck probes one internal dependency; a nil error means healthy.
type SubsystemCheck struct {
	Name  string
	Probe func(ctx context.Context) error
}

// ProviderProbe reports the health of one external provider, typically from
// its circuit breaker state. LastSuccessAt is optional; when set it supplies
// the timestamp of the provider's last successful request.
type ProviderProbe struct {
	Name          string
	State         func(ctx context.Context) models.HealthStatus
	LastSuccessAt func(ctx context.Context) *time.Time
}

// OpsConfig holds configuration for the ops handler.
type OpsConfig struct {
	Version   string
	BuildTime string

	// Subsystems are probed by the readiness and status endpoints.
	Subsystems []SubsystemCheck

	// Providers are reported by the status endpoint only; a degraded
	// provider never fails readiness because every upstream is optional.
	Providers []ProviderProbe
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version    string
	buildTime  string
	subsystems []SubsystemCheck
	providers  []ProviderProbe
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsConfig) *OpsHandler {
	return &OpsHandler{
		version:    cfg.Version,
		buildTime:  cfg.BuildTime,
		subsystems: cfg.Subsystems,
		providers:  cfg.Providers,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. Fails when
// any subsystem probe fails.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	details := map[string]interface{}{}
	for _, check := range h.subsystems {
		if err := check.Probe(r.Context()); err != nil {
			health.Status = models.HealthStatusFail
			details[check.Name] = err.Error()
		}
	}
	if len(details) > 0 {
		health.Details = details
		response.JSON(w, r, http.StatusServiceUnavailable, health)
		return
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - provider and subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())
	status := models.SystemStatus{
		Status:     models.HealthStatusOK,
		Time:       now,
		Subsystems: make([]models.SubsystemStatus, 0, len(h.subsystems)),
		Providers:  make([]models.ProviderStatus, 0, len(h.providers)),
	}

	for _, check := range h.subsystems {
		sub := models.SubsystemStatus{Name: check.Name, Status: models.HealthStatusOK}
		if err := check.Probe(r.Context()); err != nil {
			detail := err.Error()
			sub.Status = models.HealthStatusFail
			sub.Detail = &detail
			status.Status = models.HealthStatusFail
		}
		status.Subsystems = append(status.Subsystems, sub)
	}

	for _, probe := range h.providers {
		state := probe.State(r.Context())
		provider := models.ProviderStatus{
			Provider: probe.Name,
			Status:   state,
		}
		if probe.LastSuccessAt != nil {
			if at := probe.LastSuccessAt(r.Context()); at != nil {
				ts := models.Timestamp(*at)
				provider.LastSuccessAt = &ts
			}
		}
		status.Providers = append(status.Providers, provider)
		// A broken provider degrades the system but never fails it; the
		// composition engine absorbs upstream loss.
		if state != models.HealthStatusOK && status.Status == models.HealthStatusOK {
			status.Status = models.HealthStatusDegraded
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

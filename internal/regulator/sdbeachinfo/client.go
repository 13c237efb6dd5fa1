// Package sdbeachinfo provides a client for the county beach status feed.
package sdbeachinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/shorecast/shorecast/internal/provider/resilience"
	"github.com/shorecast/shorecast/internal/regulator"
	"github.com/shorecast/shorecast/internal/scoring"
)

const (
	// ProviderName identifies this regulator provider.
	ProviderName = "sdbeachinfo"

	// DefaultBaseURL is the county beach status feed.
	DefaultBaseURL = "https://www.sdbeachinfo.com/api/beaches"
)

// ClientConfig holds configuration for the beach status client.
type ClientConfig struct {
	// BaseURL overrides the feed endpoint (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional). If nil, uses a
	// resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client fetches the county beach status listing.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new beach status client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetStatuses fetches the full regulator listing.
func (c *Client) GetStatuses(ctx context.Context) ([]regulator.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var feed []statusEntry
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	entries := make([]regulator.Entry, 0, len(feed))
	for _, fe := range feed {
		entry := regulator.Entry{
			Name:   fe.Name,
			Status: mapStatus(fe.Status),
			Reason: fe.Reason,
		}
		if fe.SampledAt != "" {
			if ts, err := time.Parse(time.RFC3339, fe.SampledAt); err == nil {
				entry.SampledAt = &ts
			}
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// statusEntry is the feed's per-beach shape.
type statusEntry struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
	SampledAt string `json:"sampledAt,omitempty"`
}

// mapStatus maps feed status strings onto the official status enum.
// Unknown strings map to OPEN: the regulator only publishes actionable
// states, so an unrecognized value must not invent an advisory.
func mapStatus(s string) scoring.OfficialStatus {
	switch s {
	case "closure", "closed":
		return scoring.StatusClosure
	case "advisory", "warning":
		return scoring.StatusAdvisory
	default:
		return scoring.StatusOpen
	}
}

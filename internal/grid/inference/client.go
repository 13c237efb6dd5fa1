// Package inference provides a client for the external risk model service.
// The service runs a trained model over a physics baseline and returns a
// classified cell grid; callers treat any failure as "model unavailable"
// and synthesize a fallback locally.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/shorecast/shorecast/internal/grid"
	"github.com/shorecast/shorecast/internal/provider/resilience"
)

const (
	// ProviderName identifies this inference provider.
	ProviderName = "inference"

	// DefaultBaseURL is the model service address in local development.
	DefaultBaseURL = "http://localhost:8008"
)

// ClientConfig holds configuration for the inference client.
type ClientConfig struct {
	// BaseURL overrides the model service address (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional). If nil, uses a
	// resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client calls the external model service.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new inference client.
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

// Predict runs one inference and returns the classified grid.
func (c *Client) Predict(ctx context.Context, f grid.Features) (*grid.Grid, error) {
	when := f.When
	if when == "" {
		when = "now"
	}

	body := predictRequest{
		When:      when,
		GeomID:    f.GeomID,
		Rainfall:  f.Rainfall72MM,
		Wind:      f.WindMS,
		Tides:     f.TidePhase,
		Waves:     f.WaveHeightM,
		SST:       f.SeaSurfaceC,
		Community: f.Community,
		Lat:       f.Lat,
		Lng:       f.Lon,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var pr predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &grid.Grid{
		Cells:        pr.Cells,
		Aggregate:    pr.Aggregate,
		ModelVersion: pr.Meta.ModelVersion,
		Fallback:     !pr.Meta.ONNX,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

// Healthy probes the model service health endpoint.
func (c *Client) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// predictRequest mirrors the model service's input schema.
type predictRequest struct {
	When      string   `json:"when"`
	GeomID    string   `json:"geomId"`
	Rainfall  float64  `json:"rainfall"`
	Wind      float64  `json:"wind"`
	Tides     float64  `json:"tides"`
	Waves     float64  `json:"waves"`
	SST       float64  `json:"sst"`
	Community float64  `json:"community"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
}

type predictResponse struct {
	Cells     []grid.Cell    `json:"cells"`
	Aggregate grid.Aggregate `json:"aggregate"`
	Meta      struct {
		When         string `json:"when"`
		ONNX         bool   `json:"onnx"`
		ModelVersion string `json:"model_version"`
		ModelHash    string `json:"model_hash"`
	} `json:"meta"`
}

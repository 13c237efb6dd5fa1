// Package noaa provides a NOAA CO-OPS client for tide predictions and
// water temperature observations.
package noaa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/shorecast/shorecast/internal/provider/resilience"
	"github.com/shorecast/shorecast/internal/tide"
)

const (
	// ProviderName identifies this tide provider.
	ProviderName = "noaa-coops"

	// DefaultBaseURL is the NOAA CO-OPS data API.
	DefaultBaseURL = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"

	// maxEvents caps the upcoming high/low list.
	maxEvents = 10

	// noaaTimeLayout is the timestamp format in CO-OPS responses (GMT).
	noaaTimeLayout = "2006-01-02 15:04"
)

// ClientConfig holds configuration for the NOAA client.
type ClientConfig struct {
	// BaseURL overrides the API endpoint (optional).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional). If nil, uses a
	// resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a NOAA CO-OPS API client.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new NOAA CO-OPS client.
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

// GetStationData fetches upcoming high/low predictions and the latest water
// temperature for a station. A missing water temperature is not an error;
// many tide stations do not carry the sensor.
func (c *Client) GetStationData(ctx context.Context, stationID string) (*tide.StationData, error) {
	data := &tide.StationData{
		StationID: stationID,
		FetchedAt: time.Now(),
	}

	events, err := c.fetchPredictions(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("fetching tide predictions: %w", err)
	}
	data.Events = events

	temp, at, err := c.fetchWaterTemp(ctx, stationID)
	if err != nil {
		c.logger.Debug().Err(err).
			Str("station", stationID).
			Msg("water temperature unavailable")
	} else {
		data.WaterTempC = temp
		data.WaterTempAt = at
	}

	return data, nil
}

func (c *Client) fetchPredictions(ctx context.Context, stationID string) ([]tide.Event, error) {
	url := fmt.Sprintf(
		"%s?product=predictions&interval=hilo&datum=MLLW&units=metric&time_zone=gmt&format=json&range=48&station=%s",
		c.baseURL, stationID)

	var resp predictionsResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, err
	}

	events := make([]tide.Event, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		ts, err := time.ParseInLocation(noaaTimeLayout, p.Time, time.UTC)
		if err != nil {
			continue
		}
		height, err := strconv.ParseFloat(p.Height, 64)
		if err != nil {
			continue
		}

		eventType := tide.EventLow
		if p.Type == "H" {
			eventType = tide.EventHigh
		}

		events = append(events, tide.Event{
			Type:    eventType,
			Time:    ts,
			HeightM: height,
		})
		if len(events) == maxEvents {
			break
		}
	}

	return events, nil
}

func (c *Client) fetchWaterTemp(ctx context.Context, stationID string) (*float64, *time.Time, error) {
	url := fmt.Sprintf(
		"%s?product=water_temperature&units=metric&time_zone=gmt&format=json&date=latest&station=%s",
		c.baseURL, stationID)

	var resp waterTempResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, nil, err
	}

	if len(resp.Data) == 0 {
		return nil, nil, fmt.Errorf("no water temperature observations")
	}

	value, err := strconv.ParseFloat(resp.Data[0].Value, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing water temperature: %w", err)
	}

	ts, err := time.ParseInLocation(noaaTimeLayout, resp.Data[0].Time, time.UTC)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing observation time: %w", err)
	}

	return &value, &ts, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// predictionsResponse is the CO-OPS hilo predictions response shape.
type predictionsResponse struct {
	Predictions []struct {
		Time   string `json:"t"`
		Height string `json:"v"`
		Type   string `json:"type"`
	} `json:"predictions"`
}

// waterTempResponse is the CO-OPS water temperature response shape.
type waterTempResponse struct {
	Data []struct {
		Time  string `json:"t"`
		Value string `json:"v"`
	} `json:"data"`
}

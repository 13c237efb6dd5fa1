// Package openmeteo provides an Open-Meteo client for weather and marine
// hourly forecasts.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/shorecast/shorecast/internal/marine"
	"github.com/shorecast/shorecast/internal/provider/resilience"
)

const (
	// ProviderName identifies this forecast provider.
	ProviderName = "open-meteo"

	// DefaultForecastURL is the Open-Meteo weather forecast endpoint.
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

	// DefaultMarineURL is the Open-Meteo marine forecast endpoint.
	DefaultMarineURL = "https://marine-api.open-meteo.com/v1/marine"

	// forecastDays covers the 72h horizon plus slack for trailing rainfall.
	forecastDays = 5
)

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	// ForecastURL overrides the weather endpoint (optional).
	ForecastURL string

	// MarineURL overrides the marine endpoint (optional).
	MarineURL string

	// HTTPClient is the HTTP client to use (optional). If nil, uses a
	// resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an Open-Meteo API client.
type Client struct {
	forecastURL string
	marineURL   string
	httpClient  *resilience.Client
	logger      zerolog.Logger
}

// NewClient creates a new Open-Meteo client.
func NewClient(cfg ClientConfig) *Client {
	forecastURL := cfg.ForecastURL
	if forecastURL == "" {
		forecastURL = DefaultForecastURL
	}

	marineURL := cfg.MarineURL
	if marineURL == "" {
		marineURL = DefaultMarineURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		forecastURL: forecastURL,
		marineURL:   marineURL,
		httpClient:  httpClient,
		logger:      cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetHourly fetches and merges the weather and marine hourly series.
// The weather series defines the canonical timestamp sequence; marine
// variables are index-aligned onto it and padded with neutral defaults
// when the marine endpoint returns fewer hours.
func (c *Client) GetHourly(ctx context.Context, lat, lon float64) (*marine.HourlySeries, error) {
	weather, err := c.fetchForecast(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("fetching weather forecast: %w", err)
	}

	series := &marine.HourlySeries{
		Lat:              lat,
		Lon:              lon,
		Times:            unixTimes(weather.Hourly.Time),
		AirTempC:         weather.Hourly.Temperature2M,
		HumidityPct:      weather.Hourly.RelativeHumidity2M,
		WindSpeedMS:      weather.Hourly.WindSpeed10M,
		WindDirectionDeg: weather.Hourly.WindDirection10M,
		PrecipitationMM:  weather.Hourly.Precipitation,
		UVIndex:          weather.Hourly.UVIndex,
		FetchedAt:        time.Now(),
	}

	// The marine endpoint fails independently of the weather endpoint; a
	// missing swell series degrades to defaults instead of failing the
	// whole fetch.
	swell, err := c.fetchMarine(ctx, lat, lon)
	if err != nil {
		c.logger.Warn().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("marine endpoint unavailable, using default swell")
	} else {
		series.WaveHeightM = swell.Hourly.WaveHeight
		series.WavePeriodS = swell.Hourly.WavePeriod
		series.WaveDirectionDeg = swell.Hourly.WaveDirection
		series.SeaSurfaceTempC = swell.Hourly.SeaSurfaceTemperature
	}

	series.Align()
	return series, nil
}

func (c *Client) fetchForecast(ctx context.Context, lat, lon float64) (*forecastResponse, error) {
	url := fmt.Sprintf(
		"%s?latitude=%.4f&longitude=%.4f&hourly=temperature_2m,relative_humidity_2m,precipitation,wind_speed_10m,wind_direction_10m,uv_index&wind_speed_unit=ms&timeformat=unixtime&forecast_days=%d",
		c.forecastURL, lat, lon, forecastDays)

	var resp forecastResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) fetchMarine(ctx context.Context, lat, lon float64) (*marineResponse, error) {
	url := fmt.Sprintf(
		"%s?latitude=%.4f&longitude=%.4f&hourly=wave_height,wave_period,wave_direction,sea_surface_temperature&timeformat=unixtime&forecast_days=%d",
		c.marineURL, lat, lon, forecastDays)

	var resp marineResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
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

func unixTimes(stamps []int64) []time.Time {
	times := make([]time.Time, len(stamps))
	for i, ts := range stamps {
		times[i] = time.Unix(ts, 0).UTC()
	}
	return times
}

package openmeteo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shorecast/shorecast/internal/marine"
	"github.com/shorecast/shorecast/internal/marine/openmeteo"
	"github.com/shorecast/shorecast/internal/provider/resilience"
)

func hourlyStamps(start int64, n int) []int64 {
	stamps := make([]int64, n)
	for i := range stamps {
		stamps[i] = start + int64(i)*3600
	}
	return stamps
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestClient_GetHourly(t *testing.T) {
	start := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC).Unix()

	forecastServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("latitude"), "32.57")
		assert.Equal(t, "ms", r.URL.Query().Get("wind_speed_unit"))
		assert.Equal(t, "unixtime", r.URL.Query().Get("timeformat"))

		response := map[string]interface{}{
			"latitude":  32.58,
			"longitude": -117.13,
			"hourly": map[string]interface{}{
				"time":                 hourlyStamps(start, 96),
				"temperature_2m":       repeat(22.5, 96),
				"relative_humidity_2m": repeat(65, 96),
				"precipitation":        repeat(0.2, 96),
				"wind_speed_10m":       repeat(4.0, 96),
				"wind_direction_10m":   repeat(270, 96),
				"uv_index":             repeat(6, 96),
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer forecastServer.Close()

	marineServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"latitude":  32.58,
			"longitude": -117.13,
			"hourly": map[string]interface{}{
				"time":                    hourlyStamps(start, 96),
				"wave_height":             repeat(1.1, 96),
				"wave_period":             repeat(12, 96),
				"wave_direction":          repeat(280, 96),
				"sea_surface_temperature": repeat(19.5, 96),
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer marineServer.Close()

	client := openmeteo.NewClient(openmeteo.ClientConfig{
		ForecastURL: forecastServer.URL,
		MarineURL:   marineServer.URL,
		HTTPClient:  resilience.NewClient(resilience.DefaultClientConfig("test")),
	})

	series, err := client.GetHourly(context.Background(), 32.578, -117.133)
	require.NoError(t, err)
	require.Equal(t, 96, series.Len())

	sample := series.At(0)
	assert.Equal(t, 22.5, sample.AirTempC)
	assert.Equal(t, 4.0, sample.WindSpeedMS)
	assert.Equal(t, 270.0, sample.WindDirectionDeg)
	assert.Equal(t, 1.1, sample.WaveHeightM)
	assert.Equal(t, 19.5, sample.SeaSurfaceTempC)
	assert.False(t, series.Synthetic)
	assert.Equal(t, time.Unix(start, 0).UTC(), series.Times[0])
}

func TestClient_GetHourly_MarineEndpointDown(t *testing.T) {
	start := time.Now().UTC().Truncate(time.Hour).Unix()

	forecastServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response := map[string]interface{}{
			"hourly": map[string]interface{}{
				"time":                 hourlyStamps(start, 72),
				"temperature_2m":       repeat(20, 72),
				"relative_humidity_2m": repeat(50, 72),
				"precipitation":        repeat(0, 72),
				"wind_speed_10m":       repeat(3, 72),
				"wind_direction_10m":   repeat(180, 72),
				"uv_index":             repeat(4, 72),
			},
		}
		json.NewEncoder(w).Encode(response)
	}))
	defer forecastServer.Close()

	marineServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer marineServer.Close()

	client := openmeteo.NewClient(openmeteo.ClientConfig{
		ForecastURL: forecastServer.URL,
		MarineURL:   marineServer.URL,
		HTTPClient:  resilience.NewClient(resilience.DefaultClientConfig("test")),
	})

	// Swell defaults in, weather survives.
	series, err := client.GetHourly(context.Background(), 32.578, -117.133)
	require.NoError(t, err)
	require.Equal(t, 72, series.Len())
	assert.Equal(t, marine.DefaultWaveHeightM, series.At(0).WaveHeightM)
	assert.Equal(t, 20.0, series.At(0).AirTempC)
}

func TestClient_GetHourly_ForecastEndpointDown(t *testing.T) {
	forecastServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer forecastServer.Close()

	client := openmeteo.NewClient(openmeteo.ClientConfig{
		ForecastURL: forecastServer.URL,
		MarineURL:   forecastServer.URL,
		HTTPClient: resilience.NewClient(resilience.ClientConfig{
			Name:       "test",
			MaxRetries: 1,
		}),
	})

	_, err := client.GetHourly(context.Background(), 32.578, -117.133)
	assert.Error(t, err)
}

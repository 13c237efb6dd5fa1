package telemetry_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shorecast/shorecast/internal/telemetry"
)

func TestNewProviderMetrics(t *testing.T) {
	pm, err := telemetry.NewProviderMetrics()
	require.NoError(t, err)
	assert.NotNil(t, pm)
}

func TestProviderMetrics_Record(t *testing.T) {
	pm, err := telemetry.NewProviderMetrics()
	require.NoError(t, err)

	// Should not panic
	pm.RecordRequest("open-meteo", "hourly", 120*time.Millisecond, nil)
	pm.RecordRequest("noaa-coops", "station", 50*time.Millisecond, errors.New("timeout"))
	pm.RecordCacheHit("open-meteo", "hourly")
	pm.RecordCacheMiss("sdbeachinfo", "statuses")
}

func TestProviderMetrics_NilReceiver(t *testing.T) {
	// Services hold a possibly-nil metrics handle; recording on nil is a
	// no-op rather than a panic
	var pm *telemetry.ProviderMetrics
	pm.RecordRequest("open-meteo", "hourly", time.Second, nil)
	pm.RecordCacheHit("open-meteo", "hourly")
	pm.RecordCacheMiss("open-meteo", "hourly")
}

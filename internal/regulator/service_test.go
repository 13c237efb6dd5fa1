package regulator_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shorecast/shorecast/internal/regulator"
	"github.com/shorecast/shorecast/internal/scoring"
)

// mockProvider is a mock regulator provider for testing.
type mockProvider struct {
	mu        sync.Mutex
	callCount int
	entries   []regulator.Entry
	err       error
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) GetStatuses(_ context.Context) ([]regulator.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++

	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}

func (m *mockProvider) setError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockProvider) getCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

func defaultEntries() []regulator.Entry {
	return []regulator.Entry{
		{Name: "Imperial Beach", Status: scoring.StatusClosure, Reason: "Tijuana River sewage"},
		{Name: "Silver Strand", Status: scoring.StatusAdvisory, Reason: "bacteria exceedance"},
		{Name: "Coronado", Status: scoring.StatusOpen},
	}
}

func TestService_StatusFor(t *testing.T) {
	provider := &mockProvider{entries: defaultEntries()}
	svc := regulator.NewService(regulator.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	res, err := svc.StatusFor(context.Background(), "Imperial Beach")
	require.NoError(t, err)
	assert.Equal(t, scoring.StatusClosure, res.Status)
	assert.Equal(t, "Tijuana River sewage", res.Reason)

	// Absence from the listing implies OPEN.
	res, err = svc.StatusFor(context.Background(), "La Jolla Shores")
	require.NoError(t, err)
	assert.Equal(t, scoring.StatusOpen, res.Status)
	assert.Empty(t, res.Matched)
}

func TestService_CachesListing(t *testing.T) {
	provider := &mockProvider{entries: defaultEntries()}
	svc := regulator.NewService(regulator.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
		CacheTTL: time.Hour,
	})

	_, err := svc.StatusFor(context.Background(), "Coronado")
	require.NoError(t, err)
	_, err = svc.StatusFor(context.Background(), "Imperial Beach")
	require.NoError(t, err)
	assert.Equal(t, 1, provider.getCallCount())
}

func TestService_StaleIfError(t *testing.T) {
	provider := &mockProvider{entries: defaultEntries()}
	svc := regulator.NewService(regulator.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
		CacheTTL: time.Nanosecond,
	})

	_, err := svc.GetStatuses(context.Background())
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	provider.setError(errors.New("feed down"))

	entries, err := svc.GetStatuses(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestService_ErrorWithoutCache(t *testing.T) {
	provider := &mockProvider{}
	provider.setError(errors.New("feed down"))
	svc := regulator.NewService(regulator.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	_, err := svc.GetStatuses(context.Background())
	assert.ErrorIs(t, err, regulator.ErrProviderUnavailable)
}

func TestResolve_MostConservativeWins(t *testing.T) {
	entries := []regulator.Entry{
		{Name: "Silver Strand South", Status: scoring.StatusAdvisory},
		{Name: "Silver Strand", Status: scoring.StatusClosure, Reason: "sewage spill"},
	}

	res := regulator.Resolve(entries, "Silver Strand")
	assert.Equal(t, scoring.StatusClosure, res.Status)
	assert.Equal(t, "Silver Strand", res.Matched)
}

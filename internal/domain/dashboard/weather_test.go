package dashboard

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

func TestWeatherClientReturnsSnapshot(t *testing.T) {
	provider := &sequenceWeatherProvider{results: []weatherResult{{snapshot: parisSnapshot()}}}
	client := NewWeatherClient(Config{WeatherTimeout: time.Second}, provider, discardLogger())

	snap, err := client.Fetch(context.Background(), "  Paris ")
	require.NoError(t, err)
	require.Equal(t, parisSnapshot(), snap)
	require.Equal(t, []string{"Paris"}, provider.locations)
}

func TestWeatherClientRetriesTransientFailureOnce(t *testing.T) {
	provider := &sequenceWeatherProvider{results: []weatherResult{
		{err: &StatusError{Provider: "openweathermap", Status: http.StatusBadGateway}},
		{snapshot: parisSnapshot()},
	}}
	client := NewWeatherClient(Config{WeatherTimeout: time.Second, WeatherMaxAttempts: 2}, provider, discardLogger())

	snap, err := client.Fetch(context.Background(), "Paris")
	require.NoError(t, err)
	require.Equal(t, "Paris", snap.Location)
	require.Len(t, provider.locations, 2)
}

func TestWeatherClientDoesNotRetryNotFound(t *testing.T) {
	provider := &sequenceWeatherProvider{results: []weatherResult{
		{err: &StatusError{Provider: "openweathermap", Status: http.StatusNotFound}},
		{snapshot: parisSnapshot()},
	}}
	client := NewWeatherClient(Config{WeatherTimeout: time.Second, WeatherMaxAttempts: 2}, provider, discardLogger())

	_, err := client.Fetch(context.Background(), "Atlantis")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, CodeWeatherUnavailable))
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusNotFound, statusErr.Status)
	require.Len(t, provider.locations, 1)
}

func TestWeatherClientGivesUpAfterBoundedRetry(t *testing.T) {
	provider := &sequenceWeatherProvider{results: []weatherResult{
		{err: errors.New("connection reset")},
		{err: errors.New("connection reset")},
		{snapshot: parisSnapshot()},
	}}
	client := NewWeatherClient(Config{WeatherTimeout: time.Second, WeatherMaxAttempts: 5}, provider, discardLogger())

	_, err := client.Fetch(context.Background(), "Paris")
	require.True(t, apperrors.IsCode(err, CodeWeatherUnavailable))
	require.Len(t, provider.locations, 2)
}

func TestWeatherClientTimeoutCountsAsFailure(t *testing.T) {
	provider := &sequenceWeatherProvider{hang: true}
	client := NewWeatherClient(Config{WeatherTimeout: 20 * time.Millisecond, WeatherMaxAttempts: 1}, provider, discardLogger())

	_, err := client.Fetch(context.Background(), "Paris")
	require.True(t, apperrors.IsCode(err, CodeWeatherUnavailable))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestIsTransient(t *testing.T) {
	require.True(t, isTransient(&StatusError{Status: http.StatusServiceUnavailable}))
	require.True(t, isTransient(&StatusError{Status: http.StatusTooManyRequests}))
	require.False(t, isTransient(&StatusError{Status: http.StatusUnauthorized}))
	require.False(t, isTransient(ErrMalformedPayload))
	require.True(t, isTransient(context.DeadlineExceeded))
}

func TestNewWeatherClientZeroSettingsUseDefaults(t *testing.T) {
	client := NewWeatherClient(Config{}, &sequenceWeatherProvider{}, discardLogger())
	require.Equal(t, defaultCallTimeout, client.timeout)
	require.Equal(t, maxWeatherAttempts, client.attempts)
	require.Equal(t, defaultRetryBackoff, client.backoff)

	client = NewWeatherClient(Config{WeatherMaxAttempts: 1, WeatherRetryBackoff: time.Millisecond}, &sequenceWeatherProvider{}, discardLogger())
	require.Equal(t, 1, client.attempts)
	require.Equal(t, time.Millisecond, client.backoff)
}

type weatherResult struct {
	snapshot WeatherSnapshot
	err      error
}

type sequenceWeatherProvider struct {
	results   []weatherResult
	hang      bool
	locations []string
}

func (p *sequenceWeatherProvider) Fetch(ctx context.Context, location string) (WeatherSnapshot, error) {
	p.locations = append(p.locations, location)
	if p.hang {
		<-ctx.Done()
		return WeatherSnapshot{}, ctx.Err()
	}
	idx := len(p.locations) - 1
	if idx >= len(p.results) {
		idx = len(p.results) - 1
	}
	res := p.results[idx]
	return res.snapshot, res.err
}

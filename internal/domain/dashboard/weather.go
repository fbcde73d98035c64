package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

const (
	defaultCallTimeout  = 10 * time.Second
	defaultRetryBackoff = 250 * time.Millisecond
	maxWeatherAttempts  = 2
)

// WeatherClient guards a WeatherProvider with a per-call timeout and a single
// bounded retry for transient failures. Every failure leaves as weather_unavailable.
// Zero settings take the defaults: 10s timeout, 2 attempts, 250ms backoff.
type WeatherClient struct {
	provider WeatherProvider
	timeout  time.Duration
	attempts int
	backoff  time.Duration
	logger   *slog.Logger
}

// NewWeatherClient wraps the provider using the domain configuration.
func NewWeatherClient(cfg Config, provider WeatherProvider, logger *slog.Logger) *WeatherClient {
	timeout := cfg.WeatherTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	attempts := cfg.WeatherMaxAttempts
	if attempts <= 0 || attempts > maxWeatherAttempts {
		attempts = maxWeatherAttempts
	}
	backoff := cfg.WeatherRetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}
	return &WeatherClient{
		provider: provider,
		timeout:  timeout,
		attempts: attempts,
		backoff:  backoff,
		logger:   logger.With("component", "dashboard.weather"),
	}
}

// Fetch resolves the location into a snapshot.
func (c *WeatherClient) Fetch(ctx context.Context, location string) (WeatherSnapshot, error) {
	location = strings.TrimSpace(location)
	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			if err := sleepContext(ctx, c.backoff); err != nil {
				lastErr = err
				break
			}
		}
		snapshot, err := c.fetchOnce(ctx, location)
		if err == nil {
			return snapshot, nil
		}
		lastErr = err
		if ctx.Err() != nil || !isTransient(err) || attempt == c.attempts {
			break
		}
		c.logger.Warn("transient weather failure, retrying", "location", location, "attempt", attempt, "error", err)
	}
	return WeatherSnapshot{}, apperrors.Wrap(CodeWeatherUnavailable, "weather data unavailable for "+location, lastErr)
}

func (c *WeatherClient) fetchOnce(ctx context.Context, location string) (WeatherSnapshot, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.provider.Fetch(callCtx, location)
}

// isTransient treats 5xx, 429, timeouts and transport errors as retryable;
// other HTTP statuses and malformed payloads are not.
func isTransient(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status >= http.StatusInternalServerError || statusErr.Status == http.StatusTooManyRequests
	}
	if errors.Is(err, ErrMalformedPayload) || errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ProfileStore persists the single current user profile.
// Load reports absent (false) for missing or malformed stored data.
type ProfileStore interface {
	Load(ctx context.Context) (UserProfile, bool, error)
	Save(ctx context.Context, profile UserProfile) error
}

// WeatherProvider is a raw weather backend (OpenWeatherMap, static fixture, ...).
type WeatherProvider interface {
	Fetch(ctx context.Context, location string) (WeatherSnapshot, error)
}

// AdviceProvider is a raw advice backend (ML endpoint, rule set, ...).
type AdviceProvider interface {
	Fetch(ctx context.Context, profile UserProfile, weather WeatherSnapshot) ([]AdviceItem, error)
}

// WeatherFetcher is what the orchestrator calls for the weather stage.
type WeatherFetcher interface {
	Fetch(ctx context.Context, location string) (WeatherSnapshot, error)
}

// Advisor is what the orchestrator calls for the advice stage. It never fails.
type Advisor interface {
	Advise(ctx context.Context, profile UserProfile, weather WeatherSnapshot) []AdviceItem
}

// Notifier delivers user-visible notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotificationLog exposes recently emitted notifications, newest first.
type NotificationLog interface {
	Recent(limit int) []Notification
}

// Config wires runtime tunables for the dashboard domain. Zero values select
// the defaults.
type Config struct {
	WeatherTimeout      time.Duration
	WeatherMaxAttempts  int
	WeatherRetryBackoff time.Duration
	AdviceTimeout       time.Duration
	TrendSize           int
}

// ErrMalformedPayload marks provider responses that could not be decoded.
var ErrMalformedPayload = errors.New("malformed provider payload")

// StatusError is returned by HTTP providers for non-success responses.
type StatusError struct {
	Provider string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Status, e.Body)
}

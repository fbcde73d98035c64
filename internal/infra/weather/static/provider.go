package static

import (
	"context"
	"hash/fnv"
	"strings"
	"time"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
	"github.com/yanqian/weather-dashboard/pkg/util"
)

var conditions = []string{"clear sky", "few clouds", "scattered clouds", "light rain", "overcast clouds"}

// Provider returns deterministic readings derived from the location name.
// It needs no API key and backs demos and offline runs.
type Provider struct {
	now func() time.Time
}

// NewProvider constructs the static provider.
func NewProvider() *Provider {
	return &Provider{now: util.NowUTC}
}

// Fetch implements dashboard.WeatherProvider.
func (p *Provider) Fetch(ctx context.Context, location string) (dashboard.WeatherSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return dashboard.WeatherSnapshot{}, err
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(location))))
	seed := h.Sum32()

	return dashboard.WeatherSnapshot{
		Temperature: float64(5 + seed%25),
		Humidity:    float64(40 + (seed>>5)%50),
		WindSpeed:   float64(2 + (seed>>9)%20),
		Visibility:  float64(5 + (seed>>13)%6),
		RainChance:  float64((seed >> 17) % 100),
		AQI:         dashboard.PlaceholderAQI,
		Condition:   conditions[(seed>>21)%uint32(len(conditions))],
		Location:    strings.TrimSpace(location),
		FetchedAt:   p.now(),
	}, nil
}

var _ dashboard.WeatherProvider = (*Provider)(nil)

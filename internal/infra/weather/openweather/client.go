package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
	"github.com/yanqian/weather-dashboard/pkg/util"
)

const (
	defaultBaseURL = "https://api.openweathermap.org"
	providerName   = "openweathermap"
)

// Client fetches current conditions from the OpenWeatherMap API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient builds an API client. Timeouts are applied per call by the caller's context.
func NewClient(baseURL, apiKey string) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
		now:        util.NowUTC,
	}
}

// Fetch retrieves the current weather for a free-form location.
func (c *Client) Fetch(ctx context.Context, location string) (dashboard.WeatherSnapshot, error) {
	query := url.Values{}
	query.Set("q", location)
	query.Set("units", "metric")
	query.Set("appid", c.apiKey)
	endpoint := c.baseURL + "/data/2.5/weather?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return dashboard.WeatherSnapshot{}, fmt.Errorf("build weather request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return dashboard.WeatherSnapshot{}, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return dashboard.WeatherSnapshot{}, &dashboard.StatusError{
			Provider: providerName,
			Status:   resp.StatusCode,
			Body:     strings.TrimSpace(string(payload)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return dashboard.WeatherSnapshot{}, fmt.Errorf("read weather response: %w", err)
	}

	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return dashboard.WeatherSnapshot{}, fmt.Errorf("%w: decode weather response: %v", dashboard.ErrMalformedPayload, err)
	}
	return c.normalize(raw, location)
}

type apiResponse struct {
	Main       *mainBlock    `json:"main"`
	Wind       windBlock     `json:"wind"`
	Visibility float64       `json:"visibility"`
	Clouds     cloudsBlock   `json:"clouds"`
	Weather    []weatherItem `json:"weather"`
	Pop        *float64      `json:"pop"`
	Name       string        `json:"name"`
}

type mainBlock struct {
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
}

type windBlock struct {
	Speed float64 `json:"speed"`
}

type cloudsBlock struct {
	All float64 `json:"all"`
}

type weatherItem struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

func (c *Client) normalize(raw apiResponse, location string) (dashboard.WeatherSnapshot, error) {
	if raw.Main == nil {
		return dashboard.WeatherSnapshot{}, fmt.Errorf("%w: missing main block", dashboard.ErrMalformedPayload)
	}
	if len(raw.Weather) == 0 {
		return dashboard.WeatherSnapshot{}, fmt.Errorf("%w: empty weather list", dashboard.ErrMalformedPayload)
	}

	condition := strings.TrimSpace(raw.Weather[0].Description)
	if condition == "" {
		condition = strings.ToLower(strings.TrimSpace(raw.Weather[0].Main))
	}
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = location
	}
	rainChance := raw.Clouds.All
	if raw.Pop != nil {
		rainChance = *raw.Pop * 100
	}

	return dashboard.WeatherSnapshot{
		Temperature: raw.Main.Temp,
		Humidity:    raw.Main.Humidity,
		WindSpeed:   raw.Wind.Speed,
		Visibility:  raw.Visibility / 1000,
		RainChance:  rainChance,
		AQI:         dashboard.PlaceholderAQI,
		Condition:   condition,
		Location:    name,
		FetchedAt:   c.now(),
	}, nil
}

var _ dashboard.WeatherProvider = (*Client)(nil)

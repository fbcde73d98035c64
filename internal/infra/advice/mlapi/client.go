package mlapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
)

const providerName = "advice-api"

// Client posts profile and weather context to an ML advice endpoint.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs an advice API client. The API key is optional.
func NewClient(url, apiKey string) (*Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("advice api url cannot be empty")
	}
	return &Client{
		url:        strings.TrimSpace(url),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{},
	}, nil
}

type adviceRequest struct {
	Profile dashboard.UserProfile     `json:"profile"`
	Weather dashboard.WeatherSnapshot `json:"weather"`
}

type adviceResponse struct {
	Advice []dashboard.AdviceItem `json:"advice"`
}

// Fetch implements dashboard.AdviceProvider.
func (c *Client) Fetch(ctx context.Context, profile dashboard.UserProfile, weather dashboard.WeatherSnapshot) ([]dashboard.AdviceItem, error) {
	payload, err := json.Marshal(adviceRequest{Profile: profile, Weather: weather})
	if err != nil {
		return nil, fmt.Errorf("marshal advice request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build advice request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request advice: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, &dashboard.StatusError{Provider: providerName, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read advice response: %w", err)
	}
	var out adviceResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: decode advice response: %v", dashboard.ErrMalformedPayload, err)
	}
	if out.Advice == nil {
		return []dashboard.AdviceItem{}, nil
	}
	return out.Advice, nil
}

var _ dashboard.AdviceProvider = (*Client)(nil)

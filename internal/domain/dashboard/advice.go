package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// FallbackAdviceID identifies the synthetic item returned when advice cannot be generated.
const FallbackAdviceID = "fallback"

// FallbackAdvice returns the single-item list substituted for a failed advice call.
func FallbackAdvice() []AdviceItem {
	return []AdviceItem{{
		ID:          FallbackAdviceID,
		Type:        AdviceWarning,
		Title:       "Advice unavailable",
		Description: "AI model could not generate advice right now.",
		Priority:    PriorityLow,
	}}
}

// AdviceClient guards an AdviceProvider: it bounds the call, normalizes the
// returned items and downgrades every failure to FallbackAdvice.
type AdviceClient struct {
	provider AdviceProvider
	timeout  time.Duration
	logger   *slog.Logger
}

// NewAdviceClient wraps the provider using the domain configuration.
func NewAdviceClient(cfg Config, provider AdviceProvider, logger *slog.Logger) *AdviceClient {
	timeout := cfg.AdviceTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &AdviceClient{
		provider: provider,
		timeout:  timeout,
		logger:   logger.With("component", "dashboard.advice"),
	}
}

// Advise never fails; an empty provider list stays empty.
func (c *AdviceClient) Advise(ctx context.Context, profile UserProfile, weather WeatherSnapshot) []AdviceItem {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	items, err := c.provider.Fetch(callCtx, profile, weather)
	if err != nil {
		c.logger.Error("advice provider failed, using fallback", "location", weather.Location, "error", err)
		return FallbackAdvice()
	}
	normalized := normalizeAdvice(items)
	c.logger.Info("advice fetched", "location", weather.Location, "items", len(normalized))
	return normalized
}

func normalizeAdvice(items []AdviceItem) []AdviceItem {
	out := make([]AdviceItem, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item.Title = strings.TrimSpace(item.Title)
		item.Description = strings.TrimSpace(item.Description)
		if item.Title == "" && item.Description == "" {
			continue
		}
		item.Type = normalizeType(item.Type)
		item.Priority = normalizePriority(item.Priority)

		id := strings.TrimSpace(item.ID)
		if id == "" {
			id = fmt.Sprintf("advice-%d", len(out)+1)
		}
		if _, dup := seen[id]; dup {
			base := id
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s-%d", base, n)
				if _, taken := seen[candidate]; !taken {
					id = candidate
					break
				}
			}
		}
		seen[id] = struct{}{}
		item.ID = id
		out = append(out, item)
	}
	return out
}

func normalizeType(t AdviceType) AdviceType {
	switch AdviceType(strings.ToLower(strings.TrimSpace(string(t)))) {
	case AdviceTip:
		return AdviceTip
	case AdviceWarning:
		return AdviceWarning
	case AdviceSuccess:
		return AdviceSuccess
	default:
		return AdviceInfo
	}
}

func normalizePriority(p Priority) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(string(p)))) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

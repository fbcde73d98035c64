package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAdviceClientFallsBackOnError(t *testing.T) {
	for name, providerErr := range map[string]error{
		"server error":  &StatusError{Provider: "advice", Status: 500},
		"network error": errors.New("dial tcp: no route to host"),
		"malformed":     ErrMalformedPayload,
	} {
		t.Run(name, func(t *testing.T) {
			client := NewAdviceClient(Config{}, &stubAdviceProvider{err: providerErr}, discardLogger())
			items := client.Advise(context.Background(), parisProfile(), parisSnapshot())
			require.Equal(t, FallbackAdvice(), items)
			require.Len(t, items, 1)
			require.Equal(t, "fallback", items[0].ID)
		})
	}
}

func TestAdviceClientFallsBackOnTimeout(t *testing.T) {
	client := NewAdviceClient(Config{AdviceTimeout: 20 * time.Millisecond}, hangingAdviceProvider{}, discardLogger())
	items := client.Advise(context.Background(), parisProfile(), parisSnapshot())
	require.Equal(t, FallbackAdvice(), items)
}

func TestAdviceClientKeepsEmptyList(t *testing.T) {
	client := NewAdviceClient(Config{}, &stubAdviceProvider{}, discardLogger())
	items := client.Advise(context.Background(), parisProfile(), parisSnapshot())
	require.NotNil(t, items)
	require.Empty(t, items)
}

func TestNormalizeAdvice(t *testing.T) {
	items := normalizeAdvice([]AdviceItem{
		{ID: "umbrella", Type: "WARNING", Title: " Carry an umbrella ", Priority: "high"},
		{ID: "umbrella", Type: "tip", Title: "Duplicate id", Priority: "low"},
		{ID: "", Type: "alert", Description: "No id", Priority: "urgent"},
		{ID: "blank", Type: "tip"},
	})

	require.Len(t, items, 3)
	require.Equal(t, AdviceItem{ID: "umbrella", Type: AdviceWarning, Title: "Carry an umbrella", Priority: PriorityHigh}, items[0])
	require.Equal(t, "umbrella-2", items[1].ID)
	require.Equal(t, "advice-3", items[2].ID)
	require.Equal(t, AdviceInfo, items[2].Type)
	require.Equal(t, PriorityMedium, items[2].Priority)
}

func TestNormalizeAdviceAvoidsSuffixCollisions(t *testing.T) {
	items := normalizeAdvice([]AdviceItem{
		{ID: "a-2", Title: "one"},
		{ID: "a", Title: "two"},
		{ID: "a", Title: "three"},
	})
	require.Equal(t, []string{"a-2", "a", "a-3"}, []string{items[0].ID, items[1].ID, items[2].ID})
}

type hangingAdviceProvider struct{}

func (hangingAdviceProvider) Fetch(ctx context.Context, _ UserProfile, _ WeatherSnapshot) ([]AdviceItem, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

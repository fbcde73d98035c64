package static

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchIsDeterministicPerLocation(t *testing.T) {
	p := NewProvider()
	first, err := p.Fetch(context.Background(), "Paris")
	require.NoError(t, err)
	second, err := p.Fetch(context.Background(), " paris ")
	require.NoError(t, err)

	require.Equal(t, first.Temperature, second.Temperature)
	require.Equal(t, first.Condition, second.Condition)
	require.Equal(t, "Paris", first.Location)
	require.Equal(t, 80, first.AQI)
	require.GreaterOrEqual(t, first.RainChance, 0.0)
	require.Less(t, first.RainChance, 100.0)
}

func TestFetchHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProvider().Fetch(ctx, "Paris")
	require.ErrorIs(t, err, context.Canceled)
}

package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
)

func TestFeedRecentNewestFirst(t *testing.T) {
	feed := NewFeed(3)
	for _, id := range []string{"a", "b"} {
		feed.Notify(context.Background(), dashboard.Notification{ID: id})
	}
	require.Equal(t, []string{"b", "a"}, ids(feed.Recent(0)))
	require.Equal(t, []string{"b"}, ids(feed.Recent(1)))
}

func TestFeedDropsOldestWhenFull(t *testing.T) {
	feed := NewFeed(3)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		feed.Notify(context.Background(), dashboard.Notification{ID: id})
	}
	require.Equal(t, []string{"e", "d", "c"}, ids(feed.Recent(10)))
}

func TestFeedEmpty(t *testing.T) {
	require.Empty(t, NewFeed(0).Recent(5))
}

func TestMultiFansOutToLogAndFeed(t *testing.T) {
	var buf bytes.Buffer
	feed := NewFeed(5)
	multi := Multi{feed, NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))}

	multi.Notify(context.Background(), dashboard.Notification{
		ID:           "n-1",
		SubmissionID: "sub-1",
		Kind:         dashboard.NotificationError,
		Title:        "Error",
		Description:  "Failed to update profile. Please try again.",
	})

	require.Len(t, feed.Recent(0), 1)
	require.Contains(t, buf.String(), `"level":"WARN"`)
	require.Contains(t, buf.String(), `"submission_id":"sub-1"`)
}

func ids(items []dashboard.Notification) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

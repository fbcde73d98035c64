package notify

import (
	"context"
	"sync"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
)

const defaultCapacity = 50

// Feed keeps the most recent notifications in a bounded ring.
type Feed struct {
	mu    sync.RWMutex
	items []dashboard.Notification
	next  int
	full  bool
}

// NewFeed constructs a feed holding at most capacity notifications.
func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Feed{items: make([]dashboard.Notification, capacity)}
}

// Notify implements dashboard.Notifier.
func (f *Feed) Notify(_ context.Context, n dashboard.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[f.next] = n
	f.next = (f.next + 1) % len(f.items)
	if f.next == 0 {
		f.full = true
	}
}

// Recent returns up to limit notifications, newest first. limit <= 0 returns all.
func (f *Feed) Recent(limit int) []dashboard.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	size := f.next
	if f.full {
		size = len(f.items)
	}
	if limit <= 0 || limit > size {
		limit = size
	}
	out := make([]dashboard.Notification, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (f.next - i + len(f.items)) % len(f.items)
		out = append(out, f.items[idx])
	}
	return out
}

var (
	_ dashboard.Notifier        = (*Feed)(nil)
	_ dashboard.NotificationLog = (*Feed)(nil)
)

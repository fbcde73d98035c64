package profilestore

import (
	"context"
	"sync"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
)

// MemoryStore keeps the profile in process memory for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	profile dashboard.UserProfile
	has     bool
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements dashboard.ProfileStore.
func (s *MemoryStore) Load(_ context.Context) (dashboard.UserProfile, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.has {
		return dashboard.UserProfile{}, false, nil
	}
	return s.profile.Clone(), true, nil
}

// Save implements dashboard.ProfileStore.
func (s *MemoryStore) Save(_ context.Context, profile dashboard.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile.Clone()
	s.has = true
	return nil
}

var _ dashboard.ProfileStore = (*MemoryStore)(nil)

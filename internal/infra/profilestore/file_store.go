package profilestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
)

// FileStore keeps the profile as a JSON document on local disk.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewFileStore stores the profile at path, creating parent directories on save.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if path == "" {
		path = filepath.Join("data", dashboard.ProfileKey+".json")
	}
	return &FileStore{path: path, logger: logger.With("component", "profilestore.file", "path", path)}
}

// Load implements dashboard.ProfileStore.
func (s *FileStore) Load(_ context.Context) (dashboard.UserProfile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return dashboard.UserProfile{}, false, nil
		}
		return dashboard.UserProfile{}, false, fmt.Errorf("read profile file: %w", err)
	}
	profile, ok := decodeProfile(data, s.logger)
	return profile, ok, nil
}

// Save writes through a temp file and rename so readers never see a partial document.
func (s *FileStore) Save(_ context.Context, profile dashboard.UserProfile) error {
	payload, err := encodeProfile(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp profile: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp profile: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace profile file: %w", err)
	}
	return nil
}

var _ dashboard.ProfileStore = (*FileStore)(nil)

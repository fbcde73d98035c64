package profilestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
)

// SQLiteStore keeps the profile in an embedded database file.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens the database at dbPath and ensures the schema exists.
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS user_profiles (
			key TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating user_profiles table: %w", err)
	}
	return &SQLiteStore{db: db, logger: logger.With("component", "profilestore.sqlite")}, nil
}

// Load implements dashboard.ProfileStore.
func (s *SQLiteStore) Load(ctx context.Context) (dashboard.UserProfile, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM user_profiles WHERE key = ?`, dashboard.ProfileKey).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dashboard.UserProfile{}, false, nil
		}
		return dashboard.UserProfile{}, false, fmt.Errorf("querying profile: %w", err)
	}
	profile, ok := decodeProfile([]byte(payload), s.logger)
	return profile, ok, nil
}

// Save implements dashboard.ProfileStore.
func (s *SQLiteStore) Save(ctx context.Context, profile dashboard.UserProfile) error {
	payload, err := encodeProfile(profile)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_profiles (key, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
	`, dashboard.ProfileKey, string(payload))
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ dashboard.ProfileStore = (*SQLiteStore)(nil)

package profilestore

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
)

// PostgresStore persists the profile as a JSONB row keyed by dashboard.ProfileKey.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore creates a new store.
func NewPostgresStore(pool *pgxpool.Pool, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{pool: pool, logger: logger.With("component", "profilestore.postgres")}
}

// EnsureSchema creates the user_profiles table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS user_profiles (
			key TEXT PRIMARY KEY,
			payload JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

// Load fetches the stored profile.
func (s *PostgresStore) Load(ctx context.Context) (dashboard.UserProfile, bool, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, `
		SELECT payload
		FROM user_profiles
		WHERE key = $1
	`, dashboard.ProfileKey).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dashboard.UserProfile{}, false, nil
		}
		return dashboard.UserProfile{}, false, err
	}
	profile, ok := decodeProfile(payload, s.logger)
	return profile, ok, nil
}

// Save upserts the profile row.
func (s *PostgresStore) Save(ctx context.Context, profile dashboard.UserProfile) error {
	payload, err := encodeProfile(profile)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO user_profiles (key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = NOW()
	`, dashboard.ProfileKey, string(payload))
	return err
}

var _ dashboard.ProfileStore = (*PostgresStore)(nil)

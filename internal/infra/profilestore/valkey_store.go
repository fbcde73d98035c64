package profilestore

import (
	"context"
	"log/slog"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
)

// ValkeyStore persists the profile using a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	logger *slog.Logger
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, logger *slog.Logger) *ValkeyStore {
	if prefix == "" {
		prefix = "weather-dashboard"
	}
	return &ValkeyStore{client: client, prefix: prefix, logger: logger.With("component", "profilestore.valkey")}
}

func (s *ValkeyStore) Load(ctx context.Context) (dashboard.UserProfile, bool, error) {
	cmd := s.client.B().Get().Key(s.key()).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return dashboard.UserProfile{}, false, nil
		}
		return dashboard.UserProfile{}, false, err
	}
	profile, ok := decodeProfile([]byte(payload), s.logger)
	return profile, ok, nil
}

func (s *ValkeyStore) Save(ctx context.Context, profile dashboard.UserProfile) error {
	payload, err := encodeProfile(profile)
	if err != nil {
		return err
	}
	return s.client.Do(ctx, s.client.B().Set().Key(s.key()).Value(string(payload)).Build()).Error()
}

func (s *ValkeyStore) key() string {
	return s.prefix + ":" + dashboard.ProfileKey
}

var _ dashboard.ProfileStore = (*ValkeyStore)(nil)

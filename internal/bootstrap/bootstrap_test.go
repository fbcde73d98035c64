package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
	"github.com/yanqian/weather-dashboard/internal/infra/advice/mlapi"
	"github.com/yanqian/weather-dashboard/internal/infra/advice/rules"
	"github.com/yanqian/weather-dashboard/internal/infra/config"
	"github.com/yanqian/weather-dashboard/internal/infra/profilestore"
	"github.com/yanqian/weather-dashboard/internal/infra/weather/openweather"
	"github.com/yanqian/weather-dashboard/internal/infra/weather/static"
	httpiface "github.com/yanqian/weather-dashboard/internal/interface/http"
)

func TestProvideProfileStoreSelectsBackend(t *testing.T) {
	logger := discardLogger()
	cfg := &config.Config{}

	cfg.Profile.Store = config.ProfileStoreMemory
	require.IsType(t, &profilestore.MemoryStore{}, ProvideProfileStore(cfg, logger))

	cfg.Profile.Store = config.ProfileStoreFile
	cfg.Profile.FilePath = filepath.Join(t.TempDir(), "userProfile.json")
	require.IsType(t, &profilestore.FileStore{}, ProvideProfileStore(cfg, logger))

	cfg.Profile.Store = config.ProfileStoreSQLite
	cfg.Profile.SQLite.Path = filepath.Join(t.TempDir(), "dashboard.db")
	store := ProvideProfileStore(cfg, logger)
	require.IsType(t, &profilestore.SQLiteStore{}, store)
	t.Cleanup(func() { store.(*profilestore.SQLiteStore).Close() })

	cfg.Profile.Store = config.ProfileStoreObject
	cfg.Profile.Object = config.ObjectConfig{Endpoint: "localhost:9000", Bucket: "dashboard", Region: "auto", UseSSL: false}
	require.IsType(t, &profilestore.ObjectStore{}, ProvideProfileStore(cfg, logger))
}

func TestProvideProfileStoreFallsBackToMemory(t *testing.T) {
	cfg := &config.Config{}
	cfg.Profile.Store = config.ProfileStorePostgres
	cfg.Profile.Postgres.DSN = "postgres://user@%zz/dashboard"
	require.IsType(t, &profilestore.MemoryStore{}, ProvideProfileStore(cfg, discardLogger()))
}

func TestProvideProviders(t *testing.T) {
	cfg := &config.Config{}
	cfg.Weather.Provider = config.WeatherProviderStatic
	require.IsType(t, &static.Provider{}, ProvideWeatherProvider(cfg))
	cfg.Weather.Provider = config.WeatherProviderOpenWeather
	require.IsType(t, &openweather.Client{}, ProvideWeatherProvider(cfg))

	cfg.Advice.Provider = config.AdviceProviderRules
	provider, err := ProvideAdviceProvider(cfg)
	require.NoError(t, err)
	require.IsType(t, &rules.Advisor{}, provider)

	cfg.Advice.Provider = ""
	_, err = ProvideAdviceProvider(cfg)
	require.Error(t, err)

	cfg.Advice.Provider = config.AdviceProviderHTTP
	_, err = ProvideAdviceProvider(cfg)
	require.Error(t, err)
	cfg.Advice.URL = "http://advice.local/predict"
	provider, err = ProvideAdviceProvider(cfg)
	require.NoError(t, err)
	require.IsType(t, &mlapi.Client{}, provider)
}

func TestProvideNotifierRecordsInFeed(t *testing.T) {
	feed := ProvideNotificationFeed(&config.Config{Notifications: config.NotificationsConfig{Capacity: 5}})
	notifier := ProvideNotifier(feed, discardLogger())
	notifier.Notify(context.Background(), dashboard.Notification{ID: "n-1", Title: "Profile Updated"})
	require.Len(t, feed.Recent(0), 1)
}

func TestAppRestoresStoredProfileOnStart(t *testing.T) {
	cfg := &config.Config{
		HTTP:      config.HTTPConfig{Address: "127.0.0.1:0"},
		Dashboard: config.DashboardConfig{RestoreOnStart: true},
	}
	logger := discardLogger()
	store := profilestore.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), dashboard.UserProfile{Location: "Paris"}))

	dcfg := dashboard.Config{}
	feed := ProvideNotificationFeed(&config.Config{Notifications: config.NotificationsConfig{Capacity: 5}})
	orch := dashboard.NewOrchestrator(dcfg, store,
		dashboard.NewWeatherClient(dcfg, static.NewProvider(), logger),
		dashboard.NewAdviceClient(dcfg, rules.NewAdvisor(), logger),
		feed, logger)
	server := httpiface.NewRouter(cfg, httpiface.NewHandler(orch, feed, logger))
	app := NewApp(cfg, logger, server, orch)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool {
		return orch.Snapshot().State == dashboard.StateReady
	}, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, "Paris", orch.Snapshot().Weather.Location)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not shut down")
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

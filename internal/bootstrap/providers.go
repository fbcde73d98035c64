package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
	"github.com/yanqian/weather-dashboard/internal/infra/advice/mlapi"
	"github.com/yanqian/weather-dashboard/internal/infra/advice/rules"
	"github.com/yanqian/weather-dashboard/internal/infra/config"
	"github.com/yanqian/weather-dashboard/internal/infra/notify"
	"github.com/yanqian/weather-dashboard/internal/infra/profilestore"
	"github.com/yanqian/weather-dashboard/internal/infra/weather/openweather"
	"github.com/yanqian/weather-dashboard/internal/infra/weather/static"
	"github.com/yanqian/weather-dashboard/pkg/logger"
)

// DashboardSet builds the orchestrator and everything it depends on.
var DashboardSet = wire.NewSet(
	ProvideDashboardConfig,
	ProvideProfileStore,
	ProvideWeatherProvider,
	ProvideAdviceProvider,
	ProvideNotificationFeed,
	ProvideNotifier,
	dashboard.NewWeatherClient,
	dashboard.NewAdviceClient,
	dashboard.NewOrchestrator,
	wire.Bind(new(dashboard.WeatherFetcher), new(*dashboard.WeatherClient)),
	wire.Bind(new(dashboard.Advisor), new(*dashboard.AdviceClient)),
	wire.Bind(new(dashboard.NotificationLog), new(*notify.Feed)),
)

// ProvideDashboardConfig maps service configuration onto the domain tunables.
func ProvideDashboardConfig(cfg *config.Config) dashboard.Config {
	return dashboard.Config{
		WeatherTimeout:      cfg.Weather.Timeout,
		WeatherMaxAttempts:  cfg.Weather.MaxAttempts,
		WeatherRetryBackoff: cfg.Weather.RetryBackoff,
		AdviceTimeout:       cfg.Advice.Timeout,
		TrendSize:           cfg.Dashboard.TrendSize,
	}
}

// ProvideWeatherProvider selects the configured weather backend.
func ProvideWeatherProvider(cfg *config.Config) dashboard.WeatherProvider {
	if cfg.Weather.Provider == config.WeatherProviderStatic {
		return static.NewProvider()
	}
	return openweather.NewClient(cfg.Weather.BaseURL, cfg.Weather.APIKey)
}

// ProvideAdviceProvider selects the configured advice backend. The rule set is
// only used when asked for explicitly.
func ProvideAdviceProvider(cfg *config.Config) (dashboard.AdviceProvider, error) {
	if cfg.Advice.Provider == config.AdviceProviderRules {
		return rules.NewAdvisor(), nil
	}
	return mlapi.NewClient(cfg.Advice.URL, cfg.Advice.APIKey)
}

// ProvideNotificationFeed sizes the in-memory notification history.
func ProvideNotificationFeed(cfg *config.Config) *notify.Feed {
	return notify.NewFeed(cfg.Notifications.Capacity)
}

// ProvideNotifier records notifications in the feed and the log.
func ProvideNotifier(feed *notify.Feed, logger *slog.Logger) dashboard.Notifier {
	return notify.Multi{feed, notify.NewLogNotifier(logger)}
}

// ProvideProfileStore selects the profile backend, falling back to memory when
// an external backend cannot be reached.
func ProvideProfileStore(cfg *config.Config, logger *slog.Logger) dashboard.ProfileStore {
	fallback := profilestore.NewMemoryStore()
	switch cfg.Profile.Store {
	case config.ProfileStoreMemory:
		logger.Info("profile memory store enabled")
		return fallback
	case config.ProfileStoreValkey:
		return provideValkeyStore(cfg, logger, fallback)
	case config.ProfileStorePostgres:
		return providePostgresStore(cfg, logger, fallback)
	case config.ProfileStoreObject:
		obj := cfg.Profile.Object
		store, err := profilestore.NewObjectStore(obj.Endpoint, obj.AccessKey, obj.SecretKey, obj.Bucket, obj.Region, obj.Prefix, obj.UseSSL, logger)
		if err != nil {
			logger.Error("failed to initialize object store, using memory store", "error", err)
			return fallback
		}
		logger.Info("profile object store enabled", "bucket", obj.Bucket)
		return store
	case config.ProfileStoreSQLite:
		store, err := profilestore.NewSQLiteStore(cfg.Profile.SQLite.Path, logger)
		if err != nil {
			logger.Error("failed to open sqlite store, using memory store", "error", err)
			return fallback
		}
		logger.Info("profile sqlite store enabled", "path", cfg.Profile.SQLite.Path)
		return store
	default:
		logger.Info("profile file store enabled", "path", cfg.Profile.FilePath)
		return profilestore.NewFileStore(cfg.Profile.FilePath, logger)
	}
}

func provideValkeyStore(cfg *config.Config, logger *slog.Logger, fallback dashboard.ProfileStore) dashboard.ProfileStore {
	opt, err := buildValkeyOptions(cfg.Profile.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
		return fallback
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory store", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		client.Close()
		return fallback
	}
	logger.Info("profile valkey store enabled", "addr", cfg.Profile.Valkey.Addr)
	return profilestore.NewValkeyStore(client, cfg.Profile.Valkey.Prefix, logger)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func providePostgresStore(cfg *config.Config, logger *slog.Logger, fallback dashboard.ProfileStore) dashboard.ProfileStore {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.Profile.Postgres.DSN))
	if err != nil {
		logger.Error("invalid postgres dsn, using memory store", "error", err)
		return fallback
	}
	if cfg.Profile.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Profile.Postgres.MaxConns
	}
	if cfg.Profile.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Profile.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory store", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory store", "error", err)
		pool.Close()
		return fallback
	}
	store := profilestore.NewPostgresStore(pool, logger)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("postgres schema setup failed, using memory store", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("profile postgres store enabled")
	return store
}

// ProvideTerminalLogger writes logs to a file because the terminal dashboard owns stdout.
func ProvideTerminalLogger() (*slog.Logger, func(), error) {
	path := os.Getenv("TUI_LOG_PATH")
	if path == "" {
		path = filepath.Join("data", "tui.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logger.NewWithWriter(f), func() { f.Close() }, nil
}

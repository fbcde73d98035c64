package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Weather       WeatherConfig       `yaml:"weather"`
	Advice        AdviceConfig        `yaml:"advice"`
	Profile       ProfileConfig       `yaml:"profile"`
	Dashboard     DashboardConfig     `yaml:"dashboard"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	CORSOrigins  []string        `yaml:"corsOrigins"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// Weather providers.
const (
	WeatherProviderOpenWeather = "openweather"
	WeatherProviderStatic      = "static"
)

// WeatherConfig selects and tunes the weather provider. Zero timeout,
// retryBackoff or maxAttempts fall back to the client defaults.
type WeatherConfig struct {
	Provider     string        `yaml:"provider"`
	APIKey       string        `yaml:"apiKey"`
	BaseURL      string        `yaml:"baseUrl"`
	Timeout      time.Duration `yaml:"timeout"`
	RetryBackoff time.Duration `yaml:"retryBackoff"`
	MaxAttempts  int           `yaml:"maxAttempts"`
}

// Advice providers.
const (
	AdviceProviderHTTP  = "http"
	AdviceProviderRules = "rules"
)

// AdviceConfig selects and tunes the advice provider.
type AdviceConfig struct {
	Provider string        `yaml:"provider"`
	URL      string        `yaml:"url"`
	APIKey   string        `yaml:"apiKey"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Profile stores.
const (
	ProfileStoreFile     = "file"
	ProfileStoreMemory   = "memory"
	ProfileStoreValkey   = "valkey"
	ProfileStorePostgres = "postgres"
	ProfileStoreObject   = "object"
	ProfileStoreSQLite   = "sqlite"
)

// ProfileConfig selects the profile persistence backend.
type ProfileConfig struct {
	Store    string         `yaml:"store"`
	FilePath string         `yaml:"filePath"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	Postgres PostgresConfig `yaml:"postgres"`
	Object   ObjectConfig   `yaml:"object"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
}

// ValkeyConfig contains connection information for the key-value store.
type ValkeyConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ObjectConfig points at an S3-compatible bucket.
type ObjectConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"useSSL"`
}

// SQLiteConfig locates the embedded database file.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// DashboardConfig tunes the submission orchestrator.
type DashboardConfig struct {
	RestoreOnStart bool `yaml:"restoreOnStart"`
	TrendSize      int  `yaml:"trendSize"`
}

// NotificationsConfig sizes the in-memory notification feed.
type NotificationsConfig struct {
	Capacity int `yaml:"capacity"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = splitList(v)
	}

	if v := os.Getenv("WEATHER_PROVIDER"); v != "" {
		cfg.Weather.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("OPENWEATHER_API_KEY"); v != "" {
		cfg.Weather.APIKey = v
	}
	if v := os.Getenv("WEATHER_BASE_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}
	if v := os.Getenv("WEATHER_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Weather.Timeout = parsed
		}
	}
	if v := os.Getenv("WEATHER_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Weather.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("WEATHER_RETRY_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Weather.RetryBackoff = parsed
		}
	}

	if v := os.Getenv("ADVICE_PROVIDER"); v != "" {
		cfg.Advice.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("ADVICE_API_URL"); v != "" {
		cfg.Advice.URL = v
	}
	if v := os.Getenv("ADVICE_API_KEY"); v != "" {
		cfg.Advice.APIKey = v
	}
	if v := os.Getenv("ADVICE_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Advice.Timeout = parsed
		}
	}

	if v := os.Getenv("PROFILE_STORE"); v != "" {
		cfg.Profile.Store = strings.ToLower(v)
	}
	if v := os.Getenv("PROFILE_FILE_PATH"); v != "" {
		cfg.Profile.FilePath = v
	}
	if v := os.Getenv("PROFILE_VALKEY_ADDR"); v != "" {
		cfg.Profile.Valkey.Addr = v
	}
	if v := os.Getenv("PROFILE_POSTGRES_DSN"); v != "" {
		cfg.Profile.Postgres.DSN = v
	}
	if v := os.Getenv("PROFILE_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Profile.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("PROFILE_OBJECT_ENDPOINT"); v != "" {
		cfg.Profile.Object.Endpoint = v
	}
	if v := os.Getenv("PROFILE_OBJECT_ACCESS_KEY"); v != "" {
		cfg.Profile.Object.AccessKey = v
	}
	if v := os.Getenv("PROFILE_OBJECT_SECRET_KEY"); v != "" {
		cfg.Profile.Object.SecretKey = v
	}
	if v := os.Getenv("PROFILE_OBJECT_BUCKET"); v != "" {
		cfg.Profile.Object.Bucket = v
	}
	if v := os.Getenv("PROFILE_OBJECT_REGION"); v != "" {
		cfg.Profile.Object.Region = v
	}
	if v := os.Getenv("PROFILE_OBJECT_USE_SSL"); v != "" {
		cfg.Profile.Object.UseSSL = parseBool(v)
	}
	if v := os.Getenv("PROFILE_SQLITE_PATH"); v != "" {
		cfg.Profile.SQLite.Path = v
	}

	if v := os.Getenv("DASHBOARD_RESTORE_ON_START"); v != "" {
		cfg.Dashboard.RestoreOnStart = parseBool(v)
	}
	if v := os.Getenv("DASHBOARD_TREND_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Dashboard.TrendSize = parsed
		}
	}
	if v := os.Getenv("NOTIFICATIONS_CAPACITY"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Notifications.Capacity = parsed
		}
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:     ":8080",
			ReadTimeout: 5 * time.Second,
			// Submissions and the SSE stream outlive a short write deadline.
			WriteTimeout: 0,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		Weather: WeatherConfig{
			Provider:     WeatherProviderOpenWeather,
			BaseURL:      "https://api.openweathermap.org",
			Timeout:      10 * time.Second,
			RetryBackoff: 250 * time.Millisecond,
			MaxAttempts:  2,
		},
		Advice: AdviceConfig{
			Provider: AdviceProviderHTTP,
			Timeout:  10 * time.Second,
		},
		Profile: ProfileConfig{
			Store:    ProfileStoreFile,
			FilePath: "data/userProfile.json",
			Valkey: ValkeyConfig{
				Prefix: "weather-dashboard",
			},
			Postgres: PostgresConfig{
				MaxConns: 4,
				MinConns: 0,
			},
			Object: ObjectConfig{
				Region: "auto",
				Prefix: "weather-dashboard",
				UseSSL: true,
			},
			SQLite: SQLiteConfig{
				Path: "data/dashboard.db",
			},
		},
		Dashboard: DashboardConfig{
			RestoreOnStart: true,
			TrendSize:      10,
		},
		Notifications: NotificationsConfig{
			Capacity: 50,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}

	switch c.Weather.Provider {
	case WeatherProviderOpenWeather:
		if strings.TrimSpace(c.Weather.APIKey) == "" {
			return errors.New("weather.apiKey cannot be empty for the openweather provider")
		}
		if strings.TrimSpace(c.Weather.BaseURL) == "" {
			return errors.New("weather.baseUrl cannot be empty")
		}
	case WeatherProviderStatic:
	default:
		return fmt.Errorf("weather.provider %q is not supported", c.Weather.Provider)
	}
	if c.Weather.Timeout < 0 {
		return errors.New("weather.timeout cannot be negative")
	}
	if c.Weather.RetryBackoff < 0 {
		return errors.New("weather.retryBackoff cannot be negative")
	}
	if c.Weather.MaxAttempts < 0 || c.Weather.MaxAttempts > 2 {
		return errors.New("weather.maxAttempts must be between 0 and 2")
	}

	switch c.Advice.Provider {
	case AdviceProviderHTTP:
		if strings.TrimSpace(c.Advice.URL) == "" {
			return errors.New("advice.url cannot be empty for the http provider")
		}
	case AdviceProviderRules:
	default:
		return fmt.Errorf("advice.provider %q is not supported", c.Advice.Provider)
	}
	if c.Advice.Timeout < 0 {
		return errors.New("advice.timeout cannot be negative")
	}

	switch c.Profile.Store {
	case ProfileStoreFile:
		if strings.TrimSpace(c.Profile.FilePath) == "" {
			return errors.New("profile.filePath cannot be empty for the file store")
		}
	case ProfileStoreMemory:
	case ProfileStoreValkey:
		if strings.TrimSpace(c.Profile.Valkey.Addr) == "" {
			return errors.New("profile.valkey.addr cannot be empty for the valkey store")
		}
	case ProfileStorePostgres:
		if strings.TrimSpace(c.Profile.Postgres.DSN) == "" {
			return errors.New("profile.postgres.dsn cannot be empty for the postgres store")
		}
	case ProfileStoreObject:
		if c.Profile.Object.Endpoint == "" || c.Profile.Object.Bucket == "" {
			return errors.New("profile.object.endpoint and profile.object.bucket are required for the object store")
		}
	case ProfileStoreSQLite:
		if strings.TrimSpace(c.Profile.SQLite.Path) == "" {
			return errors.New("profile.sqlite.path cannot be empty for the sqlite store")
		}
	default:
		return fmt.Errorf("profile.store %q is not supported", c.Profile.Store)
	}

	if c.Dashboard.TrendSize < 0 {
		return errors.New("dashboard.trendSize cannot be negative")
	}
	if c.Notifications.Capacity <= 0 {
		return errors.New("notifications.capacity must be positive")
	}
	return nil
}

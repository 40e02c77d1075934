package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/2beens/wearsync/pkg"

	"github.com/BurntSushi/toml"
)

// Duration lets TOML values like "15s" decode into a time.Duration.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// ProviderConfig overrides the vendor endpoints, mostly for tests and staging.
type ProviderConfig struct {
	APIBaseURL string `toml:"api_base_url"`
	TokenURL   string `toml:"token_url"`
	RevokeURL  string `toml:"revoke_url"`
}

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// prometheus
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// sync
	ProviderTimeout         Duration `toml:"provider_timeout"`
	ProviderRequestsPerSec  float64  `toml:"provider_requests_per_sec"`
	ProviderRequestsBurst   int      `toml:"provider_requests_burst"`
	TokenExpiryBuffer       Duration `toml:"token_expiry_buffer"`
	SyncAllConcurrency      int      `toml:"sync_all_concurrency"`
	SyncLockTTL             Duration `toml:"sync_lock_ttl"`
	SyncRateLimitAllowedMin int      `toml:"sync_rate_limit_per_min"`
	DefaultTimezone         string   `toml:"default_timezone"`
	DefaultLookbackDays     int      `toml:"default_lookback_days"`

	// query
	QueryCacheTTL    Duration `toml:"query_cache_ttl"`
	QueryCacheSizeMB int      `toml:"query_cache_size_mb"`

	Providers map[string]ProviderConfig `toml:"providers"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env, with
// defaults filled in for everything left unset.
func Load(env, path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path empty")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var t Toml
	if _, err := toml.Decode(string(content), &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.Environment = strings.ToLower(env)
	cfg.applyDefaults()

	if _, err := time.LoadLocation(cfg.DefaultTimezone); err != nil {
		return nil, fmt.Errorf("invalid default_timezone [%s]: %w", cfg.DefaultTimezone, err)
	}

	if cfg.LogsPath != "" {
		logsDir := filepath.Dir(cfg.LogsPath)
		exists, err := pkg.PathExists(logsDir, true)
		if err != nil {
			return nil, fmt.Errorf("check logs dir: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("logs dir [%s] does not exist", logsDir)
		}
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9300
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.ProviderTimeout.Duration <= 0 {
		c.ProviderTimeout.Duration = 15 * time.Second
	}
	if c.ProviderRequestsPerSec <= 0 {
		c.ProviderRequestsPerSec = 10
	}
	if c.ProviderRequestsBurst <= 0 {
		c.ProviderRequestsBurst = 5
	}
	if c.TokenExpiryBuffer.Duration <= 0 {
		c.TokenExpiryBuffer.Duration = 60 * time.Second
	}
	if c.SyncAllConcurrency <= 0 {
		c.SyncAllConcurrency = 4
	}
	if c.SyncLockTTL.Duration <= 0 {
		c.SyncLockTTL.Duration = 2 * time.Minute
	}
	if c.SyncRateLimitAllowedMin <= 0 {
		c.SyncRateLimitAllowedMin = 10
	}
	if c.DefaultTimezone == "" {
		c.DefaultTimezone = "UTC"
	}
	if c.DefaultLookbackDays <= 0 {
		c.DefaultLookbackDays = 7
	}
	if c.QueryCacheTTL.Duration <= 0 {
		c.QueryCacheTTL.Duration = 30 * time.Second
	}
	if c.QueryCacheSizeMB <= 0 {
		c.QueryCacheSizeMB = 16
	}
	if c.Providers == nil {
		c.Providers = map[string]ProviderConfig{}
	}
}

// Provider returns the endpoint overrides for a provider, zero value when none.
func (c *Config) Provider(name string) ProviderConfig {
	return c.Providers[strings.ToLower(name)]
}

// DefaultLocation is validated in Load, so the error is not expected here.
func (c *Config) DefaultLocation() *time.Location {
	loc, err := time.LoadLocation(c.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

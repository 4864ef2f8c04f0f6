// Package config loads daemon configuration from three layers: built-in
// defaults, an optional yaml file, and FLEXD_ environment variables.
// Later layers override earlier ones.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/flexreminder/flexd/pkg/flexlib"
)

// EnvPrefix is the prefix of configuration environment variables, e.g.
// FLEXD_API_BASE_URL maps onto api.base_url.
const EnvPrefix = "FLEXD_"

// Storage backend names accepted by storage.backend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type Config struct {
	API           APIConfig          `koanf:"api"`
	Sync          SyncConfig         `koanf:"sync"`
	Notifications NotificationConfig `koanf:"notifications"`
	Storage       StorageConfig      `koanf:"storage"`
	RPC           RPCConfig          `koanf:"rpc"`
	Timezone      string             `koanf:"timezone"`
}

type APIConfig struct {
	BaseURL            string `koanf:"base_url"`
	Credential         string `koanf:"credential"`
	MaxRetries         int    `koanf:"max_retries"`
	RetryBaseDelaySecs int    `koanf:"retry_base_delay_secs"`
	RequestTimeoutSecs int    `koanf:"request_timeout_secs"`
}

type SyncConfig struct {
	Auto            bool `koanf:"auto"`
	IntervalMinutes int  `koanf:"interval_minutes"`
}

type NotificationConfig struct {
	Enabled bool `koanf:"enabled"`
	Sound   bool `koanf:"sound"`
}

type StorageConfig struct {
	Backend string `koanf:"backend"`
	Path    string `koanf:"path"`
}

type RPCConfig struct {
	Port      int    `koanf:"port"`
	Secret    string `koanf:"secret"`
	ListenAll bool   `koanf:"listen_all"`
}

// Load reads configuration. configPath may be empty, in which case the
// file layer is read from the default location; a missing file is not an
// error, defaults and environment still apply.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath == "" {
		if p, err := DefaultConfigPath(); err == nil {
			configPath = p
		}
	}
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", configPath, err)
			}
		}
	}

	// FLEXD_SYNC_INTERVAL_MINUTES -> sync.interval_minutes. The first
	// underscore separates the section, the rest stays verbatim.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.Replace(key, "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects values the daemon cannot run with.
func (c *Config) Validate() error {
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must not be negative")
	}
	if c.API.RetryBaseDelaySecs <= 0 {
		return fmt.Errorf("api.retry_base_delay_secs must be positive")
	}
	if c.Sync.IntervalMinutes <= 0 {
		return fmt.Errorf("sync.interval_minutes must be positive")
	}
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage.backend %q (supported: %s, %s)",
			c.Storage.Backend, BackendFile, BackendSQLite)
	}
	if c.RPC.Port <= 0 || c.RPC.Port > 65535 {
		return fmt.Errorf("rpc.port out of range: %d", c.RPC.Port)
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
		}
	}
	return nil
}

// RetryConfig translates the api section into gateway retry settings.
func (c *Config) RetryConfig() flexlib.RetryConfig {
	return flexlib.RetryConfig{
		MaxRetries: c.API.MaxRetries,
		BaseDelay:  time.Duration(c.API.RetryBaseDelaySecs) * time.Second,
	}
}

// SyncInterval returns the periodic reconciliation interval.
func (c *Config) SyncInterval() time.Duration {
	return time.Duration(c.Sync.IntervalMinutes) * time.Minute
}

// TimezoneName resolves the configured timezone, falling back to the
// system's local zone.
func (c *Config) TimezoneName() string {
	if c.Timezone != "" {
		return c.Timezone
	}
	return time.Now().Location().String()
}

// Package config loads service configuration from a YAML file and the
// environment.
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

	"leadpulse/internal/vault"
)

// envPrefix for environment overrides, e.g. LEADPULSE_POSTGRES_DSN.
const envPrefix = "LEADPULSE_"

// Config is the full service configuration.
type Config struct {
	PostgresDSN   string `koanf:"postgres_dsn"`
	ClickhouseDSN string `koanf:"clickhouse_dsn"` // optional warehouse mirror
	VaultSecret   string `koanf:"vault_secret"`
	AdsAPIBaseURL string `koanf:"ads_api_base_url"`

	Port            string        `koanf:"port"`
	ChunkSize       int           `koanf:"chunk_size"`
	SyncConcurrency int           `koanf:"sync_concurrency"`
	DatePreset      string        `koanf:"date_preset"`
	RunBudget       time.Duration `koanf:"run_budget"`
	Verbose         bool          `koanf:"verbose"`
}

// defaults applied before file and env loading.
func defaults() Config {
	return Config{
		Port:            "8080",
		ChunkSize:       500,
		SyncConcurrency: 4,
		DatePreset:      "last_30d",
		RunBudget:       5 * time.Minute,
	}
}

// Load reads configuration from path (optional, may be "") and the
// environment, then validates it. Validation failures are fatal by design:
// the service refuses to start misconfigured.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.PostgresDSN == "" {
		return fmt.Errorf("postgres_dsn is required")
	}
	if len(c.VaultSecret) < vault.MinSecretLen {
		return fmt.Errorf("vault_secret must be at least %d bytes", vault.MinSecretLen)
	}
	if c.AdsAPIBaseURL == "" {
		return fmt.Errorf("ads_api_base_url is required")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive")
	}
	if c.SyncConcurrency <= 0 {
		return fmt.Errorf("sync_concurrency must be positive")
	}
	return nil
}

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/stratum/pkg/core"
)

// Config is the file/environment configuration for the CLI and embedding
// applications. Precedence: defaults, then YAML file, then environment.
type Config struct {
	DataDir        string `yaml:"data_dir" env:"STRATUM_DATA_DIR"`
	Adapter        string `yaml:"adapter" env:"STRATUM_ADAPTER"`
	BaseURL        string `yaml:"base_url" env:"STRATUM_BASE_URL"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"STRATUM_TIMEOUT_SECONDS"`

	UpdateDelaySeconds    int  `yaml:"update_delay_seconds" env:"STRATUM_UPDATE_DELAY_SECONDS"`
	UpdateIntervalSeconds int  `yaml:"update_interval_seconds" env:"STRATUM_UPDATE_INTERVAL_SECONDS"`
	AutoApply             bool `yaml:"auto_apply" env:"STRATUM_AUTO_APPLY"`

	// TTLHours overrides per-type cache lifetimes, keyed by entity type.
	TTLHours map[string]int `yaml:"ttl_hours"`
}

// DefaultConfig returns the stock configuration rooted in the user's home.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:            filepath.Join(home, ".stratum"),
		Adapter:            "sqlite",
		UpdateDelaySeconds: 5,
	}
}

// LoadConfig reads the YAML file at path (if it exists) over the defaults,
// then applies environment overrides. A missing file is not an error; a
// malformed one is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Options translates the config into factory options.
func (c Config) Options() []Option {
	opts := []Option{
		WithAdapter(c.Adapter),
		WithBaseURL(c.BaseURL),
		WithUpdateSchedule(
			time.Duration(c.UpdateDelaySeconds)*time.Second,
			time.Duration(c.UpdateIntervalSeconds)*time.Second,
			c.AutoApply,
		),
	}
	if c.TimeoutSeconds > 0 {
		opts = append(opts, WithRequestTimeout(time.Duration(c.TimeoutSeconds)*time.Second))
	}
	for entityType, hours := range c.TTLHours {
		if hours > 0 {
			opts = append(opts, WithTTL(core.EntityType(entityType), time.Duration(hours)*time.Hour))
		}
	}
	return opts
}

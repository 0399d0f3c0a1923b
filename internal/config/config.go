// Package config loads runtime settings. Defaults are set in code, an
// optional YAML file overrides them, and environment variables win last.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

// Config holds everything the service needs to start.
type Config struct {
	ListenAddr  string        `yaml:"listen_addr" env:"LISTEN_ADDR"`
	AuthBaseURL string        `yaml:"auth_base_url" env:"AUTH_BASE_URL"`
	AuthTimeout time.Duration `yaml:"auth_timeout" env:"AUTH_TIMEOUT"`
	SeedEnabled bool          `yaml:"seed_enabled" env:"SEED_ENABLED"`
	SeedClients int           `yaml:"seed_clients" env:"SEED_CLIENTS"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr:  ":8080",
		AuthBaseURL: "http://localhost:8180",
		AuthTimeout: 5 * time.Second,
		SeedEnabled: true,
		SeedClients: 10,
	}
}

// Load assembles the configuration. path may be empty, in which case the
// YAML layer is skipped.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	// envdecode only touches fields whose variables are set; an empty
	// environment is not an error here.
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen_addr must not be empty")
	}
	if c.AuthBaseURL == "" {
		return errors.New("auth_base_url must not be empty")
	}
	if c.AuthTimeout <= 0 {
		return errors.New("auth_timeout must be positive")
	}
	if c.SeedEnabled && c.SeedClients <= 0 {
		return errors.New("seed_clients must be positive when seeding is enabled")
	}
	return nil
}

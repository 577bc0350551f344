// Package config loads the runtime's configuration from a TOML file,
// .env/.env.local, and the process environment, with precedence
// env > dotenv > config file > defaults.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultListenAddr         = "127.0.0.1:4002"
	DefaultNetwork            = "cronos-testnet"
	DefaultChaosSeed   uint64 = 42
)

// Config is the runtime's full configuration surface.
type Config struct {
	Listen  string      `toml:"listen"`
	Network string      `toml:"network"`
	Chaos   ChaosConfig `toml:"chaos"`
}

// ChaosConfig mirrors chaos.Config's shape for TOML/env loading; it is
// translated into a chaos.Config by the caller (internal/cli), so
// internal/config does not import internal/chaos.
type ChaosConfig struct {
	Enabled            bool    `toml:"enabled"`
	Seed               uint64  `toml:"seed"`
	GlobalFailureRate  float64 `toml:"global_failure_rate"`
	PaymentFailureRate float64 `toml:"payment_failure_rate"`
	RugRate            float64 `toml:"rug_rate"`
	MinLatencyMs       int64   `toml:"min_latency_ms"`
	MaxLatencyMs       int64   `toml:"max_latency_ms"`
}

// Default returns the runtime's built-in defaults: chaos disabled, the
// default listen address and network.
func Default() Config {
	return Config{
		Listen:  DefaultListenAddr,
		Network: DefaultNetwork,
		Chaos: ChaosConfig{
			Enabled: false,
			Seed:    DefaultChaosSeed,
		},
	}
}

// Load resolves configuration in precedence order: process env overrides
// .env.local, which overrides .env, which overrides configPath (if it
// exists), which overrides Default(). configPath may be empty to skip
// file loading.
func Load(configPath string) (Config, error) {
	if err := loadDotEnvPrecedence(); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if configPath != "" {
		if err := mergeFile(&cfg, configPath); err != nil {
			return Config{}, err
		}
	}
	mergeEnv(&cfg)
	return cfg, nil
}

func loadDotEnvPrecedence() error {
	// .env.local is read first so its values are set before .env, which
	// then only fills keys still unset.
	for _, name := range []string{".env.local", ".env"} {
		values, err := godotenv.Read(name)
		if err != nil {
			continue
		}
		for k, v := range values {
			if _, exists := os.LookupEnv(k); !exists {
				if setErr := os.Setenv(k, v); setErr != nil {
					return setErr
				}
			}
		}
	}
	return nil
}

func mergeFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	_, err := toml.DecodeFile(path, cfg)
	return err
}

func mergeEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("XDR_LISTEN")); v != "" {
		cfg.Listen = v
	}
	if v := strings.TrimSpace(os.Getenv("XDR_NETWORK")); v != "" {
		cfg.Network = v
	}
	if v := strings.TrimSpace(os.Getenv("XDR_CHAOS_ENABLED")); v != "" {
		cfg.Chaos.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := strings.TrimSpace(os.Getenv("XDR_CHAOS_SEED")); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Chaos.Seed = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("XDR_CHAOS_FAILURE_RATE")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Chaos.GlobalFailureRate = f
		}
	}
}

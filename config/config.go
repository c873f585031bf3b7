// Package config loads the planner's YAML configuration.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/warp/debt-planner/payoff"
)

//go:embed default-config.yaml
var defaultConfigYAML []byte

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Cache     CacheConfig     `yaml:"cache"`
	Retention RetentionConfig `yaml:"retention"`
	Planner   PlannerConfig   `yaml:"planner"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

// StoreConfig selects the plan history database. Driver is sqlite3 or postgres.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type CacheConfig struct {
	Backend       string        `yaml:"backend"`
	TTL           time.Duration `yaml:"ttl"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
}

type RetentionConfig struct {
	Enabled       bool          `yaml:"enabled"`
	KeepFor       time.Duration `yaml:"keep_for"`
	CheckInterval time.Duration `yaml:"check_interval"`
}

type PlannerConfig struct {
	DefaultStrategy string `yaml:"default_strategy"`
	DefaultLanguage string `yaml:"default_language"`
	HistoryLimit    int    `yaml:"history_limit"`
}

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Default returns the embedded defaults.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultConfigYAML, cfg); err != nil {
		panic(fmt.Sprintf("embedded default config is invalid: %v", err))
	}
	return cfg
}

// Load reads path over the defaults. An empty path returns the defaults.
// Either way the result is validated.
func Load(path string) (*Config, error) {
	return loadOver(defaultConfigYAML, path)
}

func loadOver(defaults []byte, path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaults, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse default config: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields that cannot be defaulted sensibly.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Store.Driver != "sqlite3" && c.Store.Driver != "postgres" {
		errs = append(errs, fmt.Errorf("store.driver must be sqlite3 or postgres, got %q", c.Store.Driver))
	}
	if c.Cache.Backend != CacheMemory && c.Cache.Backend != CacheRedis {
		errs = append(errs, fmt.Errorf("cache.backend must be memory or redis, got %q", c.Cache.Backend))
	}
	if _, err := payoff.ParseStrategy(c.Planner.DefaultStrategy); err != nil {
		errs = append(errs, fmt.Errorf("planner.default_strategy: %w", err))
	}
	if c.Retention.Enabled && (c.Retention.KeepFor <= 0 || c.Retention.CheckInterval <= 0) {
		errs = append(errs, errors.New("retention.keep_for and retention.check_interval must be positive"))
	}
	return errors.Join(errs...)
}

// Package config loads simulator settings from a YAML file and AEROSIM_*
// environment variables. Environment values win over the file.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/aretw0/aerosim/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given. A missing default file is not an error.
const DefaultPath = "aerosim.yaml"

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full set of runtime settings.
type Config struct {
	Variant string      `yaml:"variant" env:"AEROSIM_VARIANT, overwrite"`
	Store   string      `yaml:"store" env:"AEROSIM_STORE, overwrite"`
	Redis   RedisConfig `yaml:"redis"`
	HTTP    HTTPConfig  `yaml:"http"`
	Log     LogConfig   `yaml:"log"`

	// Tables holds custom alphabet variants keyed by name, kept loose so
	// they are decoded (and reported) one by one.
	Tables map[string]any `yaml:"tables"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"AEROSIM_REDIS_ADDR, overwrite"`
	Password string        `yaml:"password" env:"AEROSIM_REDIS_PASSWORD, overwrite"`
	DB       int           `yaml:"db" env:"AEROSIM_REDIS_DB, overwrite"`
	Prefix   string        `yaml:"prefix" env:"AEROSIM_REDIS_PREFIX, overwrite"`
	TTL      time.Duration `yaml:"ttl" env:"AEROSIM_REDIS_TTL, overwrite"`
}

type HTTPConfig struct {
	Port int `yaml:"port" env:"AEROSIM_HTTP_PORT, overwrite"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"AEROSIM_LOG_LEVEL, overwrite"`
	Format string `yaml:"format" env:"AEROSIM_LOG_FORMAT, overwrite"`
}

// TableSpec is the decoded form of one custom table.
type TableSpec struct {
	Alphabet    []string            `mapstructure:"alphabet"`
	Transitions []domain.Transition `mapstructure:"transitions"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Variant: "named",
		Store:   StoreMemory,
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "aerosim:session:",
			TTL:    24 * time.Hour,
		},
		HTTP: HTTPConfig{Port: 8080},
		Log:  LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults and then applies environment overrides.
// An empty path means DefaultPath, which may be absent.
func Load(ctx context.Context, path string) (*Config, error) {
	return load(ctx, path, envconfig.OsLookuper())
}

func load(ctx context.Context, path string, lookuper envconfig.Lookuper) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file: defaults plus environment.
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have a closed set of values.
func (c *Config) Validate() error {
	var problems []string
	if c.Variant == "" {
		problems = append(problems, "variant is required")
	}
	if c.Store != StoreMemory && c.Store != StoreRedis {
		problems = append(problems, fmt.Sprintf("store must be %q or %q, got %q", StoreMemory, StoreRedis, c.Store))
	}
	if c.Store == StoreRedis && c.Redis.Addr == "" {
		problems = append(problems, "redis.addr is required when store is redis")
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		problems = append(problems, fmt.Sprintf("http.port %d is out of range", c.HTTP.Port))
	}
	if c.Log.Format != "" && c.Log.Format != "text" && c.Log.Format != "json" {
		problems = append(problems, fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}
	if len(problems) == 0 {
		return nil
	}
	msg := problems[0]
	for _, p := range problems[1:] {
		msg += "; " + p
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, msg)
}

// CustomTables decodes and builds the tables declared under "tables", sorted by name.
func (c *Config) CustomTables() ([]*domain.TransitionTable, error) {
	names := make([]string, 0, len(c.Tables))
	for name := range c.Tables {
		names = append(names, name)
	}
	sort.Strings(names)

	tables := make([]*domain.TransitionTable, 0, len(names))
	for _, name := range names {
		var spec TableSpec
		if err := mapstructure.Decode(c.Tables[name], &spec); err != nil {
			return nil, fmt.Errorf("failed to decode table %q: %w", name, err)
		}

		alpha := make(domain.Alphabet, len(spec.Alphabet))
		for i, s := range spec.Alphabet {
			alpha[i] = domain.Symbol(s)
		}
		table, err := domain.NewTransitionTable(name, alpha, spec.Transitions)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

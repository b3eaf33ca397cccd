// Package config loads quizflow settings from flags, QUIZFLOW_* environment
// variables, an optional config file and built-in defaults, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/aretw0/quizflow/internal/logging"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. QUIZFLOW_STORE_DRIVER.
const EnvPrefix = "QUIZFLOW"

// DefaultPassphrase is the shared administrator passphrase when none is configured.
const DefaultPassphrase = "hackhope"

// Driver selects the result store backend.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverSQLite Driver = "sqlite"
	DriverRedis  Driver = "redis"
)

// ParseDriver validates a driver name.
func ParseDriver(s string) (Driver, error) {
	switch d := Driver(strings.ToLower(strings.TrimSpace(s))); d {
	case DriverMemory, DriverSQLite, DriverRedis:
		return d, nil
	}
	return "", fmt.Errorf("unknown store driver %q (want memory, sqlite or redis)", s)
}

// Config is the resolved application configuration.
type Config struct {
	Addr            string         `mapstructure:"addr"`
	LogLevel        slog.Level     `mapstructure:"log_level"`
	LogFormat       logging.Format `mapstructure:"log_format"`
	Graph           string         `mapstructure:"graph"`
	ShutdownTimeout time.Duration  `mapstructure:"shutdown_timeout"`
	Admin           AdminConfig    `mapstructure:"admin"`
	Store           StoreConfig    `mapstructure:"store"`
}

type AdminConfig struct {
	Passphrase string `mapstructure:"passphrase"`
}

type StoreConfig struct {
	Driver     Driver      `mapstructure:"driver"`
	SQLitePath string      `mapstructure:"sqlite_path"`
	Redis      RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
	Channel  string `mapstructure:"channel"`
}

// New returns a viper instance with defaults and environment binding applied.
// Callers bind command-line flags onto it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", string(logging.FormatText))
	v.SetDefault("graph", "")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("admin.passphrase", DefaultPassphrase)
	v.SetDefault("store.driver", string(DriverMemory))
	v.SetDefault("store.sqlite_path", "data/quizflow.db")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "quizflow:")
	v.SetDefault("store.redis.channel", "quizflow:changes")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (explicit path, or quizflow.{yaml,json,toml} in the
// working directory if present) and decodes the merged settings.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName("quizflow")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		stringToLevelHook(),
		stringToDriverHook(),
	)))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks driver-specific requirements.
func (c *Config) Validate() error {
	if c.Admin.Passphrase == "" {
		return errors.New("admin.passphrase must not be empty")
	}
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("store.sqlite_path is required for the sqlite driver")
		}
	case DriverRedis:
		if c.Store.Redis.Addr == "" {
			return errors.New("store.redis.addr is required for the redis driver")
		}
	}
	if c.LogFormat != logging.FormatText && c.LogFormat != logging.FormatJSON {
		return fmt.Errorf("unknown log format %q (want text or json)", c.LogFormat)
	}
	return nil
}

func stringToLevelHook() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf(slog.Level(0)) {
			return data, nil
		}
		return logging.ParseLevel(data.(string))
	}
}

func stringToDriverHook() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf(Driver("")) {
			return data, nil
		}
		return ParseDriver(data.(string))
	}
}

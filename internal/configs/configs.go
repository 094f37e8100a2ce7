package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	AppHost                string `toml:"app_host"`
	AppPort                string `toml:"app_port"`
	DatabaseDriver         string `toml:"database_driver"`
	DatabaseDSN            string `toml:"database_dsn"`
	RateLimit              int    `toml:"rate_limit_per_minute"`
	RedisHost              string `toml:"redis_host"`
	RedisPort              string `toml:"redis_port"`
	LockBackend            string `toml:"lock_backend"`
	LockKeyPrefix          string `toml:"lock_key_prefix"`
	LockTTLMillis          int    `toml:"lock_ttl_ms"`
	LockWaitMillis         int    `toml:"lock_wait_ms"`
	AllowCancelInProgress  bool   `toml:"allow_cancel_in_progress"`
	ShutdownTimeoutSeconds int    `toml:"shutdown_timeout_seconds"`
	LogLevel               string `toml:"log_level"`
	LogFormat              string `toml:"log_format"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	LockMemory = "memory"
	LockRedis  = "redis"
)

func Defaults() Config {
	return Config{
		AppHost:                "127.0.0.1",
		AppPort:                "8080",
		DatabaseDriver:         DriverSQLite,
		DatabaseDSN:            "market.db",
		RateLimit:              60,
		RedisHost:              "127.0.0.1",
		RedisPort:              "6379",
		LockBackend:            LockMemory,
		LockKeyPrefix:          "task-market:lock:",
		LockTTLMillis:          10000,
		LockWaitMillis:         5000,
		ShutdownTimeoutSeconds: 20,
		LogLevel:               "info",
		LogFormat:              "json",
	}
}

// Load builds the configuration from defaults, the optional TOML file at
// path, a .env file if present, and finally the process environment.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setStr(&cfg.AppHost, "APP_HOST")
	setStr(&cfg.AppPort, "APP_PORT")
	setStr(&cfg.DatabaseDriver, "DATABASE_DRIVER")
	setStr(&cfg.DatabaseDSN, "DATABASE_DSN")
	setStr(&cfg.RedisHost, "REDIS_HOST")
	setStr(&cfg.RedisPort, "REDIS_PORT")
	setStr(&cfg.LockBackend, "LOCK_BACKEND")
	setStr(&cfg.LockKeyPrefix, "LOCK_KEY_PREFIX")
	setStr(&cfg.LogLevel, "LOG_LEVEL")
	setStr(&cfg.LogFormat, "LOG_FORMAT")

	return errors.Join(
		setInt(&cfg.RateLimit, "RATE_LIMIT_PER_MINUTE"),
		setInt(&cfg.LockTTLMillis, "LOCK_TTL_MS"),
		setInt(&cfg.LockWaitMillis, "LOCK_WAIT_MS"),
		setInt(&cfg.ShutdownTimeoutSeconds, "SHUTDOWN_TIMEOUT_SECONDS"),
		setBool(&cfg.AllowCancelInProgress, "ALLOW_CANCEL_IN_PROGRESS"),
	)
}

func (c Config) Validate() error {
	var errs []error
	if c.AppPort == "" {
		errs = append(errs, errors.New("APP_PORT must not be empty"))
	}
	if c.DatabaseDriver != DriverSQLite && c.DatabaseDriver != DriverPostgres {
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be %q or %q", DriverSQLite, DriverPostgres))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN must not be empty"))
	}
	if c.RateLimit <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must be greater than 0"))
	}
	if c.LockBackend != LockMemory && c.LockBackend != LockRedis {
		errs = append(errs, fmt.Errorf("LOCK_BACKEND must be %q or %q", LockMemory, LockRedis))
	}
	if c.LockTTLMillis <= 0 {
		errs = append(errs, errors.New("LOCK_TTL_MS must be greater than 0"))
	}
	if c.LockWaitMillis <= 0 {
		errs = append(errs, errors.New("LOCK_WAIT_MS must be greater than 0"))
	}
	if c.ShutdownTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0"))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		errs = append(errs, errors.New(`LOG_FORMAT must be "json" or "text"`))
	}
	return errors.Join(errs...)
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.AppHost, c.AppPort)
}

func (c Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, c.RedisPort)
}

func (c Config) LockTTL() time.Duration {
	return time.Duration(c.LockTTLMillis) * time.Millisecond
}

func (c Config) LockWait() time.Duration {
	return time.Duration(c.LockWaitMillis) * time.Millisecond
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid integer value for %s: %q", key, v)
	}
	*dst = i
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid boolean value for %s: %q", key, v)
	}
	*dst = b
	return nil
}

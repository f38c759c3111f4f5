/*
config.go - Environment configuration

PURPOSE:
  Loads server settings from the environment, optionally seeded from a
  .env file in the working directory. A missing .env file is fine; a
  malformed one is an error.

KEYS:
  APP_PORT              HTTP port (8080)
  APP_ENV               development | production (development)
  LOG_LEVEL             debug | info | warn | error (info)
  DB_PATH               SQLite file (payroll.db); set to "" to disable saving
  CORS_ALLOWED_ORIGINS  comma separated origins (localhost dev origins)
  PAYROLL_WORKERS       batch worker pool size (number of CPUs)
  PAYROLL_DAY_DIVISOR   days a month's earnings are spread over (30)

SEE ALSO:
  - cmd/server/main.go: flags -port and -db override APP_PORT and DB_PATH
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	App     AppConfig
	Store   StoreConfig
	Payroll PayrollConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type StoreConfig struct {
	Path string // empty disables persistence
}

type PayrollConfig struct {
	Workers    int
	DayDivisor int
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds and validates a Config from the current environment only.
func FromEnv() (*Config, error) {
	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	config.Store = StoreConfig{Path: lookupEnv("DB_PATH", "payroll.db")}

	workers, err := strconv.Atoi(getEnv("PAYROLL_WORKERS", strconv.Itoa(runtime.NumCPU())))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_WORKERS: %w", err)
	}
	divisor, err := strconv.Atoi(getEnv("PAYROLL_DAY_DIVISOR", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_DAY_DIVISOR: %w", err)
	}
	config.Payroll = PayrollConfig{Workers: workers, DayDivisor: divisor}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Port < 1 || c.App.Port > 65535 {
		return fmt.Errorf("APP_PORT must be between 1 and 65535, got %d", c.App.Port)
	}
	if _, err := c.App.Level(); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if c.Payroll.Workers < 1 {
		return fmt.Errorf("PAYROLL_WORKERS must be positive, got %d", c.Payroll.Workers)
	}
	if c.Payroll.DayDivisor < 1 {
		return fmt.Errorf("PAYROLL_DAY_DIVISOR must be positive, got %d", c.Payroll.DayDivisor)
	}
	return nil
}

func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// Level parses LogLevel.
func (c AppConfig) Level() (zapcore.Level, error) {
	return zapcore.ParseLevel(c.LogLevel)
}

// Persistent reports whether a store path is configured.
func (c StoreConfig) Persistent() bool {
	return c.Path != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// lookupEnv is getEnv that honors a variable explicitly set to "".
func lookupEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

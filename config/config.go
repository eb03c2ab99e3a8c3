// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every setting the server and CLI read at startup.
type Config struct {
	App     AppConfig
	DB      DatabaseConfig
	Payroll PayrollConfig
	Leave   LeaveConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Path string
}

type PayrollConfig struct {
	Timezone    string
	Concurrency int
}

type LeaveConfig struct {
	AnnualDays int
}

// Load reads .env (if present) and then the process environment. Variables
// already set in the environment win over .env values.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	port, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	concurrency, err := strconv.Atoi(getEnv("PAYROLL_CONCURRENCY", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_CONCURRENCY: %w", err)
	}
	if concurrency < 1 {
		concurrency = 1
	}
	annualDays, err := strconv.Atoi(getEnv("LEAVE_ANNUAL_DAYS", "20"))
	if err != nil || annualDays < 0 {
		return nil, fmt.Errorf("invalid LEAVE_ANNUAL_DAYS: %q", getEnv("LEAVE_ANNUAL_DAYS", "20"))
	}

	return &Config{
		App: AppConfig{
			Port:        port,
			Env:         getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "timekeeper.db"),
		},
		Payroll: PayrollConfig{
			Timezone:    getEnv("APP_TIMEZONE", "UTC"),
			Concurrency: concurrency,
		},
		Leave: LeaveConfig{
			AnnualDays: annualDays,
		},
	}, nil
}

// SlogLevel maps LOG_LEVEL to a slog level. Unknown values mean info.
func (c AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction reports whether APP_ENV is "production".
func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

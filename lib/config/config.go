// Package config reads dashboard settings from the environment, after
// loading any .env file present.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ErrMissing is returned when a required variable is unset.
var ErrMissing = errors.New("required environment variable not set")

// Config is the dashboard's runtime configuration.
type Config struct {
	Port      string
	DataPath  string
	DataTable string
	DataSheet string
	Password  string
	LogoPath  string
	LogLevel  slog.Level
}

// Load reads files (".env" when none are given) into the environment
// without overriding variables that are already set, then builds a Config.
// Missing env files are ignored.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{
		Port:      getenv("PORT", "8080"),
		DataPath:  os.Getenv("DATA_PATH"),
		DataTable: getenv("DATA_TABLE", "students"),
		DataSheet: os.Getenv("DATA_SHEET"),
		Password:  os.Getenv("DASHBOARD_PASSWORD"),
		LogoPath:  os.Getenv("LOGO_PATH"),
	}

	var missing []string
	if cfg.DataPath == "" {
		missing = append(missing, "DATA_PATH")
	}
	if cfg.Password == "" {
		missing = append(missing, "DASHBOARD_PASSWORD")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("PORT must be a number, got %q", cfg.Port)
	}

	level, err := ParseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	return cfg, nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Package config loads zencheck's driver-level configuration from the
// environment, following the teacher pack's env-var convention
// (internal/config/config.go) and optionally layering in a .env file via
// github.com/joho/godotenv. None of this is consulted by the checker
// core — it only configures the CLI driver (history store location,
// color output, default glob pattern).
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds zencheck's driver configuration.
type Config struct {
	// HistoryDBPath is where the sqlite run-history store lives.
	HistoryDBPath string
	// Color forces colorized diagnostic output on/off regardless of
	// terminal detection when explicitly set via ZENCHECK_COLOR.
	Color *bool
	// DefaultGlob is the fixture glob used when no paths are given on
	// the command line.
	DefaultGlob string
}

// Load reads configuration from the environment, first loading a
// .env file in the working directory if one is present (godotenv.Load
// returns an error when no .env exists, which is not fatal here).
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HistoryDBPath: os.Getenv("ZENCHECK_HISTORY_DB"),
		DefaultGlob:   os.Getenv("ZENCHECK_DEFAULT_GLOB"),
	}

	if cfg.HistoryDBPath == "" {
		cfg.HistoryDBPath = "zencheck_history.db"
	}
	if cfg.DefaultGlob == "" {
		cfg.DefaultGlob = "**/*.zenast.json"
	}

	if raw := os.Getenv("ZENCHECK_COLOR"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			cfg.Color = &v
		}
	}

	return cfg
}

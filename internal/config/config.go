// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/hazardhunt/tts/internal/backend"
)

// Config holds the application configuration.
type Config struct {
	DBPath   string `env:"HH_DB"`
	Language string `env:"HH_LANG"`
	LogLevel string `env:"HH_LOG_LEVEL" envDefault:"info"`
	LogCalls bool   `env:"HH_LOG_CALLS" envDefault:"false"`

	// Translate non-English descriptions to English before submission.
	TranslateDescriptions bool `env:"HH_TRANSLATE_DESCRIPTIONS" envDefault:"true"`

	Backend backend.Config `envPrefix:"HH_API_"`
}

// Load reads the process environment. Values from envFiles fill in keys the
// environment does not set; missing files are skipped.
func Load(envFiles ...string) (*Config, error) {
	environ := env.ToMap(os.Environ())
	for _, path := range envFiles {
		vals, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		for k, v := range vals {
			if _, ok := environ[k]; !ok {
				environ[k] = v
			}
		}
	}
	return Parse(environ)
}

// Parse builds a Config from an explicit environment map.
func Parse(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath()
	}
	if cfg.Language == "" {
		cfg.Language = LanguageFromLocale(environ["LANG"])
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if cfg.Backend.Timeout < 0 {
		return nil, fmt.Errorf("HH_API_TIMEOUT must not be negative, got %s", cfg.Backend.Timeout)
	}
	return cfg, nil
}

// SlogLevel returns the configured log level.
func (c Config) SlogLevel() slog.Level {
	lvl, _ := parseLevel(c.LogLevel)
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("HH_LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

// LanguageFromLocale turns a POSIX locale such as "fi_FI.UTF-8" into a
// language tag ("fi-FI"). The C and POSIX locales map to English.
func LanguageFromLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	switch locale {
	case "", "C", "POSIX":
		return "en"
	}
	return strings.ReplaceAll(locale, "_", "-")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "hazardhunt.db"
	}
	return filepath.Join(home, ".hazardhunt", "hazardhunt.db")
}

// Package config handles loading and parsing application configuration.
// It supports three sources (in priority order):
//  1. Environment variables, optionally seeded from a .env file
//  2. A YAML file named by CONFIG_PATH or the --config flag
//  3. The env-default values declared on the struct tags
//
// No source is mandatory: a bare `tutor-manager` run works with defaults and
// keeps its data in ./data.db.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// StoragePath is the filesystem path to the SQLite .db file.
	// ":memory:" keeps everything in RAM (used by the tests).
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"data.db"`

	// LogPath receives the structured logs. Empty means stderr, so the
	// interactive prompts on stdout are never interleaved with log lines.
	LogPath string `yaml:"log_path" env:"LOG_PATH"`

	// EchoSQL logs every SQL statement at debug level.
	EchoSQL bool `yaml:"echo_sql" env:"ECHO_SQL" env-default:"false"`

	// ListLimit caps the listings. Zero or less lists everything.
	ListLimit int `yaml:"list_limit" env:"LIST_LIMIT" env-default:"0"`

	// Contact is embedded so cfg.PhoneRegion reads naturally.
	Contact `yaml:"contact"`
}

// Contact holds the settings used when checking phone numbers and emails.
// Nested under contact: in the YAML file.
type Contact struct {
	// PhoneRegion is the ISO 3166 region used for numbers typed without
	// an international prefix.
	PhoneRegion string `yaml:"phone_region" env:"PHONE_REGION" env-default:"FR"`

	// CheckDeliverability enables the DNS lookup of email domains. It is on
	// unless the file or the environment turns it off, see defaults.
	CheckDeliverability bool `yaml:"check_deliverability" env:"CHECK_DELIVERABILITY"`
}

// Load reads the config at path, or only the environment when path is empty.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config.Load: read env: %w", err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config.Load: config file does not exist: %s", path)
	}

	// cleanenv.ReadConfig reads the YAML file and populates the struct,
	// then applies env overrides and env-default values.
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: read %s: %w", path, err)
	}

	return &cfg, nil
}

// defaults presets the fields whose default is true. cleanenv applies
// env-default to every zero field, so a tag would override an explicit false.
func defaults() Config {
	return Config{
		Contact: Contact{CheckDeliverability: true},
	}
}

// MustLoad reads, validates, and returns the application config.
// Functions prefixed with "Must" are allowed to fatal on failure.
func MustLoad() *Config {
	// A missing .env file is the normal case.
	_ = godotenv.Load()

	// ── Source 1: environment variable ───────────────────────────────
	configPath := os.Getenv("CONFIG_PATH")

	// ── Source 2: command-line flag ───────────────────────────────────
	//   go run ./cmd/tutor-manager --config=config/local.yaml
	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	return cfg
}

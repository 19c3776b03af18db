// Package config resolves where a coach cycle reads its canon and state and
// where it writes receipts. Values come from an optional YAML file named by
// COACH_CONFIG, then from COACH_* environment variables, then defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds runtime paths and settings for one coach invocation.
type Config struct {
	// Root is the project directory relative paths are resolved against.
	Root string `yaml:"root"`

	// Lane names the tuning context. Defaults to "lane1".
	Lane string `yaml:"lane"`

	DBPath      string `yaml:"db_path"`
	LawPath     string `yaml:"law_path"`
	ReceiptDir  string `yaml:"receipt_dir"`
	LatestPath  string `yaml:"latest_path"`
	HistoryPath string `yaml:"history_path"`

	// LogLevel is "debug", "info" (default), "warn" or "error".
	LogLevel string `yaml:"log_level"`
	NoColor  bool   `yaml:"no_color"`
}

// Default returns the layout used when nothing is configured.
func Default() Config {
	return Config{
		Root:        ".",
		Lane:        "lane1",
		DBPath:      filepath.Join("adapters", "coach.db"),
		LawPath:     filepath.Join("canon", "law.json"),
		ReceiptDir:  filepath.Join("docs", "receipts"),
		LatestPath:  filepath.Join("docs", "receipt.latest.json"),
		HistoryPath: "",
		LogLevel:    "info",
	}
}

// Overrides carries command-line values. Non-empty fields win over the
// config file and the environment.
type Overrides struct {
	Root     string
	Lane     string
	LogLevel string
}

// Load builds the Config for this process.
func Load() (Config, error) {
	return LoadWith(Overrides{})
}

// LoadWith is Load with command-line overrides applied last.
func LoadWith(o Overrides) (Config, error) {
	cfg := Default()

	if path := os.Getenv("COACH_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	cfg.Root = envOr("COACH_ROOT", cfg.Root)
	cfg.Lane = envOr("COACH_LANE", cfg.Lane)
	cfg.DBPath = envOr("COACH_DB", cfg.DBPath)
	cfg.LawPath = envOr("COACH_LAW", cfg.LawPath)
	cfg.ReceiptDir = envOr("COACH_RECEIPTS", cfg.ReceiptDir)
	cfg.LatestPath = envOr("COACH_LATEST", cfg.LatestPath)
	cfg.HistoryPath = envOr("COACH_HISTORY", cfg.HistoryPath)
	cfg.LogLevel = envOr("COACH_LOG_LEVEL", cfg.LogLevel)
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.NoColor = true
	}

	cfg.Root = orDefault(o.Root, cfg.Root)
	cfg.Lane = orDefault(o.Lane, cfg.Lane)
	cfg.LogLevel = orDefault(o.LogLevel, cfg.LogLevel)

	if cfg.Lane == "" {
		return Config{}, fmt.Errorf("config: lane must not be empty")
	}
	if cfg.HistoryPath == "" {
		cfg.HistoryPath = filepath.Join("data", cfg.Lane, "history.jsonl")
	}
	return cfg.resolve(), nil
}

// resolve anchors relative paths at Root.
func (c Config) resolve() Config {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(c.Root, p)
	}
	c.DBPath = abs(c.DBPath)
	c.LawPath = abs(c.LawPath)
	c.ReceiptDir = abs(c.ReceiptDir)
	c.LatestPath = abs(c.LatestPath)
	c.HistoryPath = abs(c.HistoryPath)
	return c
}

func envOr(key, fallback string) string {
	return orDefault(os.Getenv(key), fallback)
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

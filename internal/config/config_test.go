package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"COACH_CONFIG", "COACH_ROOT", "COACH_LANE", "COACH_DB", "COACH_LAW",
		"COACH_RECEIPTS", "COACH_LATEST", "COACH_HISTORY", "COACH_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "lane1", cfg.Lane)
	assert.Equal(t, filepath.Join("adapters", "coach.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join("canon", "law.json"), cfg.LawPath)
	assert.Equal(t, filepath.Join("docs", "receipts"), cfg.ReceiptDir)
	assert.Equal(t, filepath.Join("docs", "receipt.latest.json"), cfg.LatestPath)
	assert.Equal(t, filepath.Join("data", "lane1", "history.jsonl"), cfg.HistoryPath)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("COACH_ROOT", "/srv/coach")
	t.Setenv("COACH_LANE", "lane7")
	t.Setenv("COACH_DB", "/var/lib/coach.db")
	t.Setenv("COACH_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "lane7", cfg.Lane)
	assert.Equal(t, "/var/lib/coach.db", cfg.DBPath)
	assert.Equal(t, filepath.Join("/srv/coach", "canon", "law.json"), cfg.LawPath)
	assert.Equal(t, filepath.Join("/srv/coach", "data", "lane7", "history.jsonl"), cfg.HistoryPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadYAMLFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "coach.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lane: blue\nlaw_path: /etc/coach/law.yaml\nlog_level: warn\n"), 0o644))
	t.Setenv("COACH_CONFIG", path)
	t.Setenv("COACH_LOG_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "blue", cfg.Lane)
	assert.Equal(t, "/etc/coach/law.yaml", cfg.LawPath)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("COACH_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadEmptyLaneFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "coach.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lane: \"\"\n"), 0o644))
	t.Setenv("COACH_CONFIG", path)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadWithOverridesBeatEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("COACH_LANE", "lane7")
	t.Setenv("COACH_LOG_LEVEL", "warn")

	cfg, err := LoadWith(Overrides{Root: "/work", Lane: "lane9"})
	require.NoError(t, err)
	assert.Equal(t, "lane9", cfg.Lane)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, filepath.Join("/work", "adapters", "coach.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join("/work", "data", "lane9", "history.jsonl"), cfg.HistoryPath)
}

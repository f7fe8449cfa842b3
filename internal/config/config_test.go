package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "LOG_LEVEL", "PORT", "EC_BASE_URL", "UPSTREAM_TIMEOUT",
		"VOTES_BACKEND", "VOTES_FILE", "VOTES_SQLITE_PATH",
		"VOTES_BACKUP_FILE", "VOTES_BACKUP_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "0.0.0.0:5000", cfg.Addr())
	assert.Equal(t, "https://dd.weather.gc.ca/citypage_weather/xml", cfg.UpstreamBaseURL)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, VotesBackendJSON, cfg.VotesBackend)
	assert.Equal(t, "votes.json", cfg.VotesFile)
	assert.Equal(t, "votes.db", cfg.VotesSQLitePath)
	assert.Empty(t, cfg.VotesBackupFile)
	assert.Equal(t, time.Hour, cfg.VotesBackupInterval)
}

func TestLoad_CustomEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PORT", "8081")
	t.Setenv("EC_BASE_URL", "http://localhost:9999/xml/")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("VOTES_BACKEND", "SQLite")
	t.Setenv("VOTES_SQLITE_PATH", "/tmp/votes.db")
	t.Setenv("VOTES_BACKUP_FILE", "/tmp/votes.bak.json")
	t.Setenv("VOTES_BACKUP_INTERVAL", "15m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.AppEnv)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "0.0.0.0:8081", cfg.Addr())
	assert.Equal(t, "http://localhost:9999/xml", cfg.UpstreamBaseURL)
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, VotesBackendSQLite, cfg.VotesBackend)
	assert.Equal(t, "/tmp/votes.db", cfg.VotesSQLitePath)
	assert.Equal(t, "/tmp/votes.bak.json", cfg.VotesBackupFile)
	assert.Equal(t, 15*time.Minute, cfg.VotesBackupInterval)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"APP_ENV":               "staging",
		"LOG_LEVEL":             "verbose",
		"PORT":                  "not-a-port",
		"UPSTREAM_TIMEOUT":      "-1s",
		"VOTES_BACKEND":         "redis",
		"VOTES_BACKUP_INTERVAL": "soon",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	VotesBackendJSON   = "json"
	VotesBackendSQLite = "sqlite"
)

type AppConfig struct {
	AppEnv   string
	LogLevel slog.Level

	// Host is fixed; only the port is configurable.
	Host string
	Port int

	// Environment Canada citypage feed.
	UpstreamBaseURL string
	UpstreamTimeout time.Duration

	// Vote ledger persistence.
	VotesBackend    string
	VotesFile       string
	VotesSQLitePath string

	// Periodic ledger backup. Empty VotesBackupFile disables it.
	VotesBackupFile     string
	VotesBackupInterval time.Duration
}

// Addr returns the listen address for the HTTP server.
func (c *AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	cfg := &AppConfig{Host: "0.0.0.0"}

	cfg.AppEnv = getenvDefault("APP_ENV", "dev")
	switch cfg.AppEnv {
	case "dev", "prod":
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", cfg.AppEnv)
	}

	level, err := parseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	port, err := strconv.Atoi(getenvDefault("PORT", "5000"))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}
	cfg.Port = port

	cfg.UpstreamBaseURL = strings.TrimRight(
		getenvDefault("EC_BASE_URL", "https://dd.weather.gc.ca/citypage_weather/xml"), "/")

	timeout, err := time.ParseDuration(getenvDefault("UPSTREAM_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT %q", os.Getenv("UPSTREAM_TIMEOUT"))
	}
	cfg.UpstreamTimeout = timeout

	cfg.VotesBackend = strings.ToLower(getenvDefault("VOTES_BACKEND", VotesBackendJSON))
	switch cfg.VotesBackend {
	case VotesBackendJSON, VotesBackendSQLite:
	default:
		return nil, fmt.Errorf("invalid VOTES_BACKEND %q (allowed: json, sqlite)", cfg.VotesBackend)
	}
	cfg.VotesFile = getenvDefault("VOTES_FILE", "votes.json")
	cfg.VotesSQLitePath = getenvDefault("VOTES_SQLITE_PATH", "votes.db")

	cfg.VotesBackupFile = os.Getenv("VOTES_BACKUP_FILE")
	interval, err := time.ParseDuration(getenvDefault("VOTES_BACKUP_INTERVAL", "1h"))
	if err != nil || interval <= 0 {
		return nil, fmt.Errorf("invalid VOTES_BACKUP_INTERVAL %q", os.Getenv("VOTES_BACKUP_INTERVAL"))
	}
	cfg.VotesBackupInterval = interval

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvAPIURL         = "CLUB_API_URL"
	EnvRequestTimeout = "CLUB_REQUEST_TIMEOUT"
	EnvSessionDB      = "CLUB_SESSION_DB"
	EnvLogLevel       = "CLUB_LOG_LEVEL"
	EnvLanguage       = "CLUB_LANG"
	EnvRateLimitRPS   = "CLUB_RATE_LIMIT_RPS"
	EnvRateLimitBurst = "CLUB_RATE_LIMIT_BURST"
)

// parseEnv loads ./.env if it exists (without overriding variables already
// set in the process) and copies recognised CLUB_* values into cfg.
// Malformed values are ignored and the previous value is kept.
func parseEnv(cfg *Config, files ...string) {
	_ = godotenv.Load(files...)

	cfg.APIBaseURL = getEnv(EnvAPIURL, cfg.APIBaseURL)
	cfg.SessionDBPath = getEnv(EnvSessionDB, cfg.SessionDBPath)
	cfg.LogLevel = getEnv(EnvLogLevel, cfg.LogLevel)
	cfg.Language = getEnv(EnvLanguage, cfg.Language)
	cfg.RequestTimeout = getDuration(EnvRequestTimeout, cfg.RequestTimeout)

	if v, err := strconv.ParseFloat(getEnv(EnvRateLimitRPS, ""), 64); err == nil && v > 0 {
		cfg.RateLimitRPS = v
	}
	if v, err := strconv.Atoi(getEnv(EnvRateLimitBurst, "")); err == nil && v > 0 {
		cfg.RateLimitBurst = v
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// getDuration accepts "20s"-style durations or a bare number of seconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}

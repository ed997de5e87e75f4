package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/clubhub/internal/flagx"
	"github.com/dmitrijs2005/clubhub/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent fields
// leave the corresponding Config value untouched.
type JsonConfig struct {
	APIBaseURL     string          `json:"api_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	SessionDBPath  string          `json:"session_db_path"`
	LogLevel       string          `json:"log_level"`
	RateLimitRPS   *float64        `json:"rate_limit_rps"`
	RateLimitBurst *int            `json:"rate_limit_burst"`
	Language       string          `json:"language"`
}

// parseJson overlays cfg with the file named by -c/-config in args (or
// $CLUB_CONFIG). It panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SessionDBPath != "" {
		cfg.SessionDBPath = jc.SessionDBPath
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.RateLimitRPS != nil {
		cfg.RateLimitRPS = *jc.RateLimitRPS
	}
	if jc.RateLimitBurst != nil {
		cfg.RateLimitBurst = *jc.RateLimitBurst
	}
	if jc.Language != "" {
		cfg.Language = jc.Language
	}
}

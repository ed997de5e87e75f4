package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the club client.
//
// Fields:
//   - APIBaseURL: root of the REST API, e.g. "http://127.0.0.1:8080/api".
//   - RequestTimeout: upper bound for a single gateway request.
//   - SessionDBPath: SQLite file holding the persisted session.
//   - LogLevel: debug, info, warn or error.
//   - RateLimitRPS / RateLimitBurst: client-side request rate.
//   - Language: UI language used until the user stores a preference.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	SessionDBPath  string
	LogLevel       string
	RateLimitRPS   float64
	RateLimitBurst int
	Language       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080/api"
	c.RequestTimeout = 15 * time.Second
	c.SessionDBPath = "club.db"
	c.LogLevel = "info"
	c.RateLimitRPS = 10
	c.RateLimitBurst = 5
	c.Language = "en"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (.env included), a JSON file (if given) and command-line
// flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}

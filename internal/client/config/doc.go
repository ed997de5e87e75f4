// Package config loads runtime configuration for the club client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: CLUB_API_URL, CLUB_REQUEST_TIMEOUT, CLUB_SESSION_DB,
//     CLUB_LOG_LEVEL, CLUB_LANG, CLUB_RATE_LIMIT_RPS, CLUB_RATE_LIMIT_BURST.
//     A ./.env file is loaded first if present.
//  3. Optional JSON file selected with -c/-config or $CLUB_CONFIG.
//  4. Command-line flags, which override everything above.
//
// Supported flags
//
//	-a string   REST API base URL
//	-t int      request timeout (seconds)
//	-d string   session database path
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
//	{
//	  "api_base_url": "https://club.example.org/api",
//	  "request_timeout": "20s",
//	  "session_db_path": "club.db",
//	  "log_level": "debug",
//	  "rate_limit_rps": 5,
//	  "rate_limit_burst": 2,
//	  "language": "fr"
//	}
package config

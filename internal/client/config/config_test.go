package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func defaults() Config {
	return Config{
		APIBaseURL:     "http://127.0.0.1:8080/api",
		RequestTimeout: 15 * time.Second,
		SessionDBPath:  "club.db",
		LogLevel:       "info",
		RateLimitRPS:   10,
		RateLimitBurst: 5,
		Language:       "en",
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		EnvAPIURL, EnvRequestTimeout, EnvSessionDB, EnvLogLevel,
		EnvLanguage, EnvRateLimitRPS, EnvRateLimitBurst, "CLUB_CONFIG",
	} {
		t.Setenv(k, "")
	}
	// keep a stray ./.env in the package dir from leaking in
	t.Chdir(t.TempDir())
}

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"club"}, args...)
}

func TestLoadConfig_Precedence(t *testing.T) {
	file := filepath.Join(t.TempDir(), "club.json")
	require.NoError(t, os.WriteFile(file,
		[]byte(`{"api_base_url":"https://file.example.org/api","log_level":"warn","language":"lv"}`), 0o600))

	tests := []struct {
		name string
		env  map[string]string
		args []string
		want func(*Config)
	}{
		{name: "defaults only", want: func(*Config) {}},
		{
			name: "env over defaults",
			env:  map[string]string{EnvAPIURL: "https://env.example.org/api", EnvLanguage: "ru"},
			want: func(c *Config) {
				c.APIBaseURL = "https://env.example.org/api"
				c.Language = "ru"
			},
		},
		{
			name: "file over env",
			env:  map[string]string{EnvAPIURL: "https://env.example.org/api", EnvLogLevel: "debug"},
			args: []string{"-c", file},
			want: func(c *Config) {
				c.APIBaseURL = "https://file.example.org/api"
				c.LogLevel = "warn"
				c.Language = "lv"
			},
		},
		{
			name: "flags over file",
			args: []string{"-c", file, "-a", "http://flag:1/api", "-t", "3"},
			want: func(c *Config) {
				c.APIBaseURL = "http://flag:1/api"
				c.RequestTimeout = 3 * time.Second
				c.LogLevel = "warn"
				c.Language = "lv"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			withArgs(t, tt.args...)

			want := defaults()
			tt.want(&want)

			got := LoadConfig()
			require.NotNil(t, got)
			if diff := cmp.Diff(want, *got); diff != "" {
				t.Fatalf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

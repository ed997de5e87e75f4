package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		start       time.Duration
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://10.0.0.1:9090/api", "-t", "30", "-d", "s.db", "-l", "debug", "-c", "ignored.json"},
			expected: &Config{
				APIBaseURL:     "http://10.0.0.1:9090/api",
				RequestTimeout: 30 * time.Second,
				SessionDBPath:  "s.db",
				LogLevel:       "debug",
			},
		},
		{
			name:     "no flags keeps timeout",
			args:     nil,
			expected: &Config{RequestTimeout: 5 * time.Second},
		},
		{
			name:     "sub-second timeout kept without -t",
			args:     []string{"-l", "warn"},
			start:    1500 * time.Millisecond,
			expected: &Config{RequestTimeout: 1500 * time.Millisecond, LogLevel: "warn"},
		},
		{
			name:     "explicit -t replaces sub-second timeout",
			args:     []string{"-t", "2"},
			start:    500 * time.Millisecond,
			expected: &Config{RequestTimeout: 2 * time.Second},
		},
		{name: "incorrect timeout", args: []string{"-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := tt.start
			if start == 0 {
				start = 5 * time.Second
			}
			cfg := &Config{RequestTimeout: start}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

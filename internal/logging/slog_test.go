package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(buf *bytes.Buffer) []string {
	out := strings.TrimRight(buf.String(), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func TestNew_LevelThreshold(t *testing.T) {
	emit := func(l Logger) {
		ctx := context.Background()
		l.Debug(ctx, "gateway call", "path", "/departments")
		l.Info(ctx, "logged in", "user_id", 7)
		l.Warn(ctx, "remote logout failed")
		l.Error(ctx, "failed to clear persisted session")
	}

	tests := []struct {
		level string
		want  []string
	}{
		{"debug", []string{"level=DEBUG", "level=INFO", "level=WARN", "level=ERROR"}},
		{"info", []string{"level=INFO", "level=WARN", "level=ERROR"}},
		{"", []string{"level=INFO", "level=WARN", "level=ERROR"}},
		{"Warning", []string{"level=WARN", "level=ERROR"}},
		{"error", []string{"level=ERROR"}},
	}

	for _, tt := range tests {
		t.Run("level="+tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			emit(New(&buf, tt.level))

			got := lines(&buf)
			require.Len(t, got, len(tt.want))
			for i, w := range tt.want {
				assert.Contains(t, got[i], w)
			}
		})
	}
}

func TestNew_WritesAttributes(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "debug").Debug(context.Background(), "gateway call", "path", "/departments", "status", 200)

	got := lines(&buf)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], `msg="gateway call"`)
	assert.Contains(t, got[0], "path=/departments")
	assert.Contains(t, got[0], "status=200")
}

func TestWith_ChildCarriesAttributesParentDoesNot(t *testing.T) {
	var buf bytes.Buffer
	parent := New(&buf, "info")
	child := parent.With("component", "browse")

	child.Info(context.Background(), "discarding stale result")
	parent.Info(context.Background(), "session restored")

	got := lines(&buf)
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "component=browse")
	assert.NotContains(t, got[1], "component=browse")
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"DEBUG":     slog.LevelDebug,
		"info":      slog.LevelInfo,
		" warning ": slog.LevelWarn,
		"warn":      slog.LevelWarn,
		"error":     slog.LevelError,
		"verbose":   slog.LevelInfo,
	} {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNop_Silent(t *testing.T) {
	var l Logger = Nop()
	assert.NotPanics(t, func() {
		l.With("user_id", 1).Error(context.TODO(), "dropped")
	})
}

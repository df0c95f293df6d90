package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/harcheck/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestSetup_FallbackWriter(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	cleanup, err := Setup(Config{Level: "info", Fallback: &buf})
	require.NoError(t, err)
	defer cleanup()

	slog.Info("hello", "k", "v")
	slog.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "k=v")
	assert.Contains(t, out, "run_id=")
	assert.NotContains(t, out, "hidden")
}

func TestSetup_File(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "nested", "harcheck.log")
	cleanup, err := Setup(Config{Level: "debug", FilePath: path, MaxSizeMB: 1})
	require.NoError(t, err)

	slog.Debug("to file")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{LogLevel: "error", LogFile: "/tmp/x.log", LogMaxSizeMB: 3, LogMaxBackups: 2, LogMaxAgeDays: 1, LogCompress: true}
	got := FromConfig(cfg)
	assert.Equal(t, "error", got.Level)
	assert.Equal(t, "/tmp/x.log", got.FilePath)
	assert.Equal(t, 3, got.MaxSizeMB)
	assert.True(t, got.Compress)
}

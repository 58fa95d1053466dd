package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/MirrorChyan/fetch-paper/internal/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestGetLevel(t *testing.T) {
	testCases := []struct {
		Name     string
		Level    string
		Expected zapcore.Level
	}{
		{Name: "debug", Level: "debug", Expected: zap.DebugLevel},
		{Name: "warn", Level: "warn", Expected: zap.WarnLevel},
		{Name: "empty", Level: "", Expected: zap.InfoLevel},
		{Name: "unknown", Level: "verbose", Expected: zap.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			require.Equal(t, tc.Expected, getLevel(tc.Level))
		})
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	conf := &config.Config{Log: config.LogConfig{Level: "warn"}}

	l := newWithConsole(conf, &buf)
	l.Info("hidden")
	l.Warn("shown", zap.String("project", "paper"))
	_ = l.Sync()

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
	require.Contains(t, buf.String(), "paper")
}

func TestNewWritesFile(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "fetch.jsonl")
	conf := &config.Config{Log: config.LogConfig{Level: "info", File: file, MaxSize: 1}}

	l := newWithConsole(conf, &buf)
	l.Info("download done", zap.Int64("size", 42))
	_ = l.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"download done"`)
	require.Contains(t, string(data), `"size":42`)
}

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel(" DEBUG "))
	require.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestConfigure_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "debug", JSON: true, Output: &buf})
	t.Cleanup(func() { Configure(Options{}) })

	L().Debug("runtime ready", "backend", "goja")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "runtime ready", rec["msg"])
	require.Equal(t, "goja", rec["backend"])
}

func TestConfigure_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "warn", Output: &buf})
	t.Cleanup(func() { Configure(Options{}) })

	L().Info("dropped")
	require.Zero(t, buf.Len())
	L().Warn("kept")
	require.Contains(t, buf.String(), "kept")
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "error", Output: &buf})
	t.Cleanup(func() { Configure(Options{}) })

	L().Info("before")
	SetLevel("info")
	L().Info("after")
	require.NotContains(t, buf.String(), "before")
	require.Contains(t, buf.String(), "after")
}

func TestInitFromEnv(t *testing.T) {
	t.Setenv("CHARTBRIDGE_LOG__LEVEL", "debug")
	t.Setenv("CHARTBRIDGE_LOG__JSON", "true")
	InitFromEnv()
	t.Cleanup(func() { Configure(Options{}) })

	require.True(t, L().Enabled(context.Background(), slog.LevelDebug))
}

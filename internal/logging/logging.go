// Package logging holds the process-wide structured logger. Packages log
// through L(); the CLI calls Configure once the config is loaded.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
)

type Options struct {
	Level string // slog level name: debug, info, warn, error, or offsets like "info+2"
	JSON  bool
	// Output defaults to stderr.
	Output io.Writer
}

var (
	level   = new(slog.LevelVar)
	current atomic.Pointer[slog.Logger]
)

func init() { current.Store(build(Options{})) }

func build(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	ho := &slog.HandlerOptions{Level: level}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(out, ho))
	}
	return slog.New(slog.NewTextHandler(out, ho))
}

// Configure swaps the process logger and installs it as slog's default.
func Configure(opts Options) {
	level.Set(ParseLevel(opts.Level))
	l := build(opts)
	current.Store(l)
	slog.SetDefault(l)
}

// SetLevel changes the level of the current logger in place.
func SetLevel(s string) { level.Set(ParseLevel(s)) }

// ParseLevel accepts slog level names in any case; unknown or empty
// input means info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}

func L() *slog.Logger { return current.Load() }

// InitFromEnv configures logging from CHARTBRIDGE_LOG__LEVEL and
// CHARTBRIDGE_LOG__JSON, for binaries that do not load the full config.
func InitFromEnv() {
	json, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv("CHARTBRIDGE_LOG__JSON")))
	Configure(Options{Level: os.Getenv("CHARTBRIDGE_LOG__LEVEL"), JSON: json})
}

package gojavm

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dop251/goja"

	"chartbridge/internal/logging"
)

// newConsole routes console.* calls from bundled programs to the logger.
func newConsole(m *VM) *goja.Object {
	write := func(level slog.Level) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, a := range call.Arguments {
				parts[i] = a.String()
			}
			logging.L().Log(context.Background(), level, strings.Join(parts, " "), "program", m.program)
			return goja.Undefined()
		}
	}
	levels := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"log":   slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	obj := m.rt.NewObject()
	for name, lvl := range levels {
		_ = obj.Set(name, write(lvl))
	}
	return obj
}

package engine

import (
	"context"

	"chartbridge/convert"
	"chartbridge/internal/config"
	"chartbridge/internal/telemetry"
	"chartbridge/internal/transform"
	"chartbridge/jsrt"
)

// ReadyFunc loads (or checks) the runtime behind a converter. It is cheap
// once it has succeeded.
type ReadyFunc func(context.Context) error

// NewConverter builds the converter selected by cfg.Runtime. Nothing is
// loaded or dialed yet; the first conversion or ReadyFunc call does that.
func NewConverter(cfg config.Config) (*convert.Converter, ReadyFunc, error) {
	opts := []convert.Option{
		convert.WithObserver(telemetry.ObserveConversion),
		convert.WithTimeout(cfg.Runtime.CallTimeout),
	}

	switch cfg.Runtime.Backend {
	case config.BackendGRPC:
		cli, err := transform.NewGRPCClient(cfg.Runtime.Address)
		if err != nil {
			return nil, nil, err
		}
		return convert.New(cli, opts...), cli.Health, nil
	default:
		h := jsrt.New(
			jsrt.WithRoot(cfg.Runtime.Root),
			jsrt.WithBackend(cfg.Runtime.Backend),
			jsrt.WithLoadHook(telemetry.ObserveLoad),
		)
		return convert.New(convert.NewScriptEngine(h), opts...), h.Initialize, nil
	}
}

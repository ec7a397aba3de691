package engine

import (
	"context"
	"errors"
	"net/http"
	"time"

	"chartbridge/convert"
	"chartbridge/internal/logging"
	"chartbridge/internal/transport"
)

type Engine struct {
	conv      *convert.Converter
	ready     ReadyFunc
	transport *transport.Server
	api       *http.Server
	metrics   *http.Server
}

// Run serves until ctx is done. The runtime is warmed up in the background;
// gRPC health turns SERVING once it is ready.
func (e *Engine) Run(ctx context.Context) error {
	go e.warmUp(ctx)

	go func() {
		if err := e.api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.L().Error("engine: http api stopped", "err", err)
		}
	}()

	go func() {
		<-ctx.Done()
		e.shutdown()
	}()

	return e.transport.Serve()
}

func (e *Engine) warmUp(ctx context.Context) {
	if err := e.ready(ctx); err != nil {
		logging.L().Error("engine: runtime not ready", "err", err)
		return
	}
	e.transport.SetServing(true)
}

func (e *Engine) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	e.transport.Stop()
	_ = e.api.Shutdown(ctx)
	_ = e.metrics.Shutdown(ctx)
	if err := e.conv.Close(); err != nil {
		logging.L().Warn("engine: close converter", "err", err)
	}
}

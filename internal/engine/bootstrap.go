package engine

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"chartbridge/internal/config"
	"chartbridge/internal/httpapi"
	"chartbridge/internal/logging"
	"chartbridge/internal/telemetry"
	"chartbridge/internal/transport"
)

// Bootstrap starts listening on every configured port. Serving begins with
// Run.
func Bootstrap(ctx context.Context, cfg config.Config) (*Engine, error) {
	conv, ready, err := NewConverter(cfg)
	if err != nil {
		return nil, fmt.Errorf("converter: %w", err)
	}

	// 1. transport server
	srv, err := transport.StartServer(cfg.Server.GRPCPort, conv)
	if err != nil {
		_ = conv.Close()
		return nil, fmt.Errorf("transport: %w", err)
	}

	// 2. http api
	gin.SetMode(cfg.Server.Mode)
	api := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           httpapi.NewRouter(httpapi.NewHandler(conv, ready)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 3. metrics
	metrics := telemetry.Expose(cfg.Server.MetricsPort)

	logging.L().Info("engine: listening",
		"grpc", cfg.Server.GRPCPort,
		"http", cfg.Server.HTTPPort,
		"metrics", cfg.Server.MetricsPort,
		"backend", cfg.Runtime.Backend,
	)
	return &Engine{
		conv:      conv,
		ready:     ready,
		transport: srv,
		api:       api,
		metrics:   metrics,
	}, nil
}

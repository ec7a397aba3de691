package telemetry

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chartbridge/internal/logging"
	"chartbridge/jsrt"
)

var (
	Conversions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chartbridge",
		Name:      "conversions_total",
		Help:      "Conversions by operation and outcome (ok or error kind).",
	}, []string{"op", "outcome"})

	ConversionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chartbridge",
		Name:      "conversion_duration_seconds",
		Help:      "Wall time of a conversion, including first-use runtime initialization.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
	}, []string{"op"})

	RuntimeLoads = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "chartbridge",
		Name:      "runtime_loads_total",
		Help:      "Transformation programs loaded into a JS runtime.",
	})

	WorkerFrames = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chartbridge",
		Name:      "worker_frames_total",
		Help:      "Worker request frames by outcome.",
	}, []string{"outcome"})
)

// ObserveConversion is a convert.Observer.
func ObserveConversion(op string, elapsed time.Duration, err error) {
	Conversions.WithLabelValues(op, jsrt.Kind(err)).Inc()
	ConversionDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveLoad is a jsrt load hook.
func ObserveLoad(jsrt.Program) { RuntimeLoads.Inc() }

// Expose serves /metrics on port in the background.
func Expose(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.L().Error("telemetry: metrics server stopped", "err", err)
		}
	}()
	return srv
}

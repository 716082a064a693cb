package telemetry

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"valpipe/internal/logging"
	"valpipe/internal/value"
)

var (
	// ValuesProcessed counts values a command transformed, by command.
	ValuesProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "valpipe",
		Name:      "values_processed_total",
		Help:      "Values transformed by a command.",
	}, []string{"command"})

	// ErrorValues counts error values a command produced, by command and kind.
	ErrorValues = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "valpipe",
		Name:      "error_values_total",
		Help:      "Error values produced by a command.",
	}, []string{"command", "kind"})

	StreamsCancelled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "valpipe",
		Name:      "streams_cancelled_total",
		Help:      "Streams that stopped early on cancellation.",
	})
)

func init() {
	prometheus.MustRegister(ValuesProcessed, ErrorValues, StreamsCancelled)
}

// Observe wraps fn so every call is counted under command.
func Observe(command string, fn func(value.Value) value.Value) func(value.Value) value.Value {
	processed := ValuesProcessed.WithLabelValues(command)
	return func(v value.Value) value.Value {
		out := fn(v)
		processed.Inc()
		if e, ok := out.(value.Error); ok && e.Err != nil {
			ErrorValues.WithLabelValues(command, string(e.Err.Kind)).Inc()
		}
		return out
	}
}

// Expose serves /metrics on addr in the background. An empty addr is a
// no-op.
func Expose(addr string) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.L().Error("metrics server stopped", "addr", addr, "err", err)
		}
	}()
	return srv
}

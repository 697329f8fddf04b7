package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/capwire-dev/capwire/capability"
)

// Metrics holds the Prometheus metrics for the dispatcher.
type Metrics struct {
	Dispatches *prometheus.CounterVec
	Failures   *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewMetrics creates and registers dispatch metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "capwire_dispatches_total",
			Help: "Total number of dispatched invocations",
		}, []string{"tag"}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "capwire_dispatch_failures_total",
			Help: "Total number of failed dispatches by failure kind",
		}, []string{"tag", "kind"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "capwire_dispatch_duration_seconds",
			Help:    "Dispatch latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"tag"}),
	}
}

// MetricsMiddleware returns a middleware recording per-tag dispatch counts,
// failure kinds, and latency.
func MetricsMiddleware(m *Metrics) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, tag capability.Tag, input any) (any, error) {
			start := time.Now()
			out, err := next(ctx, tag, input)

			label := tag.String()
			m.Dispatches.WithLabelValues(label).Inc()
			m.Duration.WithLabelValues(label).Observe(time.Since(start).Seconds())
			if err != nil {
				m.Failures.WithLabelValues(label, failureKind(err)).Inc()
			}
			return out, err
		}
	}
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, capability.ErrUnknownCapability):
		return "unknown_capability"
	case errors.Is(err, capability.ErrProviderFailure):
		return "provider_failure"
	default:
		return "other"
	}
}

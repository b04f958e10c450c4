package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// Collector receives connection lifecycle events. It is called inline on the
// connect path and must not block.
type Collector interface {
	ObserveConnect(direction string, duration time.Duration, err error)
}

type noopCollector struct{}

// Noop returns a collector that discards all metrics.
func Noop() Collector {
	return noopCollector{}
}

func (noopCollector) ObserveConnect(string, time.Duration, error) {}

// PrometheusCollector exposes connect attempts and durations via Prometheus.
type PrometheusCollector struct {
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPrometheusCollector registers the metrics with reg, reusing collectors
// that are already registered under the same name.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "redis_connector_connect_attempts_total",
		Help: "Number of physical connect attempts per direction and result.",
	}, []string{"direction", "result"})
	if err := reg.Register(attempts); err != nil {
		already, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		attempts = existing
	}

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "redis_connector_connect_duration_seconds",
		Help:    "Time spent establishing a connection per direction.",
		Buckets: prometheus.DefBuckets,
	}, []string{"direction"})
	if err := reg.Register(duration); err != nil {
		already, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		existing, ok := already.ExistingCollector.(*prometheus.HistogramVec)
		if !ok {
			return nil, err
		}
		duration = existing
	}

	return &PrometheusCollector{
		attempts: attempts,
		duration: duration,
	}, nil
}

func (c *PrometheusCollector) ObserveConnect(direction string, duration time.Duration, err error) {
	result := resultSuccess
	if err != nil {
		result = resultFailure
	}

	c.attempts.WithLabelValues(direction, result).Inc()
	c.duration.WithLabelValues(direction).Observe(duration.Seconds())
}

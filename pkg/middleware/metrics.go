package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsConfig configures the Prometheus middleware.
type MetricsConfig struct {
	// Namespace for all metrics (default: "catalyst").
	Namespace string

	// Subsystem for all metrics (default: "http").
	Subsystem string

	// ConstLabels are added to every metric.
	ConstLabels prometheus.Labels

	// Buckets for the duration histogram.
	Buckets []float64

	// Registry to register metrics with (default: prometheus.DefaultRegisterer).
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets for request duration.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets a custom Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "catalyst",
		Subsystem: "http",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Prometheus creates middleware that records request counts, durations,
// response sizes, and in-flight requests.
func Prometheus(opts ...MetricsOption) func(http.Handler) http.Handler {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   config.Namespace,
		Subsystem:   config.Subsystem,
		Name:        "requests_total",
		Help:        "HTTP requests by method and status code.",
		ConstLabels: config.ConstLabels,
	}, []string{"method", "code"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   config.Namespace,
		Subsystem:   config.Subsystem,
		Name:        "request_duration_seconds",
		Help:        "HTTP request duration.",
		ConstLabels: config.ConstLabels,
		Buckets:     config.Buckets,
	}, []string{"method"})

	responseSize := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   config.Namespace,
		Subsystem:   config.Subsystem,
		Name:        "response_size_bytes",
		Help:        "HTTP response size.",
		ConstLabels: config.ConstLabels,
		Buckets:     prometheus.ExponentialBuckets(256, 4, 8),
	}, []string{"method"})

	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   config.Namespace,
		Subsystem:   config.Subsystem,
		Name:        "in_flight_requests",
		Help:        "Requests currently being served.",
		ConstLabels: config.ConstLabels,
	})

	config.Registry.MustRegister(requests, duration, responseSize, inFlight)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			inFlight.Inc()
			defer inFlight.Dec()

			sw := wrap(w)
			next.ServeHTTP(sw, r)

			requests.WithLabelValues(r.Method, strconv.Itoa(sw.status)).Inc()
			duration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
			responseSize.WithLabelValues(r.Method).Observe(float64(sw.written))
		})
	}
}

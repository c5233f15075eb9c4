// Package metrics exports toast lifecycle metrics to Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jmylchreest/swipetoast/internal/config"
	"github.com/jmylchreest/swipetoast/internal/gesture"
	"github.com/jmylchreest/swipetoast/internal/toast"
)

// Config configures the collector.
type Config struct {
	// Namespace is the metrics namespace (default: "swipetoast").
	Namespace string

	// Buckets are the histogram buckets for toast lifetime in seconds.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// WithBuckets sets the lifetime histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "swipetoast",
		Buckets:   []float64{0.5, 1, 2, 4, 8, 15, 30, 60},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector records toast lifecycle events. It implements toast.Observer.
type Collector struct {
	opened   *prometheus.CounterVec
	closed   *prometheus.CounterVec
	active   prometheus.Gauge
	swipes   *prometheus.CounterVec
	lifetime prometheus.Histogram
}

// New registers the collector's metrics.
func New(opts ...Option) *Collector {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	c := &Collector{
		opened: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "toasts_opened_total",
			Help:      "Total number of toasts opened",
		}, []string{"position"}),

		closed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "toasts_closed_total",
			Help:      "Total number of toasts closed",
		}, []string{"position", "reason"}),

		active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "toasts_active",
			Help:      "Number of toasts currently shown",
		}),

		swipes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "swipes_total",
			Help:      "Total number of released swipe gestures",
		}, []string{"direction", "outcome"}),

		lifetime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "toast_lifetime_seconds",
			Help:      "Time toasts were shown before closing",
			Buckets:   cfg.Buckets,
		}),
	}

	// Every position and reason is exported from the start, so rate queries
	// see zero rather than a missing series.
	for _, pos := range config.ValidPositions() {
		c.opened.WithLabelValues(string(pos))
		for _, reason := range toast.Reasons() {
			c.closed.WithLabelValues(string(pos), reason.String())
		}
	}
	return c
}

// ToastOpened implements toast.Observer.
func (c *Collector) ToastOpened(t *toast.Toast) {
	c.opened.WithLabelValues(string(t.Options().Position)).Inc()
	c.active.Inc()
}

// ToastClosed implements toast.Observer.
func (c *Collector) ToastClosed(t *toast.Toast) {
	c.closed.WithLabelValues(string(t.Options().Position), t.Reason().String()).Inc()
	c.active.Dec()
	c.lifetime.Observe(t.Lifetime().Seconds())
}

// SwipeReleased implements toast.Observer.
func (c *Collector) SwipeReleased(_ *toast.Toast, out gesture.Outcome) {
	outcome := "cancelled"
	if out.Commit {
		outcome = "committed"
	}
	c.swipes.WithLabelValues(out.Direction.String(), outcome).Inc()
}

// Serve exposes gatherer on addr at /metrics until ctx is cancelled.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}

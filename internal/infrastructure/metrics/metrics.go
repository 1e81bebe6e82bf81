package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agri_market",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "agri_market",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	// CartMutations counts successful cart writes by operation.
	CartMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agri_market",
			Subsystem: "cart",
			Name:      "mutations_total",
			Help:      "Total number of committed cart mutations.",
		},
		[]string{"op"},
	)

	// Checkouts counts checkout attempts by result.
	Checkouts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agri_market",
			Subsystem: "checkout",
			Name:      "attempts_total",
			Help:      "Total number of checkout attempts.",
		},
		[]string{"result"},
	)

	// LiveSubscribers tracks open cart subscriptions.
	LiveSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "agri_market",
			Subsystem: "cart",
			Name:      "live_subscribers",
			Help:      "Current number of live cart subscriptions.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		CartMutations,
		Checkouts,
		LiveSubscribers,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency for the fiber app.
// The route template is used as the path label to keep cardinality bounded.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		httpRequests.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

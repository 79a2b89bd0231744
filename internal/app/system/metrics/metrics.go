// Package metrics exposes HTTP and collection metrics in Prometheus format.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	metricsstore "github.com/dalemusser/ecotrack/internal/app/store/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ecotrack"

// CountsFunc loads collection totals at scrape time.
type CountsFunc func(ctx context.Context) metricsstore.Counts

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New builds the registry. counts may be nil, in which case no collection
// gauges are exported.
func New(counts CountsFunc, scrapeTimeout time.Duration) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if counts != nil {
		m.registry.MustRegister(newCountsCollector(counts, scrapeTimeout))
	}
	return m
}

// Handler serves the exposition format for GET /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records one request count and latency sample per request,
// labelled by chi route pattern so path parameters do not explode
// cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type countsCollector struct {
	fetch   CountsFunc
	timeout time.Duration
	users   *prometheus.Desc
	all     *prometheus.Desc
	tips    *prometheus.Desc
}

func newCountsCollector(fetch CountsFunc, timeout time.Duration) *countsCollector {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &countsCollector{
		fetch:   fetch,
		timeout: timeout,
		users: prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "users"),
			"Registered users by user type.", []string{"user_type"}, nil),
		all: prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "registered_users"),
			"Registered users across all user types.", nil, nil),
		tips: prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "eco_tips"),
			"Eco tips on the practices board.", nil, nil),
	}
}

func (c *countsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.users
	ch <- c.all
	ch <- c.tips
}

func (c *countsCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	counts := c.fetch(ctx)
	ch <- prometheus.MustNewConstMetric(c.users, prometheus.GaugeValue, float64(counts.Individuals), "individual")
	ch <- prometheus.MustNewConstMetric(c.users, prometheus.GaugeValue, float64(counts.Families), "family")
	ch <- prometheus.MustNewConstMetric(c.users, prometheus.GaugeValue, float64(counts.Businesses), "business")
	ch <- prometheus.MustNewConstMetric(c.all, prometheus.GaugeValue, float64(counts.Users()))
	ch <- prometheus.MustNewConstMetric(c.tips, prometheus.GaugeValue, float64(counts.EcoTips))
}

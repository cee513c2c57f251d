// Package metrics holds the Prometheus collectors shared by storefront
// services.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns one Prometheus registry and the storefront collectors.
type Registry struct {
	reg *prometheus.Registry

	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	OrdersCreated *prometheus.CounterVec
	CacheEvents   *prometheus.CounterVec
	BreakerState  *prometheus.GaugeVec
}

// New builds a registry with process and Go runtime collectors registered.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_http_requests_total",
				Help: "Total HTTP requests by service, route, method and status.",
			},
			[]string{"service", "route", "method", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storefront_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"service", "route", "method"},
		),
		OrdersCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_orders_created_total",
				Help: "Orders accepted, split by guest checkout.",
			},
			[]string{"guest"},
		),
		CacheEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_cache_events_total",
				Help: "Catalog cache hits, misses, errors and invalidations.",
			},
			[]string{"namespace", "event"},
		),
		BreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "storefront_circuit_breaker_state",
				Help: "Circuit breaker state (0 closed, 1 half-open, 2 open).",
			},
			[]string{"name"},
		),
	}
	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.HTTPRequests,
		r.HTTPDuration,
		r.OrdersCreated,
		r.CacheEvents,
		r.BreakerState,
	)
	return r
}

// Gatherer exposes the underlying registry for tests and exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// ObserveRequest records one finished HTTP request.
func (r *Registry) ObserveRequest(service, route, method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.HTTPRequests.WithLabelValues(service, route, method, strconv.Itoa(status)).Inc()
	r.HTTPDuration.WithLabelValues(service, route, method).Observe(elapsed.Seconds())
}

// OrderCreated counts an accepted order.
func (r *Registry) OrderCreated(guest bool) {
	if r == nil {
		return
	}
	r.OrdersCreated.WithLabelValues(strconv.FormatBool(guest)).Inc()
}

// CacheEvent counts a cache hit, miss, error or invalidation.
func (r *Registry) CacheEvent(namespace, event string) {
	if r == nil {
		return
	}
	r.CacheEvents.WithLabelValues(namespace, event).Inc()
}

// SetBreakerState records the numeric state of a named circuit breaker.
func (r *Registry) SetBreakerState(name string, state int) {
	if r == nil {
		return
	}
	r.BreakerState.WithLabelValues(name).Set(float64(state))
}

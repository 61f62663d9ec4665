package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	OrdersPlaced     *prometheus.CounterVec
	PaymentsVerified *prometheus.CounterVec
	GatewayErrors    prometheus.Counter
	Compensations    *prometheus.CounterVec
	LatencyMS        *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New builds the service metrics on a private registry so several instances
// can coexist in tests.
func New() *Metrics {
	m := &Metrics{
		OrdersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foodfactory",
			Name:      "orders_placed_total",
			Help:      "Orders persisted, by payment method.",
		}, []string{"method"}),
		PaymentsVerified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foodfactory",
			Name:      "payments_verified_total",
			Help:      "Payment verifications, by result.",
		}, []string{"result"}),
		GatewayErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "foodfactory",
			Name:      "gateway_errors_total",
			Help:      "Failed checkout session creations.",
		}),
		Compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foodfactory",
			Name:      "compensations_total",
			Help:      "Compensating actions run after a failed placement step.",
		}, []string{"action", "result"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "foodfactory",
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"route", "status"}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(
		m.OrdersPlaced, m.PaymentsVerified, m.GatewayErrors, m.Compensations, m.LatencyMS,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

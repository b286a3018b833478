package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	ordersCreated        *prometheus.CounterVec
	statusTransitions    *prometheus.CounterVec
	paymentVerifications *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		ordersCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "farm_market_orders_created_total",
			Help: "Orders created, labelled by payment method.",
		}, []string{"payment_method"}),
		statusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "farm_market_order_status_transitions_total",
			Help: "Order status transitions applied, labelled by target status.",
		}, []string{"status"}),
		paymentVerifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "farm_market_payment_verifications_total",
			Help: "Payment session verifications, labelled by result.",
		}, []string{"result"}),
	}
}

// All recording methods tolerate a nil receiver so callers do not need to
// guard the optional metrics wiring.

func (m *Metrics) OrderCreated(paymentMethod string) {
	if m == nil {
		return
	}
	m.ordersCreated.WithLabelValues(paymentMethod).Inc()
}

func (m *Metrics) StatusTransition(status string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) PaymentVerification(result string) {
	if m == nil {
		return
	}
	m.paymentVerifications.WithLabelValues(result).Inc()
}

// Handler exposes the registry on /metrics.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

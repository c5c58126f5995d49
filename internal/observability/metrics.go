// Package observability exposes application-level prometheus instruments.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

// Metrics counts the business events the service cares about.
type Metrics struct {
	Registry *prometheus.Registry

	OrdersCreated      prometheus.Counter
	InvoicesCreated    prometheus.Counter
	PaymentsRecorded   prometheus.Counter
	NumberingFallbacks prometheus.Counter
}

// New builds the metrics set on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		Registry: registry,
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gescom_orders_created_total",
			Help: "Orders created.",
		}),
		InvoicesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gescom_invoices_created_total",
			Help: "Invoices created from orders.",
		}),
		PaymentsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gescom_payments_recorded_total",
			Help: "Invoice payments recorded.",
		}),
		NumberingFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gescom_numbering_fallbacks_total",
			Help: "Document numbers assigned through the timestamp fallback.",
		}),
	}

	registry.MustRegister(
		m.OrdersCreated,
		m.InvoicesCreated,
		m.PaymentsRecorded,
		m.NumberingFallbacks,
	)

	return m
}

// Module provides the prometheus metrics set.
var Module = fx.Module("observability",
	fx.Provide(New),
)

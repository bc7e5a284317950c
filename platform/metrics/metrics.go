// Package metrics defines the Prometheus collectors exported by the service.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pricing holds counters for quote and purchase outcomes.
type Pricing struct {
	Quotes      *prometheus.CounterVec
	Purchases   *prometheus.CounterVec
	CacheLookup *prometheus.CounterVec
}

// NewPricing creates the pricing collectors and registers them with reg.
// Pass nil to get unregistered collectors, e.g. in tests.
func NewPricing(reg prometheus.Registerer) *Pricing {
	m := &Pricing{
		Quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "quotes_total",
			Help:      "Price calculations by outcome.",
		}, []string{"outcome"}),
		Purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "purchases_total",
			Help:      "Purchases by payment processor and outcome.",
		}, []string{"processor", "outcome"}),
		CacheLookup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "quote_cache_lookups_total",
			Help:      "Quote cache lookups by result.",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(m.Quotes, m.Purchases, m.CacheLookup)
	}
	return m
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

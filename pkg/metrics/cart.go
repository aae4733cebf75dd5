package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// CartMetrics counts cart item mutations by operation and outcome.
type CartMetrics struct {
	mutations *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on reg. A nil registerer yields a no-op recorder.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_item_mutations_total",
		Help: "Cart item mutations by operation and outcome.",
	}, []string{"operation", "outcome"})
	reg.MustRegister(mutations)
	return &CartMetrics{mutations: mutations}
}

// ObserveMutation records one mutation; err decides the outcome label.
func (c *CartMetrics) ObserveMutation(operation string, err error) {
	if c == nil || c.mutations == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	c.mutations.WithLabelValues(normalizeLabel(operation), outcome).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

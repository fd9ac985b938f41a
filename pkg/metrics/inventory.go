package metrics

import "github.com/prometheus/client_golang/prometheus"

// InventoryMetrics exposes marketplace-wide stock gauges refreshed by the digest job.
type InventoryMetrics struct {
	nearExpiry *prometheus.GaugeVec
	pharmacies prometheus.Gauge
}

func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	nearExpiry := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "offers_near_expiry",
		Help:      "Offers inside the near-expiry window, split by whether they already expired.",
	}, []string{"state"})
	pharmacies := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pharmacies_with_near_expiry",
		Help:      "Pharmacies holding at least one near-expiry offer.",
	})
	reg.MustRegister(nearExpiry, pharmacies)
	return &InventoryMetrics{nearExpiry: nearExpiry, pharmacies: pharmacies}
}

// SetNearExpiry publishes the latest sweep totals.
func (m *InventoryMetrics) SetNearExpiry(expiring, expired, pharmacies int) {
	if m == nil || m.nearExpiry == nil {
		return
	}
	m.nearExpiry.WithLabelValues("expiring").Set(float64(expiring))
	m.nearExpiry.WithLabelValues("expired").Set(float64(expired))
	m.pharmacies.Set(float64(pharmacies))
}

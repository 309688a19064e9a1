package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// MarketplaceMetrics tracks operation outcomes across the RPC surface.
type MarketplaceMetrics struct {
	operations   *prometheus.CounterVec
	failures     *prometheus.CounterVec
	escrowLocked prometheus.Gauge
}

var (
	marketplaceOnce     sync.Once
	marketplaceRegistry *MarketplaceMetrics
)

// Marketplace returns the process-wide marketplace metrics, registering them
// on first use.
func Marketplace() *MarketplaceMetrics {
	marketplaceOnce.Do(func() {
		marketplaceRegistry = &MarketplaceMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "marketplace_operations_total",
				Help: "Count of successful state-changing operations by method.",
			}, []string{"method"}),
			failures: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "marketplace_operation_failures_total",
				Help: "Count of rejected operations by method and failure kind.",
			}, []string{"method", "kind"}),
			escrowLocked: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "marketplace_escrow_locked",
				Help: "Value currently held by the bounty escrow vault.",
			}),
		}
		prometheus.MustRegister(
			marketplaceRegistry.operations,
			marketplaceRegistry.failures,
			marketplaceRegistry.escrowLocked,
		)
	})
	return marketplaceRegistry
}

// ObserveOperation records a successful operation.
func (m *MarketplaceMetrics) ObserveOperation(method string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(method).Inc()
}

// ObserveFailure records a rejected operation with its failure kind.
func (m *MarketplaceMetrics) ObserveFailure(method, kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	m.failures.WithLabelValues(method, kind).Inc()
}

// SetEscrowLocked publishes the vault balance.
func (m *MarketplaceMetrics) SetEscrowLocked(v float64) {
	if m == nil {
		return
	}
	m.escrowLocked.Set(v)
}

package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// ReturnsProcessedTotal counts processed rental returns by type and result.
	ReturnsProcessedTotal *prometheus.CounterVec
	// SettlementOutcomeTotal counts settlement outcomes (refund, owed, even).
	SettlementOutcomeTotal *prometheus.CounterVec
	// StockMovementsTotal counts recorded stock movements by category.
	StockMovementsTotal *prometheus.CounterVec
	// LateFeesAssessedTotal counts returns on which a late fee was charged.
	LateFeesAssessedTotal prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		ReturnsProcessedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "returns_processed_total",
			Help:      "Count of processed rental returns by type and result.",
		}, []string{"return_type", "result"})
		SettlementOutcomeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_outcome_total",
			Help:      "Count of settlement outcomes against the deposit.",
		}, []string{"outcome"})
		StockMovementsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_movements_total",
			Help:      "Count of recorded stock movements by category.",
		}, []string{"category"})
		LateFeesAssessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "late_fees_assessed_total",
			Help:      "Number of settlements that included a late fee.",
		})

		mustRegisterCollector(reg, ReturnsProcessedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ReturnsProcessedTotal = v
			}
		})
		mustRegisterCollector(reg, SettlementOutcomeTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				SettlementOutcomeTotal = v
			}
		})
		mustRegisterCollector(reg, StockMovementsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				StockMovementsTotal = v
			}
		})
		mustRegisterCollector(reg, LateFeesAssessedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				LateFeesAssessedTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}

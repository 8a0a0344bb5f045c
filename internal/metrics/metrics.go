package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	BatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "msnd_batches_total",
			Help: "Batch send outcomes by result",
		},
		[]string{"result"}, // accepted|rejected
	)

	FeesCollectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "msnd_fees_collected_total",
			Help: "Native base units swept to the fee receiver",
		},
	)

	VipPurchasesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "msnd_vip_purchases_total",
			Help: "Successful VIP package purchases",
		},
	)

	AuditEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "msnd_audit_events_total",
			Help: "Audit events ingested into ClickHouse by kind",
		},
		[]string{"kind"},
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		BatchesTotal,
		FeesCollectedTotal,
		VipPurchasesTotal,
		AuditEventsTotal,
	)
}

package shopping_cart

import "github.com/prometheus/client_golang/prometheus"

var (
	cartRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_rejections_total",
			Help: "Total number of rejected cart items and operations by reason",
		},
		[]string{"reason"},
	)

	cartPersistTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_snapshot_writes_total",
			Help: "Total number of cart snapshot writes by kind (save, forget)",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(
		cartRejectionsTotal,
		cartPersistTotal,
	)
}

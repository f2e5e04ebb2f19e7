package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the admin registry.
type Metrics struct {
	AdminsAdded   prometheus.Counter
	AdminsRemoved prometheus.Counter
	ActiveAdmins  prometheus.Gauge
}

// New creates and registers all admin registry metrics.
func New() *Metrics {
	return &Metrics{
		AdminsAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "formledger_admins_added_total",
			Help: "Total number of admins added to the registry",
		}),
		AdminsRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "formledger_admins_removed_total",
			Help: "Total number of admins removed from the registry",
		}),
		ActiveAdmins: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "formledger_active_admins",
			Help: "Current number of admins in the registry",
		}),
	}
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the approval registry.
type Metrics struct {
	FormsApproved   prometheus.Counter
	MetadataUpdates prometheus.Counter
	Verifications   *prometheus.CounterVec
}

// New creates and registers all approval registry metrics.
func New() *Metrics {
	return &Metrics{
		FormsApproved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "formledger_forms_approved_total",
			Help: "Total number of form approval records created",
		}),
		MetadataUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "formledger_approval_metadata_updates_total",
			Help: "Total number of approval metadata updates",
		}),
		Verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "formledger_verifications_total",
			Help: "Total number of verification reads by result",
		}, []string{"result"}),
	}
}

// RecordVerification counts one verification read.
func (m *Metrics) RecordVerification(valid bool) {
	result := "mismatch"
	if valid {
		result = "match"
	}
	m.Verifications.WithLabelValues(result).Inc()
}

// Package metrics holds Prometheus metrics for the registration domain.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts registration lifecycle events. A nil *Metrics is valid and
// records nothing, so tests don't fight the global registry.
type Metrics struct {
	RegistrationsCreated prometheus.Counter
	StatusUpdates        *prometheus.CounterVec
	EmailOutcomes        *prometheus.CounterVec
}

// New creates and registers the registration metrics.
func New() *Metrics {
	return &Metrics{
		RegistrationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fundrace_registrations_created_total",
			Help: "Total registrations submitted.",
		}),
		StatusUpdates: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fundrace_registration_status_updates_total",
			Help: "Total status transitions by target status.",
		}, []string{"status"}),
		EmailOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fundrace_registration_email_outcomes_total",
			Help: "Confirmation email outcomes by disposition.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncCreated() {
	if m == nil {
		return
	}
	m.RegistrationsCreated.Inc()
}

func (m *Metrics) IncStatusUpdate(status string) {
	if m == nil {
		return
	}
	m.StatusUpdates.WithLabelValues(status).Inc()
}

func (m *Metrics) IncEmailOutcome(outcome string) {
	if m == nil {
		return
	}
	m.EmailOutcomes.WithLabelValues(outcome).Inc()
}

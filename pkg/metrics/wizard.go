package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WizardMetrics records order-wizard activity.
type WizardMetrics struct {
	submitDuration *prometheus.HistogramVec
	submissions    *prometheus.CounterVec
	catalogFailure *prometheus.CounterVec
	resumes        *prometheus.CounterVec
	transitions    *prometheus.CounterVec
}

// NewWizardMetrics registers the wizard metrics on the provided registerer.
func NewWizardMetrics(reg prometheus.Registerer) *WizardMetrics {
	if reg == nil {
		return &WizardMetrics{}
	}
	submitDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wizard_order_submit_duration_seconds",
		Help:    "Duration of order submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_orders_submitted_total",
		Help: "Order submissions by outcome.",
	}, []string{"result"})
	catalogFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_catalog_load_failures_total",
		Help: "Failed catalog list fetches.",
	}, []string{"list"})
	resumes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_resume_decisions_total",
		Help: "Answers to the saved-cart resume prompt.",
	}, []string{"decision"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_transitions_total",
		Help: "Wizard state transitions.",
	}, []string{"from", "to"})
	reg.MustRegister(submitDuration, submissions, catalogFailure, resumes, transitions)
	return &WizardMetrics{
		submitDuration: submitDuration,
		submissions:    submissions,
		catalogFailure: catalogFailure,
		resumes:        resumes,
		transitions:    transitions,
	}
}

// ObserveSubmission records an order submission attempt.
func (m *WizardMetrics) ObserveSubmission(success bool, duration time.Duration) {
	if m == nil || m.submissions == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.submissions.WithLabelValues(result).Inc()
	m.submitDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// IncCatalogLoadFailure counts a failed fetch of the named catalog list.
func (m *WizardMetrics) IncCatalogLoadFailure(list string) {
	if m == nil || m.catalogFailure == nil {
		return
	}
	m.catalogFailure.WithLabelValues(normalizeLabel(list)).Inc()
}

// IncResumeDecision counts an answer to the resume prompt.
func (m *WizardMetrics) IncResumeDecision(confirmed bool) {
	if m == nil || m.resumes == nil {
		return
	}
	decision := "declined"
	if confirmed {
		decision = "confirmed"
	}
	m.resumes.WithLabelValues(decision).Inc()
}

// IncTransition counts a state change. Self-transitions are ignored.
func (m *WizardMetrics) IncTransition(from, to string) {
	if m == nil || m.transitions == nil || from == to {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

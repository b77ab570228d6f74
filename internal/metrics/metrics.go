package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los instrumentos del embudo. Un *Metrics nil es valido y no registra nada.
type Metrics struct {
	registry      *prometheus.Registry
	audits        *prometheus.CounterVec
	auditDuration prometheus.Histogram
	transitions   *prometheus.CounterVec
	leads         prometheus.Counter
}

// New registra los instrumentos en reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		audits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "growthmind_audits_total",
			Help: "Audits generated, by source (live or fallback).",
		}, []string{"source"}),
		auditDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "growthmind_audit_duration_seconds",
			Help:    "Latency of the generative AI call, fallback included.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "growthmind_funnel_transitions_total",
			Help: "Funnel state transitions, by target state.",
		}, []string{"to"}),
		leads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "growthmind_leads_captured_total",
			Help: "Contact forms accepted.",
		}),
	}
	reg.MustRegister(m.audits, m.auditDuration, m.transitions, m.leads)
	return m
}

func (m *Metrics) ObserveAudit(source string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.audits.WithLabelValues(source).Inc()
	m.auditDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) IncTransition(to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(to).Inc()
}

func (m *Metrics) IncLead() {
	if m == nil {
		return
	}
	m.leads.Inc()
}

// Handler expone el registry en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

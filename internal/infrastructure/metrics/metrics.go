package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "checker"

// Metrics holds the Prometheus collectors for submissions.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	submissions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	verdicts    *prometheus.CounterVec
	stale       prometheus.Counter
	inFlight    prometheus.Gauge
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Settled submissions by disposition.",
		}, []string{"disposition", "failure"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classify_duration_seconds",
			Help:      "Time from submission to settlement.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 45, 60},
		}, []string{"disposition"}),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_total",
			Help:      "Interpreted verdicts by kind and flag state.",
		}, []string{"kind", "classification_type", "flagged"}),
		stale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_dispositions_total",
			Help:      "Dispositions discarded because a newer submission superseded them.",
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "submissions_in_flight",
			Help:      "Outbound classification requests currently pending.",
		}),
	}

	reg.MustRegister(m.submissions, m.duration, m.verdicts, m.stale, m.inFlight)
	return m
}

// RequestStarted marks an outbound request as in flight
func (m *Metrics) RequestStarted() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

// ObserveSettlement records a settled submission
func (m *Metrics) ObserveSettlement(disposition, failure string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.inFlight.Dec()
	m.submissions.WithLabelValues(disposition, failure).Inc()
	m.duration.WithLabelValues(disposition).Observe(elapsed.Seconds())
}

// ObserveVerdict records an interpreted verdict
func (m *Metrics) ObserveVerdict(kind, classificationType string, flagged bool) {
	if m == nil {
		return
	}
	m.verdicts.WithLabelValues(kind, classificationType, strconv.FormatBool(flagged)).Inc()
}

// ObserveStale records a discarded superseded disposition
func (m *Metrics) ObserveStale() {
	if m == nil {
		return
	}
	m.stale.Inc()
}

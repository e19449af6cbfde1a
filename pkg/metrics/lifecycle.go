package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LifecycleMetrics records outcomes of custody lifecycle transitions (vault,
// mint confirmation, withdraw, burn confirmation) and reconciliation gaps
// detected between provider callbacks and stored state.
type LifecycleMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	gaps     *prometheus.CounterVec
}

// NewLifecycleMetrics registers the lifecycle metrics on the provided registerer.
func NewLifecycleMetrics(reg prometheus.Registerer) *LifecycleMetrics {
	if reg == nil {
		return &LifecycleMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lifecycle_transition_duration_seconds",
		Help:    "Duration of custody lifecycle transitions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"transition"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lifecycle_transition_success",
		Help: "Successful custody lifecycle transitions.",
	}, []string{"transition"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lifecycle_transition_failure",
		Help: "Failed custody lifecycle transitions.",
	}, []string{"transition"})
	gaps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lifecycle_reconciliation_gaps",
		Help: "Provider callbacks that did not match the stored custody state.",
	}, []string{"transition"})
	reg.MustRegister(duration, success, failure, gaps)
	return &LifecycleMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		gaps:     gaps,
	}
}

// ObserveDuration records the duration for the named transition.
func (m *LifecycleMetrics) ObserveDuration(transition string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(transition)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named transition.
func (m *LifecycleMetrics) IncSuccess(transition string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(transition)).Inc()
}

// IncFailure increments the failure counter for the named transition.
func (m *LifecycleMetrics) IncFailure(transition string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(transition)).Inc()
}

// IncReconciliationGap increments the gap counter for the named transition.
func (m *LifecycleMetrics) IncReconciliationGap(transition string) {
	if m == nil || m.gaps == nil {
		return
	}
	m.gaps.WithLabelValues(normalizeLabel(transition)).Inc()
}

func normalizeLabel(transition string) string {
	if transition == "" {
		return "unknown"
	}
	return transition
}

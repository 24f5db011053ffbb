package anneal

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "spinglass"
	subsystem = "anneal"

	outcomeOK       = "ok"
	outcomeCanceled = "canceled"
	outcomeError    = "error"
)

// Metrics are Prometheus metrics of annealing runs.
// A nil *Metrics records nothing.
type Metrics struct {
	Steps       prometheus.Counter
	Runs        *prometheus.CounterVec
	Gap         prometheus.Gauge
	StepSeconds prometheus.Histogram
}

// NewMetrics creates the metrics and registers them with reg, if reg is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "steps_total",
			Help:      "Number of completed annealing steps.",
		}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "runs_total",
			Help:      "Number of annealing runs by outcome.",
		}, []string{"outcome"}),
		Gap: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "spectral_gap",
			Help:      "Spectral gap of the most recent annealing step.",
		}),
		StepSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "step_duration_seconds",
			Help:      "Duration of an annealing step.",
			Buckets:   prometheus.ExponentialBuckets(1e-4, 4, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Steps, m.Runs, m.Gap, m.StepSeconds)
	}
	return m
}

func (m *Metrics) step(gap, seconds float64) {
	if m == nil {
		return
	}
	m.Steps.Inc()
	m.Gap.Set(gap)
	m.StepSeconds.Observe(seconds)
}

func (m *Metrics) run(outcome string) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(outcome).Inc()
}

package actions

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/kgraph/internal/graph"
)

// Metrics holds Prometheus metrics for pipeline runs. A nil *Metrics
// records nothing.
type Metrics struct {
	runsTotal    *prometheus.CounterVec   // By pipeline and status (ok/error)
	stepsTotal   *prometheus.CounterVec   // By pipeline, step and status
	stepDuration *prometheus.HistogramVec // By pipeline and step
	errorsTotal  *prometheus.CounterVec   // By pipeline and error code
}

// NewMetrics creates pipeline metrics and registers them with registry.
// A nil registry disables metrics.
func NewMetrics(registry prometheus.Registerer) (*Metrics, error) {
	if registry == nil {
		return nil, nil
	}

	m := &Metrics{
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kgraph",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs",
		}, []string{"pipeline", "status"}),

		stepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kgraph",
			Subsystem: "pipeline",
			Name:      "steps_total",
			Help:      "Total number of pipeline steps executed",
		}, []string{"pipeline", "step", "status"}),

		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kgraph",
			Subsystem: "pipeline",
			Name:      "step_duration_seconds",
			Help:      "Pipeline step duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"pipeline", "step"}),

		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kgraph",
			Subsystem: "pipeline",
			Name:      "errors_total",
			Help:      "Total number of aborted pipeline runs by error code",
		}, []string{"pipeline", "code"}),
	}

	for _, c := range []prometheus.Collector{m.runsTotal, m.stepsTotal, m.stepDuration, m.errorsTotal} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) recordStep(pipeline, step string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	m.stepsTotal.WithLabelValues(pipeline, step, status(err)).Inc()
	m.stepDuration.WithLabelValues(pipeline, step).Observe(duration.Seconds())
}

func (m *Metrics) recordRun(pipeline string, err error) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(pipeline, status(err)).Inc()
	if err != nil {
		code, ok := graph.CodeOf(err)
		if !ok {
			code = "INTERNAL"
		}
		m.errorsTotal.WithLabelValues(pipeline, string(code)).Inc()
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

package pool

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the pool's prometheus collectors. Construct with NewMetrics
// and register the Collectors with your registry; a nil *Metrics disables
// instrumentation entirely.
type Metrics struct {
	JobsSubmitted prometheus.Counter
	JobsCompleted prometheus.Counter
	JobsFailed    prometheus.Counter
	ActiveWorkers prometheus.Gauge
	IdleWorkers   prometheus.Gauge
	QueueDepth    prometheus.Gauge
}

func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		JobsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_submitted_total",
			Help:      "Total number of jobs accepted by Submit",
		}),
		JobsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_completed_total",
			Help:      "Total number of jobs that finished without error",
		}),
		JobsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_failed_total",
			Help:      "Total number of jobs that failed, including jobs dropped at shutdown",
		}),
		ActiveWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "active_workers",
			Help:      "Workers currently executing a job",
		}),
		IdleWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "idle_workers",
			Help:      "Workers parked waiting for a job",
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "queue_depth",
			Help:      "Jobs waiting in the backlog",
		}),
	}
}

// Collectors returns everything to register, in a stable order.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.JobsSubmitted, m.JobsCompleted, m.JobsFailed,
		m.ActiveWorkers, m.IdleWorkers, m.QueueDepth,
	}
}

// nil-safe increment helpers so call sites stay free of metric guards.

func (m *Metrics) submitted() {
	if m != nil {
		m.JobsSubmitted.Inc()
	}
}

func (m *Metrics) completed() {
	if m != nil {
		m.JobsCompleted.Inc()
	}
}

func (m *Metrics) failed() {
	if m != nil {
		m.JobsFailed.Inc()
	}
}

func (m *Metrics) active(delta float64) {
	if m != nil {
		m.ActiveWorkers.Add(delta)
	}
}

func (m *Metrics) idle(delta float64) {
	if m != nil {
		m.IdleWorkers.Add(delta)
	}
}

func (m *Metrics) queued(depth int) {
	if m != nil {
		m.QueueDepth.Set(float64(depth))
	}
}

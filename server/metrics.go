package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the service-level Prometheus collectors. Agent-level
// observations are fed from the progress event stream, so the
// orchestrator stays metrics-free.
type Metrics struct {
	JobsCreated       prometheus.Counter
	JobsCompleted     prometheus.Counter
	JobsFailed        prometheus.Counter
	JobsRejected      prometheus.Counter
	ActiveJobs        prometheus.Gauge
	StreamSubscribers prometheus.Gauge
	AgentDuration     *prometheus.HistogramVec
	IterationsPerRun  prometheus.Histogram
}

// NewMetrics registers the collectors on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		JobsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "archgen_jobs_created_total",
			Help: "Generation jobs accepted.",
		}),
		JobsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "archgen_jobs_completed_total",
			Help: "Generation jobs that finished successfully.",
		}),
		JobsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "archgen_jobs_failed_total",
			Help: "Generation jobs that failed or were cancelled.",
		}),
		JobsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "archgen_jobs_rejected_total",
			Help: "Generation requests rejected by concurrency caps.",
		}),
		ActiveJobs: factory.NewGauge(prometheus.GaugeOpts{
			Name: "archgen_active_jobs",
			Help: "Orchestrations currently running.",
		}),
		StreamSubscribers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "archgen_stream_subscribers",
			Help: "Open progress stream connections.",
		}),
		AgentDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "archgen_agent_duration_seconds",
			Help:    "Agent execution time by role and serving model.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"agent", "model"}),
		IterationsPerRun: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "archgen_iterations_per_run",
			Help:    "Refinement iterations used per completed run.",
			Buckets: []float64{1, 2, 3, 4, 5},
		}),
	}
}

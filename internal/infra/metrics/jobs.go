package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(jobsProcessedTotal, jobDurationSeconds, jobRetriesTotal) }

var jobsProcessedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "jobs_processed_total",
		Help: "Total number of jobs processed, labeled by queue and outcome.",
	},
	[]string{"queue", "status"}, // 'completed', 'failed', 'retried'
)

var jobDurationSeconds = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "job_duration_seconds",
		Help:    "Handler run time per queue.",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
	},
	[]string{"queue"},
)

var jobRetriesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "job_retries_total",
		Help: "Attempts that failed and were rescheduled.",
	},
	[]string{"queue"},
)

func IncJob(queue, status string) {
	jobsProcessedTotal.WithLabelValues(norm(queue), norm(status)).Inc()
}

func ObserveJobDuration(queue string, seconds float64) {
	jobDurationSeconds.WithLabelValues(norm(queue)).Observe(seconds)
}

func IncJobRetry(queue string) {
	jobRetriesTotal.WithLabelValues(norm(queue)).Inc()
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(notificationsPublishedTotal) }

var notificationsPublishedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_published_total",
		Help: "Job-outcome notifications published, labeled by type and result.",
	},
	[]string{"type", "result"}, // type='job_complete'|'job_failed', result='ok'|'error'
)

func IncNotification(eventType, result string) {
	notificationsPublishedTotal.WithLabelValues(norm(eventType), norm(result)).Inc()
}

package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seqnet",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "seqnet",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	forwardRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seqnet",
			Subsystem: "forward",
			Name:      "requests_total",
			Help:      "Sequence queries forwarded to peer nodes.",
		},
		[]string{"node", "peer", "sequence", "status", "success"},
	)
	forwardDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "seqnet",
			Subsystem: "forward",
			Name:      "request_duration_seconds",
			Help:      "Forwarded query duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "peer", "sequence", "status", "success"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, forwardRequests, forwardDuration)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordForward(node, peer, seq string, status int, duration time.Duration, success bool) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	successLabel := strconv.FormatBool(success)
	forwardRequests.WithLabelValues(node, peer, seq, statusLabel, successLabel).Inc()
	forwardDuration.WithLabelValues(node, peer, seq, statusLabel, successLabel).
		Observe(duration.Seconds())
}

package backend

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Total number of requests sent to the execution backend",
		},
		[]string{"op", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Execution backend request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(requestTotal)
	prometheus.MustRegister(requestDuration)
}

// observe records one exchange; status 0 means the backend never answered.
func observe(op string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	requestTotal.WithLabelValues(op, label).Inc()
	requestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"ms-eventplatform/internal/apperr"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route pattern and status code",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	resourceOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resource_operations_total",
			Help: "Resource operations by outcome",
		},
		[]string{"resource", "operation", "outcome"},
	)

	domainEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domain_events_published_total",
			Help: "Domain events handed to the message broker",
		},
		[]string{"topic", "outcome"},
	)
)

func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordOperation counts a resource operation; the outcome is "ok" or the error kind.
func RecordOperation(resource, operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = apperr.KindOf(err).String()
	}
	resourceOperations.WithLabelValues(resource, operation, outcome).Inc()
}

func RecordDomainEvent(topic string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	domainEvents.WithLabelValues(topic, outcome).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}

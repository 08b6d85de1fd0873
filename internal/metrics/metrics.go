// Package metrics exposes Prometheus collectors for HTTP traffic and domain events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "landbook"

var (
	// HTTPRequests counts handled HTTP requests.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes HTTP request latency.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// DomainEvents counts domain mutations by event name.
	DomainEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "domain_events_total",
		Help:      "Total number of domain events",
	}, []string{"event"})

	// ImportRows counts imported rows by outcome.
	ImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_rows_total",
		Help:      "Total number of imported land record rows",
	}, []string{"outcome"})

	// ShareVerifications counts share password checks by outcome.
	ShareVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "share_verifications_total",
		Help:      "Total number of share password verifications",
	}, []string{"outcome"})

	// RateLimitBackend reports whether the limiter currently uses Redis (1) or memory (0).
	RateLimitBackend = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ratelimit_redis_active",
		Help:      "Whether the rate limiter is currently backed by Redis",
	})
)

// Domain event names.
const (
	EventProjectCreated = "project_created"
	EventProjectUpdated = "project_updated"
	EventProjectDeleted = "project_deleted"
	EventRaiyatCreated  = "raiyat_created"
	EventRaiyatDeleted  = "raiyat_deleted"
	EventRecordCreated  = "record_created"
	EventRecordUpdated  = "record_updated"
	EventRecordDeleted  = "record_deleted"
	EventPaymentCreated = "payment_created"
	EventPaymentUpdated = "payment_updated"
	EventPaymentDeleted = "payment_deleted"
	EventShareIssued    = "share_issued"
	EventShareRevoked   = "share_revoked"
	EventUserRegistered = "user_registered"
	EventAccountDeleted = "account_deleted"
)

// Record increments the counter for a domain event.
func Record(event string) {
	DomainEvents.WithLabelValues(event).Inc()
}

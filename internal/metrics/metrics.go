package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adopte_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adopte_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "adopte_messages_sent_total",
			Help: "Total messages sent",
		},
	)

	ConversationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adopte_conversations_created_total",
			Help: "Total conversations created",
		},
		[]string{"context"},
	)

	ConversationsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "adopte_conversations_expired_total",
			Help: "Total conversations transitioned to EXPIRED by the sweep",
		},
	)

	BroadcastsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adopte_broadcasts_dispatched_total",
			Help: "Total admin broadcasts dispatched",
		},
		[]string{"target"},
	)

	WebsocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "adopte_websocket_connections",
			Help: "Currently connected websocket clients",
		},
	)
)

// ObserveHTTPRequest records one finished request.
func ObserveHTTPRequest(method, path string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Package metric defines the Prometheus instruments exposed on /metrics.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout",
		Subsystem: "orders",
		Name:      "created_total",
		Help:      "Order creation attempts by outcome.",
	}, []string{"status"}) // created / rejected / gateway_error / store_error

	VerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout",
		Subsystem: "payments",
		Name:      "verifications_total",
		Help:      "Payment verification attempts by outcome.",
	}, []string{"result"}) // paid / replay / bad_signature / mismatch / not_found / error

	GatewayRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "checkout",
		Subsystem: "gateway",
		Name:      "request_duration_seconds",
		Help:      "Latency of payment gateway order creation calls.",
		Buckets:   prometheus.DefBuckets,
	})
)

// ObserveGateway records one gateway round-trip.
func ObserveGateway(d time.Duration) {
	GatewayRequestDuration.Observe(d.Seconds())
}

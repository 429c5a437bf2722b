package internal

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"realmhooks/pkg/listener"
)

var (
	eventsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "realmhooks",
			Name:      "events_received_total",
			Help:      "Events handed to the webhook dispatcher.",
		},
		[]string{"realm", "event_type"},
	)
	deliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "realmhooks",
			Name:      "webhook_deliveries_total",
			Help:      "Webhook POSTs answered by the destination, by status code.",
		},
		[]string{"realm", "event_type", "status"},
	)
	filtered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "realmhooks",
			Name:      "events_filtered_total",
			Help:      "Events rejected by a realm filter.",
		},
		[]string{"realm", "event_type"},
	)
	failures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "realmhooks",
			Name:      "webhook_failures_total",
			Help:      "Events dropped because delivery failed.",
		},
		[]string{"realm", "event_type", "kind"},
	)
)

func init() {
	prometheus.MustRegister(eventsReceived, deliveries, filtered, failures)
}

// MetricsHooks returns dispatcher hooks that feed the prometheus counters.
func MetricsHooks() listener.Hooks {
	return listener.Hooks{
		OnReceived: func(_ context.Context, realm, eventType string) {
			eventsReceived.WithLabelValues(realm, eventType).Inc()
		},
		OnDelivered: func(_ context.Context, realm, eventType string, receipt listener.Receipt) {
			deliveries.WithLabelValues(realm, eventType, strconv.Itoa(receipt.Status)).Inc()
		},
		OnFiltered: func(_ context.Context, realm, eventType string) {
			filtered.WithLabelValues(realm, eventType).Inc()
		},
		OnFailed: func(_ context.Context, realm, eventType string, err error) {
			failures.WithLabelValues(realm, eventType, listener.KindOf(err).String()).Inc()
		},
	}
}

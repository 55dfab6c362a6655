// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
)

// Dispatch outcomes.
const (
	OutcomeDelivered = "delivered"
	OutcomeDropped   = "dropped"
	OutcomeNoSink    = "no_sink"
)

// DispatchedEvents counts dispatch attempts by event and outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var DispatchedEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "simcord_gateway_events_total",
		Help: "Total number of gateway dispatch attempts",
	},
	[]string{"event", "outcome"},
)

// RegisterMetrics registers gateway metrics with the given registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(DispatchedEvents)
}

// RecordDispatch increments the dispatch counter.
func RecordDispatch(event, outcome string) {
	DispatchedEvents.WithLabelValues(event, outcome).Inc()
}

func eventAttr(name string) attribute.KeyValue {
	return attribute.String("gateway.event", name)
}

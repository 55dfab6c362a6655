// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StatusSuccess labels requests that returned without error. Failed
// requests are labelled with their error kind.
const StatusSuccess = "success"

// RequestsTotal counts handled requests by route, verb and outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var RequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "simcord_api_requests_total",
		Help: "Total number of simulated API requests",
	},
	[]string{"route", "method", "status"},
)

// RequestDuration is the histogram for request handling duration.
// Use RegisterMetrics to register this with a Prometheus registry.
var RequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "simcord_api_request_duration_seconds",
		Help:    "Simulated API request duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"route"},
)

// RegisterMetrics registers handler metrics with the given registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(RequestsTotal)
	reg.MustRegister(RequestDuration)
}

// RecordRequest increments the request counter.
func RecordRequest(route, method, status string) {
	RequestsTotal.WithLabelValues(route, method, status).Inc()
}

// RecordRequestDuration observes how long a request took.
func RecordRequestDuration(route string, duration time.Duration) {
	RequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// Package metrics holds Prometheus instruments used across the bootstrap
// layer.  All collectors are registered with the global registry, so
// mounting promhttp.Handler() is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for SecretResolveTotal.
const (
	OutcomeHit         = "hit"
	OutcomeMiss        = "miss"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "unavailable"
)

var (
	SecretResolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "secret_resolve_total",
			Help: "Secret resolutions by outcome (hit, miss, not_found, unavailable).",
		}, []string{"outcome"})

	VaultRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vault_request_duration_seconds",
			Help:    "Latency of vault round trips, cache misses only.",
			Buckets: prometheus.DefBuckets,
		})

	BootstrapFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bootstrap_failures_total",
			Help: "Bootstrap failures by stage (config, vault, resolve, consumer).",
		}, []string{"stage"})

	BootstrapDuration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bootstrap_duration_seconds",
			Help: "Wall time of the last successful bootstrap.",
		})
)

func init() {
	prometheus.MustRegister(
		SecretResolveTotal,
		VaultRequestDuration,
		BootstrapFailuresTotal,
		BootstrapDuration,
	)
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SamplesAppended = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "attune_samples_appended_total",
			Help: "Total number of emotion samples appended to session buffers",
		},
	)

	SamplesPersisted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "attune_samples_persisted_total",
			Help: "Total number of emotion samples written to the store",
		},
	)

	ProviderAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attune_provider_attempts_total",
			Help: "Total number of provider invocations, by provider",
		},
		[]string{"provider"},
	)

	ProviderFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attune_provider_failures_total",
			Help: "Total number of failed provider invocations, by provider",
		},
		[]string{"provider"},
	)

	Resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attune_resolutions_total",
			Help: "Total number of resolved responses, by winning provider",
		},
		[]string{"provider"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "attune_active_sessions",
			Help: "Number of sessions with a running sampler",
		},
	)
)

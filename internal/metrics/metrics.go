package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReadingsNormalized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iberoweather_readings_normalized_total",
			Help: "Raw payloads normalized into canonical readings",
		},
		[]string{"provider"},
	)

	ReadingsArchived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iberoweather_readings_archived_total",
			Help: "Canonical readings written to the archive",
		},
		[]string{"provider"},
	)

	ProviderSearchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iberoweather_provider_search_errors_total",
			Help: "Nearest-station searches that failed per provider",
		},
		[]string{"provider"},
	)

	PayloadDecodeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iberoweather_payload_decode_errors_total",
			Help: "Raw payloads rejected before normalization",
		},
		[]string{"transport"},
	)

	BreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iberoweather_breaker_state_changes_total",
			Help: "Circuit breaker transitions per provider",
		},
		[]string{"provider", "state"},
	)

	IngestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "iberoweather_ingest_latency_seconds",
			Help:    "Latency of payload normalization and enrichment",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"transport"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "iberoweather_active_sessions",
			Help: "Sessions currently holding derived-metric state",
		},
	)

	InventoryStationsSeeded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iberoweather_inventory_stations_seeded_total",
			Help: "Stations upserted during inventory seeding",
		},
		[]string{"provider"},
	)
)

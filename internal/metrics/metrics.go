package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CollectionsTotal counts per-song collection outcomes of the indexer (created, skipped)
	CollectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shine_indexer_collections_total",
			Help: "Total number of per-song collection records processed",
		},
		[]string{"kind", "outcome"},
	)

	// HandlerFailures counts indexer handler invocations that returned an error
	HandlerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shine_indexer_handler_failures_total",
			Help: "Total number of failed indexer handler invocations",
		},
		[]string{"kind"},
	)

	// EventsPublished counts purchase events published by the emitter
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shine_indexer_events_published_total",
			Help: "Total number of purchase events published",
		},
		[]string{"chain", "kind"},
	)

	// BridgeMessages counts messages handled by the event bridge by result (ack, nak, term)
	BridgeMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shine_indexer_bridge_messages_total",
			Help: "Total number of bridge messages by result",
		},
		[]string{"result"},
	)

	// LastProcessedBlock tracks the last block seen by the emitter
	LastProcessedBlock = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "shine_indexer_last_processed_block",
			Help: "Last processed block number by chain",
		},
		[]string{"chain"},
	)

	// ViewFallbacks counts how often a read view was served from its fallback
	ViewFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shine_indexer_view_fallbacks_total",
			Help: "Total number of view requests served by the fallback path",
		},
		[]string{"view"},
	)

	// MetadataFailures counts song metadata reads that failed or timed out
	MetadataFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shine_indexer_metadata_failures_total",
			Help: "Total number of failed song metadata reads",
		},
	)

	// WindowScanDuration tracks the duration of event window scans
	WindowScanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shine_indexer_window_scan_duration_seconds",
			Help:    "Event window scan duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"view"},
	)

	// ViewCacheRequests counts view cache lookups by result (hit, miss, error)
	ViewCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shine_indexer_view_cache_requests_total",
			Help: "Total number of view cache lookups",
		},
		[]string{"view", "result"},
	)

	// RPCProviderErrors counts failed calls per RPC endpoint
	RPCProviderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shine_indexer_rpc_provider_errors_total",
			Help: "Total number of failed RPC calls by provider",
		},
		[]string{"provider"},
	)
)

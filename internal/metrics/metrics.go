package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Throughput metrics
var (
	BlocksProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xcm_indexer_blocks_processed_total",
		Help: "Total number of blocks processed",
	})

	TransfersDecoded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xcm_indexer_transfers_decoded_total",
			Help: "Total number of transfers decoded by call",
		},
		[]string{"call"},
	)

	DecodeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xcm_indexer_decode_failures_total",
			Help: "Total number of extrinsics that failed to decode by kind",
		},
		[]string{"kind"},
	)

	ExtrinsicsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xcm_indexer_extrinsics_skipped_total",
		Help: "Total number of extrinsics skipped as non-transfer or unsigned",
	})

	AccountsReferenced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xcm_indexer_accounts_referenced_total",
		Help: "Total number of distinct sender accounts written per batch",
	})
)

// Performance metrics
var (
	BatchExtractDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "xcm_indexer_batch_extract_duration_seconds",
		Help:    "Time taken to decode one block batch",
		Buckets: prometheus.DefBuckets,
	})

	SinkWriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "xcm_indexer_sink_write_duration_seconds",
			Help:    "Time taken to write one batch to a sink",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sink"},
	)

	SinkRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xcm_indexer_sink_retries_total",
			Help: "Total number of retried sink writes",
		},
		[]string{"sink"},
	)
)

// State metrics
var (
	CurrentHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "xcm_indexer_current_height",
		Help: "Last block height persisted",
	})

	FinalizedHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "xcm_indexer_finalized_height",
		Help: "Finalized head height reported by the node",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

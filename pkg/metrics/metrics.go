package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registered on the default registry through promauto; labelled by mode
// ("queue" or "backfill").
var (
	BatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_sync_batches_total",
			Help: "Committed embedding batches",
		},
		[]string{"mode"},
	)

	ProductsSyncedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_sync_products_total",
			Help: "Product embeddings written",
		},
		[]string{"mode"},
	)

	FailedBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_sync_failed_batches_total",
			Help: "Batches rolled back because of an error",
		},
		[]string{"mode"},
	)

	// Covers encoder latency, which dominates a batch.
	BatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "embedding_sync_batch_duration_seconds",
			Help:    "Duration of one embedding batch in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"mode"},
	)

	QueuePending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "embedding_sync_queue_pending",
			Help: "Unprocessed queue entries seen at the last status refresh",
		},
	)
)

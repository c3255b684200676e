package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// mode label values
const (
	ModeSingle = "single"
	ModeBatch  = "batch"
)

var (
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satisfaction_predictions_total",
			Help: "Records scored, by request mode and predicted label",
		},
		[]string{"mode", "label"},
	)

	PredictionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satisfaction_prediction_failures_total",
			Help: "Failed prediction requests, by request mode and error code",
		},
		[]string{"mode", "error_code"},
	)

	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "satisfaction_prediction_duration_seconds",
			Help: "End-to-end duration of a prediction request",
		},
		[]string{"mode"},
	)

	BatchRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "satisfaction_batch_rows",
			Help:    "Rows per uploaded batch",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)

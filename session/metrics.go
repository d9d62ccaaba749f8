package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PredictionsTotal counts completed predictions by gauge outcome.
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adpredict_predictions_total",
			Help: "Total number of completed predictions",
		},
		[]string{"outcome"},
	)

	// PredictionErrors counts per-prediction failures after Ready.
	PredictionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "adpredict_prediction_errors_total",
			Help: "Total number of failed prediction attempts",
		},
	)

	// CacheHits counts predictions served from the result cache.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "adpredict_prediction_cache_hits_total",
			Help: "Predictions answered from the LRU result cache",
		},
	)

	// InferenceLatency measures encode-to-probability time.
	InferenceLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "adpredict_inference_latency_seconds",
			Help:    "Full pipeline latency in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.025, 0.05},
		},
	)

	// ModelLoaded exposes session readiness (1 = Ready, 0 otherwise).
	ModelLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "adpredict_model_loaded",
			Help: "Whether the model and preprocessing config are loaded",
		},
		[]string{"model"},
	)

	// LoadFailures counts terminal startup load failures by artifact.
	LoadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adpredict_load_failures_total",
			Help: "Startup artifact load failures",
		},
		[]string{"artifact"},
	)
)

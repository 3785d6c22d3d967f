// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec // labels: outcome (ok|partial|empty|failed)
	PipelineDuration  prometheus.Histogram
	RowsUpserted      prometheus.Counter

	// Sync metrics
	SyncRunsTotal        prometheus.Counter
	CredentialsProcessed prometheus.Counter
	CredentialsInvalid   prometheus.Counter
	TokenRefreshes       *prometheus.CounterVec // labels: result (ok|failed)
	AccountsSkippedLock  prometheus.Counter

	// Health metrics
	LastSuccessfulSync prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "leadpulse"
	}

	return &Metrics{
		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of per-account pipeline runs by outcome",
		}, []string{"outcome"}),
		PipelineDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "run_duration_seconds",
			Help:      "Duration of per-account pipeline runs",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		RowsUpserted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "rows_upserted_total",
			Help:      "Total number of metric rows upserted to the store",
		}),
		SyncRunsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Total number of batch sync runs",
		}),
		CredentialsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "credentials_processed_total",
			Help:      "Total number of credentials processed across sync runs",
		}),
		CredentialsInvalid: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "credentials_invalidated_total",
			Help:      "Total number of credentials marked invalid",
		}),
		TokenRefreshes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "token_refreshes_total",
			Help:      "Total number of token refresh attempts by result",
		}, []string{"result"}),
		AccountsSkippedLock: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "accounts_skipped_lock_total",
			Help:      "Total number of account runs skipped due to a held sync lock",
		}),
		LastSuccessfulSync: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "last_successful_run_timestamp_seconds",
			Help:      "Unix timestamp of the last fully successful sync run",
		}),
	}
}

// Handler returns the HTTP handler exposing the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

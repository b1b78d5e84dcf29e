// Package metrics exposes Prometheus collectors for the leadsync service.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal   *prometheus.CounterVec
	leadsProcessed     prometheus.Counter
	rowsInsertedTotal  prometheus.Counter
	runsTotal          *prometheus.CounterVec
	runDurationSeconds prometheus.Histogram

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		apiRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadsync_api_requests_total",
				Help: "Total number of LeadDocket API requests, labeled by status code.",
			},
			[]string{"code"},
		)

		leadsProcessed = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "leadsync_leads_processed_total",
				Help: "Total number of leads normalized across all runs.",
			},
		)

		rowsInsertedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "leadsync_rows_inserted_total",
				Help: "Total number of new rows merged into the production table.",
			},
		)

		runsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadsync_runs_total",
				Help: "Total number of sync runs, labeled by outcome.",
			},
			[]string{"status"},
		)

		runDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "leadsync_run_duration_seconds",
				Help:    "Histogram of end-to-end sync run durations.",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
		)
	})
}

// ObserveAPIRequest records one upstream API request by status code.
func ObserveAPIRequest(statusCode int) {
	if apiRequestsTotal == nil {
		return
	}
	apiRequestsTotal.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// AddLeadsProcessed records normalized leads.
func AddLeadsProcessed(n int) {
	if leadsProcessed == nil {
		return
	}
	leadsProcessed.Add(float64(n))
}

// AddRowsInserted records rows newly merged into production. The merge
// reports a row-count delta, which goes negative when a concurrent
// writer shrinks the table between counts; counters panic on negative
// increments, so non-positive deltas are skipped.
func AddRowsInserted(n int64) {
	if rowsInsertedTotal == nil || n <= 0 {
		return
	}
	rowsInsertedTotal.Add(float64(n))
}

// ObserveRun records the outcome and duration of one sync run.
func ObserveRun(status string, elapsed time.Duration) {
	if runsTotal == nil {
		return
	}
	runsTotal.WithLabelValues(status).Inc()
	runDurationSeconds.Observe(elapsed.Seconds())
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "data_api"

// Outcomes used as label values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Edit kinds used as label values
const (
	EditCell      = "cell"
	EditIncrement = "increment"
	EditInsert    = "insert"
	EditPatch     = "patch"
)

// Metrics holds the Prometheus collectors of the service. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	WindowRequests *prometheus.CounterVec
	WindowRows     prometheus.Histogram
	Edits          *prometheus.CounterVec
	BulkEditSize   prometheus.Histogram
	GridSessions   prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on the provided registry
func NewMetrics(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,

		WindowRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "window_requests_total",
				Help:      "Total number of windowed row requests served",
			},
			[]string{"outcome"},
		),

		WindowRows: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "window_rows",
				Help:      "Number of rows returned per window",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		),

		Edits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "edits_total",
				Help:      "Total number of edits applied to the store",
			},
			[]string{"kind", "outcome"},
		),

		BulkEditSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "bulk_edit_rows",
				Help:      "Number of rows selected per bulk edit",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		),

		GridSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "grid_sessions",
				Help:      "Number of open grid sessions",
			},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordWindow(success bool, rows int) {
	if m == nil {
		return
	}
	m.WindowRequests.WithLabelValues(outcome(success)).Inc()
	if success {
		m.WindowRows.Observe(float64(rows))
	}
}

func (m *Metrics) RecordEdit(kind string, success bool) {
	if m == nil {
		return
	}
	m.Edits.WithLabelValues(kind, outcome(success)).Inc()
}

func (m *Metrics) RecordBulkEditSize(rows int) {
	if m == nil {
		return
	}
	m.BulkEditSize.Observe(float64(rows))
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.GridSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.GridSessions.Dec()
}

func outcome(success bool) string {
	if success {
		return OutcomeSuccess
	}
	return OutcomeFailure
}

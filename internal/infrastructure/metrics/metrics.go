package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Decisions          *prometheus.CounterVec
	Scores             prometheus.Histogram
	EndpointLatency    *prometheus.HistogramVec
	IdempotencyReplays prometheus.Counter
	IngestRows         *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers every collector on reg.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "credit_decisions_total",
			Help: "Loan eligibility decisions by outcome and rejection reason",
		}, []string{"outcome", "reason"}),
		Scores: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "credit_score",
			Help:    "Credit scores computed while deciding",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		EndpointLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "credit_http_request_duration_seconds",
			Help:    "Latency of HTTP endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		IdempotencyReplays: f.NewCounter(prometheus.CounterOpts{
			Name: "credit_idempotency_replays_total",
			Help: "Responses served from the idempotency store",
		}),
		IngestRows: f.NewCounterVec(prometheus.CounterOpts{
			Name: "credit_ingest_rows_total",
			Help: "Spreadsheet rows processed by the importer",
		}, []string{"sheet", "result"}),
		gatherer: reg,
	}
}

func (m *Metrics) ObserveDecision(approved bool, reason string, score int) {
	if m == nil {
		return
	}
	outcome := "rejected"
	if approved {
		outcome = "approved"
	}
	m.Decisions.WithLabelValues(outcome, reason).Inc()
	m.Scores.Observe(float64(score))
}

func (m *Metrics) ObserveEndpointLatency(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.EndpointLatency.WithLabelValues(method, route, status).Observe(seconds)
}

func (m *Metrics) IncIdempotencyReplay() {
	if m == nil {
		return
	}
	m.IdempotencyReplays.Inc()
}

func (m *Metrics) AddIngestRows(sheet, result string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.IngestRows.WithLabelValues(sheet, result).Add(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

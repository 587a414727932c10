// Package metrics exposes Prometheus counters for the ingestion pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	reg prometheus.Gatherer

	stageResults   *prometheus.CounterVec
	linesParsed    prometheus.Counter
	linesUnmatched prometheus.Counter
	dispatches     *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New registers the collectors on reg. Pass a fresh prometheus.NewRegistry()
// in tests so repeated construction does not panic.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		stageResults: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_match_stage_total",
				Help: "Catalog match stage attempts by outcome",
			},
			[]string{"stage", "result"},
		),
		linesParsed: f.NewCounter(prometheus.CounterOpts{
			Name: "intake_lines_parsed_total",
			Help: "Order lines parsed",
		}),
		linesUnmatched: f.NewCounter(prometheus.CounterOpts{
			Name: "intake_lines_unmatched_total",
			Help: "Order lines that matched no catalog item",
		}),
		dispatches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_dispatch_total",
				Help: "Card dispatch attempts by outcome",
			},
			[]string{"outcome"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "intake_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

// ObserveStage records one matcher stage attempt.
func (m *Metrics) ObserveStage(stage string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.stageResults.WithLabelValues(stage, result).Inc()
}

func (m *Metrics) LinesParsed(total, unmatched int) {
	m.linesParsed.Add(float64(total))
	m.linesUnmatched.Add(float64(unmatched))
}

// Dispatch records a dispatch attempt. outcome is "ok", "rejected" or "failed".
func (m *Metrics) Dispatch(outcome string) {
	m.dispatches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

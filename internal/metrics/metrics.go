// Package metrics exposes Prometheus counters for statement parsing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

// Parse outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeBadRequest  = "bad_request"
	OutcomeUnreadable  = "unreadable"
	OutcomeInternalErr = "error"
)

// Metrics owns its registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	parses   *prometheus.CounterVec
	fields   *prometheus.CounterVec
	duration prometheus.Histogram
}

// New registers the parser metrics plus Go runtime collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		parses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ccparser_parses_total",
			Help: "Statement parse requests by outcome.",
		}, []string{"outcome"}),
		fields: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ccparser_fields_total",
			Help: "Fields resolved per parse, split by whether a value was found.",
		}, []string{"field", "found"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ccparser_parse_duration_seconds",
			Help:    "Time from upload to extracted fields.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveParse records one request. fields may be nil for failed requests.
func (m *Metrics) ObserveParse(outcome string, fields *models.ExtractedFields, elapsed time.Duration) {
	m.parses.WithLabelValues(outcome).Inc()
	if fields == nil {
		return
	}
	m.duration.Observe(elapsed.Seconds())
	for _, f := range fields.Fields() {
		found := "false"
		if f.Value != nil {
			found = "true"
		}
		m.fields.WithLabelValues(f.Name, found).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

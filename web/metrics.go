package web

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry    *prometheus.Registry
	rows        *prometheus.CounterVec
	submissions *prometheus.CounterVec
	duration    prometheus.Histogram
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	m := &metrics{
		registry: registry,
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "obracusto_import_rows_total",
			Help: "Parsed spreadsheet rows by validity.",
		}, []string{"result"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "obracusto_import_submissions_total",
			Help: "Create-expense calls by outcome.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "obracusto_import_duration_seconds",
			Help:    "Wall time of one upload import, parsing and submission included.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	registry.MustRegister(m.rows, m.submissions, m.duration)
	return m
}

func (m *metrics) observeBatch(valid, invalid int) {
	m.rows.WithLabelValues("valid").Add(float64(valid))
	m.rows.WithLabelValues("invalid").Add(float64(invalid))
}

func (m *metrics) observeSubmissions(created, failed int) {
	m.submissions.WithLabelValues("created").Add(float64(created))
	m.submissions.WithLabelValues("failed").Add(float64(failed))
}

func (m *metrics) observeDuration(started time.Time) {
	m.duration.Observe(time.Since(started).Seconds())
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

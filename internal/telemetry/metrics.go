package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the service's prometheus collectors. Built once in main and
// registered on the given registry, so tests can use isolated registries.
type Metrics struct {
	ReportsTotal   prometheus.Counter
	FilesTotal     *prometheus.CounterVec
	DecodeFailures prometheus.Counter
	ReportDuration prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ReportsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "volxo_reports_generated_total",
			Help: "Reports produced by the engine.",
		}),
		FilesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "volxo_files_processed_total",
			Help: "Uploaded files seen, labeled by classification.",
		}, []string{"kind"}),
		DecodeFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "volxo_decode_failures_total",
			Help: "Tabular files that could not be decoded.",
		}),
		ReportDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "volxo_report_build_seconds",
			Help:    "Wall time to build one report.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

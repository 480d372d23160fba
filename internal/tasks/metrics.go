package tasks

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	listingExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dottify_listing_exports_total",
		Help: "Total number of listings exported, by kind, format and result.",
	}, []string{"kind", "format", "result"})

	listingExportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dottify_listing_export_duration_seconds",
		Help:    "Time spent writing one listing to disk.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind", "format"})
)

// WriteMetrics writes the export metrics in the Prometheus text format to path, for a textfile collector.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

func recordExport(opts BulkExportOpts, res ListingExportResult) {
	outcome := "success"
	if !res.Success {
		outcome = "failure"
	}
	listingExportsTotal.WithLabelValues(string(opts.Kind), opts.Format, outcome).Inc()
}

package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "storewatch_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	reportGenerateTotal   *prometheus.CounterVec
	reportGenerateLatency *prometheus.HistogramVec
	reportRows            prometheus.Gauge

	reportFetchTotal  *prometheus.CounterVec
	reportExportTotal *prometheus.CounterVec

	ingestRows *prometheus.CounterVec
	ingestRuns *prometheus.CounterVec
	ingestDur  *prometheus.HistogramVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		reportGenerateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_generate_total",
				Help: "Total report generations by result",
			},
			[]string{"result"},
		)
		reportGenerateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_generate_latency_seconds",
				Help:    "Report generation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		reportRows = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "report_rows",
				Help: "Rows in the most recently generated report",
			},
		)

		reportFetchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_fetch_total",
				Help: "Total report fetches by status",
			},
			[]string{"status"},
		)
		reportExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)

		ingestRows = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ingest_rows_total",
				Help: "Total ingested rows by source",
			},
			[]string{"source"},
		)
		ingestRuns = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ingest_runs_total",
				Help: "Total ingestion runs by result",
			},
			[]string{"result"},
		)
		ingestDur = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "ingest_latency_seconds",
				Help:    "Ingestion run latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			reportGenerateTotal,
			reportGenerateLatency,
			reportRows,
			reportFetchTotal,
			reportExportTotal,
			ingestRows,
			ingestRuns,
			ingestDur,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveReportGenerate records one report generation outcome.
func ObserveReportGenerate(err error, duration time.Duration) {
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	if reportGenerateTotal != nil {
		reportGenerateTotal.WithLabelValues(result).Inc()
	}
	if reportGenerateLatency != nil {
		reportGenerateLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// SetReportRows records the row count of the latest report.
func SetReportRows(count int) {
	if reportRows != nil {
		reportRows.Set(float64(count))
	}
}

// IncReportFetch increments the fetch counter by served status.
func IncReportFetch(status string) {
	if status == "" {
		status = "unknown"
	}
	if reportFetchTotal != nil {
		reportFetchTotal.WithLabelValues(status).Inc()
	}
}

// IncReportExport increments the export counter.
func IncReportExport(format string, err error) {
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	if reportExportTotal != nil {
		reportExportTotal.WithLabelValues(format, result).Inc()
	}
}

// AddIngestRows adds ingested row counts for a source file.
func AddIngestRows(source string, count int) {
	if count <= 0 {
		return
	}
	if ingestRows != nil {
		ingestRows.WithLabelValues(source).Add(float64(count))
	}
}

// ObserveIngestRun records one ingestion run outcome.
func ObserveIngestRun(err error, duration time.Duration) {
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	if ingestRuns != nil {
		ingestRuns.WithLabelValues(result).Inc()
	}
	if ingestDur != nil {
		ingestDur.WithLabelValues(result).Observe(duration.Seconds())
	}
}

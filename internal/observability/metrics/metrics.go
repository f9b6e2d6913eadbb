package metrics

import (
	"database/sql"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	metricPrefix = "dutyreports_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	reportGenerateTotal   *prometheus.CounterVec
	reportGenerateLatency *prometheus.HistogramVec
	reportBytes           *prometheus.HistogramVec
	resolveErrors         *prometheus.CounterVec

	dutiesTotal prometheus.Counter
	breaksTotal prometheus.Counter

	publishTotal  *prometheus.CounterVec
	natsConnected prometheus.Gauge
)

// Init registers report metrics and DB-backed gauges. db may be nil.
func Init(db *sql.DB, logger logrus.FieldLogger) {
	registerOnce.Do(func() {
		reportGenerateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_generate_total",
				Help: "Total report generate operations by format and result",
			},
			[]string{"format", "result"},
		)
		reportGenerateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_generate_latency_seconds",
				Help:    "Report generate latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)
		reportBytes = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_bytes",
				Help:    "Rendered report size in bytes",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
			},
			[]string{"format"},
		)
		resolveErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "resolve_errors_total",
				Help: "Total schedule resolution failures by reason",
			},
			[]string{"reason"},
		)
		dutiesTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "duties_total",
				Help: "Total duties resolved into reports",
			},
		)
		breaksTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "breaks_total",
				Help: "Total breaks detected",
			},
		)
		publishTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "event_publish_total",
				Help: "Total report events published by result",
			},
			[]string{"result"},
		)

		natsConnected = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "nats_connected",
				Help: "Whether the event publisher holds a NATS connection",
			},
		)

		prometheus.MustRegister(
			reportGenerateTotal,
			reportGenerateLatency,
			reportBytes,
			resolveErrors,
			dutiesTotal,
			breaksTotal,
			publishTotal,
			natsConnected,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveReportGenerate records generate latency and result.
func ObserveReportGenerate(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if reportGenerateTotal != nil {
		reportGenerateTotal.WithLabelValues(format, result).Inc()
	}
	if reportGenerateLatency != nil {
		reportGenerateLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// ObserveReportSize records the rendered document size.
func ObserveReportSize(format string, size int) {
	if format == "" {
		format = "unknown"
	}
	if reportBytes != nil {
		reportBytes.WithLabelValues(format).Observe(float64(size))
	}
}

// IncResolveError increments the resolution failure counter.
func IncResolveError(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	if resolveErrors != nil {
		resolveErrors.WithLabelValues(reason).Inc()
	}
}

// AddResolved records resolved duties and detected breaks.
func AddResolved(duties, breaks int) {
	if dutiesTotal != nil && duties > 0 {
		dutiesTotal.Add(float64(duties))
	}
	if breaksTotal != nil && breaks > 0 {
		breaksTotal.Add(float64(breaks))
	}
}

// IncPublish increments the event publish counter.
func IncPublish(result string) {
	if result == "" {
		result = resultSuccess
	}
	if publishTotal != nil {
		publishTotal.WithLabelValues(result).Inc()
	}
}

// SetNATSConnected records the publisher connection state.
func SetNATSConnected(connected bool) {
	if natsConnected == nil {
		return
	}
	if connected {
		natsConnected.Set(1)
		return
	}
	natsConnected.Set(0)
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)

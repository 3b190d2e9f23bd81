// Package middleware provides cross-cutting concerns for the tip comparator.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-tipstat/internal/application"
	"github.com/ahrav/go-tipstat/internal/ports"
)

// metricsNamespace prefixes every metric exported by PrometheusMetrics.
const metricsNamespace = "tipstat"

// PrometheusMetrics implements the MetricsCollector interface using Prometheus.
// It tracks how many records a comparison saw, why records were dropped,
// the size of each group and how significance tests ended.
type PrometheusMetrics struct {
	records          prometheus.Counter
	recordsSkipped   *prometheus.CounterVec
	groupSize        *prometheus.GaugeVec
	compareLatency   *prometheus.HistogramVec
	significanceRuns *prometheus.CounterVec
}

// NewPrometheusMetrics creates a PrometheusMetrics instance and registers all
// metrics with reg. A nil reg registers with the default registry.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		records: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "records_total",
				Help:      "Total number of records examined across comparisons.",
			},
		),
		recordsSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "records_skipped_total",
				Help:      "Records excluded from both groups, by reason.",
			},
			[]string{"reason"},
		),
		groupSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "group_size",
				Help:      "Number of valid records in each group of the last comparison.",
			},
			[]string{"group"},
		),
		compareLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "compare_duration_seconds",
				Help:      "Execution time of comparator operations.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		significanceRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "significance_tests_total",
				Help:      "Significance tests attempted, by method and outcome.",
			},
			[]string{"method", "status"},
		),
	}
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	_ map[string]string,
) {
	pm.compareLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters. Unrecognized metrics are dropped.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case application.MetricRecords:
		pm.records.Add(value)
	case application.MetricRecordsSkipped:
		pm.recordsSkipped.WithLabelValues(labelOrUnknown(labels, "reason")).Add(value)
	case application.MetricSignificanceTests:
		pm.significanceRuns.WithLabelValues(
			labelOrUnknown(labels, "method"),
			labelOrUnknown(labels, "status"),
		).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values. Unrecognized metrics are dropped.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	if metric == application.MetricGroupSize {
		pm.groupSize.WithLabelValues(labelOrUnknown(labels, "group")).Set(value)
	}
}

func labelOrUnknown(labels map[string]string, key string) string {
	if v := labels[key]; v != "" {
		return v
	}
	return "unknown"
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

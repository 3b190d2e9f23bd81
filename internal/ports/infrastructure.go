// Package ports defines the interfaces through which the comparator talks
// to infrastructure: significance testing, dataset loading, metrics and
// logging.
package ports

import (
	"context"
	"io"
	"time"

	"github.com/ahrav/go-tipstat/internal/domain"
)

// SignificanceTester computes a two-sample test for a difference in mean
// tips. Implementations are selected by configuration; a tester that
// cannot produce a result returns an error wrapping
// domain.ErrStatsUnavailable or a library-specific error, and the caller
// reports an unknown p-value.
type SignificanceTester interface {
	// Name returns the configuration name of the tester (e.g. "welch").
	Name() string

	// Test compares the smoker and non-smoker samples. Both slices are
	// non-empty and contain only finite values.
	Test(ctx context.Context, smoker, nonSmoker []float64) (TestResult, error)
}

// TestResult carries the outcome of a significance test.
type TestResult struct {
	// PValue is the two-sided p-value.
	PValue float64

	// Statistic is the t statistic.
	Statistic float64

	// DegreesOfFreedom is the Welch-Satterthwaite approximation.
	DegreesOfFreedom float64
}

// DatasetLoader reads tabular input from an external source and produces a
// dataset for the comparator. Loaders perform I/O; the comparator never does.
type DatasetLoader interface {
	Load(ctx context.Context, r io.Reader) (domain.Dataset, error)
}

// MetricsCollector defines the interface for collecting operational
// metrics. Implementations could use Prometheus, StatsD, or other systems.
type MetricsCollector interface {
	// RecordLatency records the duration of an operation.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets a gauge metric to a specific value.
	RecordGauge(metric string, value float64, labels map[string]string)
}

// NoopMetrics discards every measurement.
type NoopMetrics struct{}

var _ MetricsCollector = NoopMetrics{}

// RecordLatency implements MetricsCollector.
func (NoopMetrics) RecordLatency(string, time.Duration, map[string]string) {}

// RecordCounter implements MetricsCollector.
func (NoopMetrics) RecordCounter(string, float64, map[string]string) {}

// RecordGauge implements MetricsCollector.
func (NoopMetrics) RecordGauge(string, float64, map[string]string) {}

// Comparator compares mean tips between smokers and non-smokers.
// application.TipComparator is the canonical implementation; middleware
// decorates it.
type Comparator interface {
	Compare(ctx context.Context, dataset domain.Dataset, runSignificanceTest bool) (*domain.GroupSummary, error)
}

package middleware

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-tipstat/internal/application"
	"github.com/ahrav/go-tipstat/internal/domain"
	"github.com/ahrav/go-tipstat/internal/ports"
)

// newTestMetrics registers metrics on a private registry so tests do not
// collide on the default one.
func newTestMetrics(t *testing.T) (*PrometheusMetrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewPrometheusMetrics(reg), reg
}

func TestNewPrometheusMetrics(t *testing.T) {
	pm, reg := newTestMetrics(t)

	assert.NotNil(t, pm.records)
	assert.NotNil(t, pm.recordsSkipped)
	assert.NotNil(t, pm.groupSize)
	assert.NotNil(t, pm.compareLatency)
	assert.NotNil(t, pm.significanceRuns)

	var _ ports.MetricsCollector = pm

	// Registering the same set twice on one registry must fail.
	assert.Panics(t, func() { NewPrometheusMetrics(reg) })
}

func TestPrometheusMetrics_RecordCounter(t *testing.T) {
	tests := []struct {
		name   string
		metric string
		value  float64
		labels map[string]string
		read   func(pm *PrometheusMetrics) float64
		want   float64
	}{
		{
			name:   "records total",
			metric: application.MetricRecords,
			value:  7,
			read:   func(pm *PrometheusMetrics) float64 { return testutil.ToFloat64(pm.records) },
			want:   7,
		},
		{
			name:   "skipped by reason",
			metric: application.MetricRecordsSkipped,
			value:  2,
			labels: map[string]string{"reason": domain.SkipInvalidTip},
			read: func(pm *PrometheusMetrics) float64 {
				return testutil.ToFloat64(pm.recordsSkipped.WithLabelValues(domain.SkipInvalidTip))
			},
			want: 2,
		},
		{
			name:   "skipped without reason label",
			metric: application.MetricRecordsSkipped,
			value:  1,
			read: func(pm *PrometheusMetrics) float64 {
				return testutil.ToFloat64(pm.recordsSkipped.WithLabelValues("unknown"))
			},
			want: 1,
		},
		{
			name:   "significance test outcome",
			metric: application.MetricSignificanceTests,
			value:  1,
			labels: map[string]string{"method": "welch", "status": application.TestStatusOK},
			read: func(pm *PrometheusMetrics) float64 {
				return testutil.ToFloat64(pm.significanceRuns.WithLabelValues("welch", application.TestStatusOK))
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm, _ := newTestMetrics(t)
			pm.RecordCounter(tt.metric, tt.value, tt.labels)
			assert.Equal(t, tt.want, tt.read(pm))
		})
	}
}

func TestPrometheusMetrics_RecordGauge(t *testing.T) {
	pm, _ := newTestMetrics(t)

	pm.RecordGauge(application.MetricGroupSize, 4, map[string]string{"group": "smoker"})
	pm.RecordGauge(application.MetricGroupSize, 9, map[string]string{"group": "smoker"})

	assert.Equal(t, 9.0, testutil.ToFloat64(pm.groupSize.WithLabelValues("smoker")))
}

func TestPrometheusMetrics_UnrecognizedMetricsDropped(t *testing.T) {
	pm, reg := newTestMetrics(t)

	pm.RecordCounter("cache_hits", 3, nil)
	pm.RecordGauge("pending", 1.5, map[string]string{"group": "smoker"})

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(mfs))
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	assert.Equal(t, []string{"tipstat_records_total"}, names)
	assert.Zero(t, testutil.ToFloat64(pm.records))
}

func TestPrometheusMetrics_RecordLatency(t *testing.T) {
	pm, reg := newTestMetrics(t)

	pm.RecordLatency(application.OperationCompare, 20*time.Millisecond, nil)
	pm.RecordLatency(application.OperationCompare, 30*time.Millisecond, map[string]string{"ignored": "x"})

	assert.Equal(t, 1, testutil.CollectAndCount(pm.compareLatency))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != "tipstat_compare_duration_seconds" {
			continue
		}
		h := mf.GetMetric()[0].GetHistogram()
		assert.Equal(t, uint64(2), h.GetSampleCount())
		assert.InDelta(t, 0.05, h.GetSampleSum(), 1e-9)
		return
	}
	t.Fatal("compare duration histogram not gathered")
}

func TestPrometheusMetrics_WithComparator(t *testing.T) {
	pm, reg := newTestMetrics(t)

	cmp, err := application.NewTipComparator(application.WithMetrics(pm))
	require.NoError(t, err)

	ds := domain.Records{
		{"tip": 3.0, "smoker": "No"},
		{"tip": 5.0, "smoker": "Yes"},
		{"tip": 4.0, "smoker": "yes"},
		{"tip": "bad", "smoker": "No"},
		{"tip": 1.0, "smoker": "maybe"},
	}
	_, err = cmp.Compare(context.Background(), ds, false)
	require.NoError(t, err)

	expected := `
# HELP tipstat_group_size Number of valid records in each group of the last comparison.
# TYPE tipstat_group_size gauge
tipstat_group_size{group="non_smoker"} 1
tipstat_group_size{group="smoker"} 2
# HELP tipstat_records_skipped_total Records excluded from both groups, by reason.
# TYPE tipstat_records_skipped_total counter
tipstat_records_skipped_total{reason="invalid_tip"} 1
tipstat_records_skipped_total{reason="unknown_smoker"} 1
# HELP tipstat_records_total Total number of records examined across comparisons.
# TYPE tipstat_records_total counter
tipstat_records_total 5
`
	err = testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"tipstat_group_size", "tipstat_records_skipped_total", "tipstat_records_total")
	assert.NoError(t, err)
}
